package main

import (
	"os"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// options are the command line flags.
type options struct {
	OptMouse     bool   `short:"m" long:"mouse" description:"enable mouse capture"`
	OptNoMouse   bool   `long:"no-mouse" description:"disable mouse capture even if the config file enables it"`
	OptPoll      string `short:"p" long:"poll" description:"print a dot when no event arrives within this interval (default 1s)"`
	OptConfig    string `short:"c" long:"config" description:"read settings from a YAML file; flags take precedence"`
	OptCursorKey string `long:"cursor-key" description:"key that prints the cursor position (default c)"`
	OptQuitKey   string `long:"quit-key" description:"key that exits, in addition to Esc (default q)"`
	OptDebug     string `long:"debug" description:"append decoding details to this file"`
}

// parse parses the command line into o. It returns flags.ErrHelp wrapped in
// a *flags.Error when --help was given.
func (o *options) parse(args []string) error {
	p := flags.NewParser(o, flags.HelpFlag|flags.PrintErrors)
	p.Usage = "[options]"
	rest, err := p.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return errors.Errorf("unexpected arguments: %v", rest)
	}
	return nil
}

// config is the YAML config file. Keys mirror the long flag names.
type config struct {
	Mouse     bool   `yaml:"mouse"`
	Poll      string `yaml:"poll"`
	CursorKey string `yaml:"cursor-key"`
	QuitKey   string `yaml:"quit-key"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// settings is the resolved configuration the event loop runs with.
type settings struct {
	Mouse     bool
	Poll      time.Duration
	CursorKey rune
	QuitKey   rune
}

func defaultSettings() settings {
	return settings{
		Poll:      time.Second,
		CursorKey: 'c',
		QuitKey:   'q',
	}
}

// apply overrides s with every field set in c. Mouse only ever turns
// capture on; see options.settings for turning it off.
func (c config) apply(s *settings) error {
	if c.Mouse {
		s.Mouse = true
	}
	if c.Poll != "" {
		d, err := time.ParseDuration(c.Poll)
		if err != nil {
			return errors.Wrap(err, "invalid poll interval")
		}
		if d <= 0 {
			return errors.Errorf("poll interval must be positive, got %s", d)
		}
		s.Poll = d
	}
	if c.CursorKey != "" {
		r, err := parseKey(c.CursorKey)
		if err != nil {
			return errors.Wrap(err, "invalid cursor key")
		}
		s.CursorKey = r
	}
	if c.QuitKey != "" {
		r, err := parseKey(c.QuitKey)
		if err != nil {
			return errors.Wrap(err, "invalid quit key")
		}
		s.QuitKey = r
	}
	return nil
}

func parseKey(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Errorf("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// settings resolves defaults, then the config file, then the flags.
func (o options) settings() (settings, error) {
	s := defaultSettings()

	if o.OptConfig != "" {
		cfg, err := loadConfig(o.OptConfig)
		if err != nil {
			return s, err
		}
		if err := cfg.apply(&s); err != nil {
			return s, errors.Wrapf(err, "config %s", o.OptConfig)
		}
	}

	fromFlags := config{
		Mouse:     o.OptMouse,
		Poll:      o.OptPoll,
		CursorKey: o.OptCursorKey,
		QuitKey:   o.OptQuitKey,
	}
	if err := fromFlags.apply(&s); err != nil {
		return s, err
	}
	// A bool flag cannot tell "not given" from false, so turning mouse
	// capture off takes its own flag.
	if o.OptNoMouse {
		if o.OptMouse {
			return s, errors.New("--mouse and --no-mouse are mutually exclusive")
		}
		s.Mouse = false
	}

	if s.CursorKey == s.QuitKey {
		return s, errors.Errorf("cursor key and quit key are both %q", s.QuitKey)
	}
	return s, nil
}
