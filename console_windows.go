//go:build windows

package termevent

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                          = windows.NewLazySystemDLL("kernel32.dll")
	procReadConsoleInputW             = kernel32.NewProc("ReadConsoleInputW")
	procGetNumberOfConsoleInputEvents = kernel32.NewProc("GetNumberOfConsoleInputEvents")
)

// rawInputRecord mirrors INPUT_RECORD: a type tag followed by a 16 byte
// union of the per-type records.
type rawInputRecord struct {
	EventType uint16
	_         [2]byte
	Event     [16]byte
}

// decode unpacks the union member selected by EventType.
func (r rawInputRecord) decode() inputRecord {
	le := binary.LittleEndian
	b := r.Event[:]
	rec := inputRecord{EventType: r.EventType}

	switch r.EventType {
	case keyEventType:
		rec.Key = keyRecord{
			KeyDown:         le.Uint32(b[0:4]) != 0,
			RepeatCount:     le.Uint16(b[4:6]),
			VirtualKeyCode:  le.Uint16(b[6:8]),
			VirtualScanCode: le.Uint16(b[8:10]),
			UnicodeChar:     le.Uint16(b[10:12]),
			ControlKeyState: le.Uint32(b[12:16]),
		}
	case mouseEventType:
		rec.Mouse = mouseRecord{
			X:               int16(le.Uint16(b[0:2])),
			Y:               int16(le.Uint16(b[2:4])),
			ButtonState:     le.Uint32(b[4:8]),
			ControlKeyState: le.Uint32(b[8:12]),
			EventFlags:      le.Uint32(b[12:16]),
		}
	case windowBufferSizeEventType:
		rec.Size = sizeRecord{
			X: int16(le.Uint16(b[0:2])),
			Y: int16(le.Uint16(b[2:4])),
		}
	}
	return rec
}

func readConsoleInput(h windows.Handle, records []rawInputRecord) (int, error) {
	var n uint32
	r1, _, e1 := procReadConsoleInputW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&records[0])),
		uintptr(len(records)),
		uintptr(unsafe.Pointer(&n)),
	)
	if r1 == 0 {
		return 0, e1
	}
	return int(n), nil
}

func numberOfConsoleInputEvents(h windows.Handle) (uint32, error) {
	var n uint32
	r1, _, e1 := procGetNumberOfConsoleInputEvents.Call(uintptr(h), uintptr(unsafe.Pointer(&n)))
	if r1 == 0 {
		return 0, e1
	}
	return n, nil
}
