package touch

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Linux input event types and codes, from input-event-codes.h. Only the
// subset a single-pointer touchscreen reports is translated; everything else
// becomes KindUnknown and is ignored downstream.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	absX          = 0x00
	absY          = 0x01
	absPressure   = 0x18
	absMtPressure = 0x3a

	btnLeft  = 0x110
	btnTouch = 0x14a

	synReport = 0x00
)

// input_event struct sizes: 16 bytes with a 32-bit timeval, 24 with 64-bit.
const (
	inputEventSize32 = 16
	inputEventSize64 = 24
)

// parseInputEvent decodes one raw input_event record (16 or 24 bytes,
// little-endian) into its type/code/value triple.
func parseInputEvent(b []byte) (etype uint16, code uint16, value int32, t time.Time, err error) {
	switch len(b) {
	case inputEventSize64:
		sec := int64(binary.LittleEndian.Uint64(b[0:8]))
		usec := int64(binary.LittleEndian.Uint64(b[8:16]))
		t = time.Unix(sec, usec*1000)
		etype = binary.LittleEndian.Uint16(b[16:18])
		code = binary.LittleEndian.Uint16(b[18:20])
		value = int32(binary.LittleEndian.Uint32(b[20:24]))
	case inputEventSize32:
		sec := int64(binary.LittleEndian.Uint32(b[0:4]))
		usec := int64(binary.LittleEndian.Uint32(b[4:8]))
		t = time.Unix(sec, usec*1000)
		etype = binary.LittleEndian.Uint16(b[8:10])
		code = binary.LittleEndian.Uint16(b[10:12])
		value = int32(binary.LittleEndian.Uint32(b[12:16]))
	default:
		err = fmt.Errorf("unexpected input_event size %d", len(b))
	}
	return
}

// translateEvent maps a decoded input_event into the device-neutral Record
// the classifier consumes.
func translateEvent(etype, code uint16, value int32, t time.Time) Record {
	rec := Record{Kind: KindUnknown, Time: t}

	switch etype {
	case evAbs:
		switch code {
		case absX:
			rec.Kind = KindAbsolute
			rec.Axis = AxisX
			rec.Value = int(value)
		case absY:
			rec.Kind = KindAbsolute
			rec.Axis = AxisY
			rec.Value = int(value)
		case absPressure, absMtPressure:
			rec.Kind = KindAbsolute
			rec.Axis = AxisPressure
			rec.Value = int(value)
		}

	case evKey:
		if code == btnTouch || code == btnLeft {
			switch value {
			case 1:
				rec.Kind = KindButton
				rec.Pressed = true
			case 0:
				rec.Kind = KindButton
				rec.Pressed = false
			}
			// value 2 is key autorepeat, meaningless for a touch panel
		}

	case evSyn:
		if code == synReport {
			rec.Kind = KindFrameSync
		}
	}

	return rec
}
