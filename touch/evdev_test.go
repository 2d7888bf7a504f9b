package touch

import (
	"encoding/binary"
	"testing"
	"time"
)

func packEvent64(sec, usec uint64, etype, code uint16, value int32) []byte {
	b := make([]byte, inputEventSize64)
	binary.LittleEndian.PutUint64(b[0:8], sec)
	binary.LittleEndian.PutUint64(b[8:16], usec)
	binary.LittleEndian.PutUint16(b[16:18], etype)
	binary.LittleEndian.PutUint16(b[18:20], code)
	binary.LittleEndian.PutUint32(b[20:24], uint32(value))
	return b
}

func TestParseInputEvent64(t *testing.T) {
	b := packEvent64(1700000000, 250000, evAbs, absX, 412)

	etype, code, value, ts, err := parseInputEvent(b)
	if err != nil {
		t.Fatalf("parseInputEvent failed: %v", err)
	}
	if etype != evAbs || code != absX || value != 412 {
		t.Errorf("got type=%d code=%d value=%d", etype, code, value)
	}
	want := time.Unix(1700000000, 250000*1000)
	if !ts.Equal(want) {
		t.Errorf("timestamp %v, want %v", ts, want)
	}
}

func TestParseInputEvent32(t *testing.T) {
	b := make([]byte, inputEventSize32)
	binary.LittleEndian.PutUint32(b[0:4], 1700000000)
	binary.LittleEndian.PutUint32(b[4:8], 5000)
	binary.LittleEndian.PutUint16(b[8:10], evKey)
	binary.LittleEndian.PutUint16(b[10:12], btnTouch)
	binary.LittleEndian.PutUint32(b[12:16], 1)

	etype, code, value, _, err := parseInputEvent(b)
	if err != nil {
		t.Fatalf("parseInputEvent failed: %v", err)
	}
	if etype != evKey || code != btnTouch || value != 1 {
		t.Errorf("got type=%d code=%d value=%d", etype, code, value)
	}
}

func TestParseInputEvent_BadSize(t *testing.T) {
	if _, _, _, _, err := parseInputEvent(make([]byte, 20)); err == nil {
		t.Fatal("expected error for 20-byte record")
	}
}

func TestTranslateEvent(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		etype uint16
		code  uint16
		value int32
		want  Record
	}{
		{"abs x", evAbs, absX, 120, Record{Kind: KindAbsolute, Axis: AxisX, Value: 120}},
		{"abs y", evAbs, absY, 99, Record{Kind: KindAbsolute, Axis: AxisY, Value: 99}},
		{"pressure", evAbs, absPressure, 800, Record{Kind: KindAbsolute, Axis: AxisPressure, Value: 800}},
		{"mt pressure", evAbs, absMtPressure, 801, Record{Kind: KindAbsolute, Axis: AxisPressure, Value: 801}},
		{"touch down", evKey, btnTouch, 1, Record{Kind: KindButton, Pressed: true}},
		{"touch up", evKey, btnTouch, 0, Record{Kind: KindButton, Pressed: false}},
		{"left button", evKey, btnLeft, 1, Record{Kind: KindButton, Pressed: true}},
		{"key autorepeat ignored", evKey, btnTouch, 2, Record{Kind: KindUnknown}},
		{"other key ignored", evKey, 0x100, 1, Record{Kind: KindUnknown}},
		{"frame sync", evSyn, synReport, 0, Record{Kind: KindFrameSync}},
		{"other syn ignored", evSyn, 1, 0, Record{Kind: KindUnknown}},
		{"other abs ignored", evAbs, 0x2f, 0, Record{Kind: KindUnknown}},
		{"unknown type", 0x04, 0, 0, Record{Kind: KindUnknown}},
	}

	for _, tc := range cases {
		got := translateEvent(tc.etype, tc.code, tc.value, now)
		tc.want.Time = now
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}
