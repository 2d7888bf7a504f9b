package touch

import "time"

// Kind identifies the class of a raw input record after translation from
// the device-specific event stream.
type Kind int

const (
	KindUnknown Kind = iota
	KindAbsolute
	KindButton
	KindFrameSync
)

// Axis identifies which absolute axis a KindAbsolute record updates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisPressure
)

// Record is one raw input record in device-neutral form. Absolute records
// carry Axis and Value; button records carry Pressed. The input source
// overwrites the current sample in place; records are not a history.
type Record struct {
	Kind    Kind
	Axis    Axis
	Value   int
	Pressed bool
	Time    time.Time
}

// GestureKind is the classifier's output vocabulary.
type GestureKind int

const (
	GestureDown GestureKind = iota
	GestureUp
	GestureMove
	GestureScrollUp
	GestureScrollDown
)

func (k GestureKind) String() string {
	switch k {
	case GestureDown:
		return "down"
	case GestureUp:
		return "up"
	case GestureMove:
		return "move"
	case GestureScrollUp:
		return "scrollUp"
	case GestureScrollDown:
		return "scrollDown"
	default:
		return "unknown"
	}
}

// Gesture is one semantic gesture, with coordinates already mapped into the
// target screen space. Produced once by the classifier, consumed once by the
// handler.
type Gesture struct {
	Kind GestureKind `json:"kind"`
	X    int         `json:"x"`
	Y    int         `json:"y"`
}

// GestureHandler receives classified gestures. It is invoked synchronously
// on the capture goroutine, so implementations must not block for long.
type GestureHandler interface {
	HandleGesture(g Gesture)
}

// GestureHandlerFunc adapts a function to the GestureHandler interface.
type GestureHandlerFunc func(g Gesture)

func (f GestureHandlerFunc) HandleGesture(g Gesture) {
	f(g)
}
