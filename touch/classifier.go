package touch

import (
	"github.com/touchbridge/touchbridge/utils"
)

// Gesture policy constants, in source screen pixels.
const (
	// ScrollThreshold is the vertical travel required both to enter scroll
	// mode and to emit each subsequent scroll step.
	ScrollThreshold = 50

	// ScrollExclusion is the maximum horizontal travel allowed for a drag to
	// still qualify as a scroll.
	ScrollExclusion = 25

	// MoveEmitThreshold debounces move events while dragging.
	MoveEmitThreshold = 5

	// TapThreshold is the maximum displacement on release for a touch to
	// count as a tap.
	TapThreshold = 20
)

// Mode is the classifier's pointer state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeTouching
	ModeScrolling
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeTouching:
		return "touching"
	case ModeScrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// Classifier turns a stream of raw absolute-position/button records into
// semantic gestures. It tracks a single pointer. Movement and scroll
// decisions happen only at frame boundaries; button transitions are handled
// as they arrive. Malformed or unrecognized records are ignored: the
// classifier is best effort and never fails.
//
// Classifier is not safe for concurrent use. The capture loop invokes
// Process from exactly one goroutine.
type Classifier struct {
	mapper  *Mapper
	handler GestureHandler

	active           bool
	mode             Mode
	originX, originY int
	lastX, lastY     int
	curX, curY       int
	scrollAnchorY    int
}

func NewClassifier(mapper *Mapper, handler GestureHandler) *Classifier {
	return &Classifier{mapper: mapper, handler: handler}
}

// Mode returns the current pointer mode. Exposed for status reporting.
func (c *Classifier) Mode() Mode {
	return c.mode
}

// Process consumes one raw record and emits zero or more gestures to the
// handler.
func (c *Classifier) Process(rec Record) {
	switch rec.Kind {
	case KindAbsolute:
		c.processAbsolute(rec)
	case KindButton:
		c.processButton(rec)
	case KindFrameSync:
		c.processFrameSync()
	}
}

func (c *Classifier) processAbsolute(rec Record) {
	switch rec.Axis {
	case AxisX:
		c.curX = rec.Value
	case AxisY:
		c.curY = rec.Value
	case AxisPressure:
		// pressure is reported by some panels but not used for classification
	}
}

func (c *Classifier) processButton(rec Record) {
	if rec.Pressed && !c.active {
		c.active = true
		c.mode = ModeTouching
		c.originX, c.originY = c.curX, c.curY
		c.lastX, c.lastY = c.curX, c.curY
		c.scrollAnchorY = c.curY
		c.emit(GestureDown)
		return
	}

	if !rec.Pressed && c.active {
		wasScrolling := c.mode == ModeScrolling
		c.active = false
		c.mode = ModeIdle

		if wasScrolling {
			// scroll gestures never produce a terminal up
			return
		}

		dx := abs(c.curX - c.originX)
		dy := abs(c.curY - c.originY)
		if dx < TapThreshold && dy < TapThreshold {
			c.emit(GestureUp)
		}
		// moved past the tap threshold without scrolling: the drag already
		// produced move events, so the release is suppressed
	}
}

// processFrameSync evaluates movement once all axes of a frame have been
// reported.
func (c *Classifier) processFrameSync() {
	if !c.active {
		return
	}

	if c.mode == ModeTouching {
		dy := abs(c.curY - c.originY)
		dx := abs(c.curX - c.originX)
		if dy > ScrollThreshold && dx < ScrollExclusion {
			c.mode = ModeScrolling
			utils.Verbose("scroll mode activated at (%d,%d)", c.curX, c.curY)
		}
	}

	if c.mode == ModeScrolling {
		delta := c.curY - c.scrollAnchorY
		if abs(delta) > ScrollThreshold {
			if delta > 0 {
				c.emit(GestureScrollDown)
			} else {
				c.emit(GestureScrollUp)
			}
			c.scrollAnchorY = c.curY
		}
		return
	}

	if abs(c.curX-c.lastX) > MoveEmitThreshold || abs(c.curY-c.lastY) > MoveEmitThreshold {
		c.emit(GestureMove)
		c.lastX, c.lastY = c.curX, c.curY
	}
}

func (c *Classifier) emit(kind GestureKind) {
	if c.handler == nil {
		return
	}
	x, y := c.mapper.Map(c.curX, c.curY)
	c.handler.HandleGesture(Gesture{Kind: kind, X: x, Y: y})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
