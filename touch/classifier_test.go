package touch

import (
	"testing"
)

type gestureRecorder struct {
	gestures []Gesture
}

func (r *gestureRecorder) HandleGesture(g Gesture) {
	r.gestures = append(r.gestures, g)
}

func (r *gestureRecorder) kinds() []GestureKind {
	kinds := make([]GestureKind, len(r.gestures))
	for i, g := range r.gestures {
		kinds[i] = g.Kind
	}
	return kinds
}

// identityClassifier returns a classifier whose mapper is 1:1, so gesture
// coordinates equal source coordinates.
func identityClassifier(t *testing.T) (*Classifier, *gestureRecorder) {
	t.Helper()
	m, err := NewMapper(ScreenGeometry{SourceWidth: 800, SourceHeight: 480, TargetWidth: 800, TargetHeight: 480})
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	rec := &gestureRecorder{}
	return NewClassifier(m, rec), rec
}

func absXRec(v int) Record { return Record{Kind: KindAbsolute, Axis: AxisX, Value: v} }
func absYRec(v int) Record { return Record{Kind: KindAbsolute, Axis: AxisY, Value: v} }
func button(p bool) Record {
	return Record{Kind: KindButton, Pressed: p}
}
func frameSync() Record { return Record{Kind: KindFrameSync} }

func feed(c *Classifier, records ...Record) {
	for _, r := range records {
		c.Process(r)
	}
}

func expectKinds(t *testing.T, got []GestureKind, want ...GestureKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("gesture %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestClassifier_TapEmitsDownUp(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c,
		absXRec(100), absYRec(100), button(true), frameSync(),
		absXRec(105), absYRec(103), frameSync(),
		button(false),
	)

	expectKinds(t, rec.kinds(), GestureDown, GestureUp)
	if rec.gestures[0].X != 100 || rec.gestures[0].Y != 100 {
		t.Errorf("down at (%d,%d), want (100,100)", rec.gestures[0].X, rec.gestures[0].Y)
	}
	if rec.gestures[1].X != 105 || rec.gestures[1].Y != 103 {
		t.Errorf("up at (%d,%d), want (105,103)", rec.gestures[1].X, rec.gestures[1].Y)
	}
}

func TestClassifier_TapMapsCoordinates(t *testing.T) {
	m, err := NewMapper(ScreenGeometry{SourceWidth: 800, SourceHeight: 480, TargetWidth: 390, TargetHeight: 844})
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	rec := &gestureRecorder{}
	c := NewClassifier(m, rec)

	feed(c, absXRec(400), absYRec(240), button(true), button(false))

	expectKinds(t, rec.kinds(), GestureDown, GestureUp)
	for _, g := range rec.gestures {
		if g.X != 195 || g.Y != 422 {
			t.Errorf("%v at (%d,%d), want (195,422)", g.Kind, g.X, g.Y)
		}
	}
}

func TestClassifier_DragEmitsMovesAndSuppressesUp(t *testing.T) {
	c, rec := identityClassifier(t)

	// horizontal drag well past the tap threshold, never scroll-eligible
	feed(c, absXRec(100), absYRec(100), button(true), frameSync())
	for x := 110; x <= 160; x += 10 {
		feed(c, absXRec(x), frameSync())
	}
	feed(c, button(false))

	kinds := rec.kinds()
	if kinds[0] != GestureDown {
		t.Fatalf("first gesture %v, want down", kinds[0])
	}
	moves := 0
	for _, k := range kinds[1:] {
		if k != GestureMove {
			t.Fatalf("unexpected gesture %v in drag sequence %v", k, kinds)
		}
		moves++
	}
	if moves == 0 {
		t.Fatal("expected at least one move event")
	}
}

func TestClassifier_MoveDebounce(t *testing.T) {
	c, rec := identityClassifier(t)

	// wiggle below the emit threshold: only the down should appear
	feed(c,
		absXRec(100), absYRec(100), button(true), frameSync(),
		absXRec(103), absYRec(102), frameSync(),
		absXRec(101), absYRec(104), frameSync(),
	)

	expectKinds(t, rec.kinds(), GestureDown)
}

func TestClassifier_VerticalScrollDown(t *testing.T) {
	c, rec := identityClassifier(t)

	// finger travels downward >50px with <25px horizontal excursion
	feed(c, absXRec(200), absYRec(100), button(true), frameSync())
	feed(c, absXRec(205), absYRec(160), frameSync()) // promotes and crosses anchor
	feed(c, absXRec(207), absYRec(220), frameSync()) // second 50px crossing
	feed(c, button(false))

	expectKinds(t, rec.kinds(), GestureDown, GestureScrollDown, GestureScrollDown)
}

func TestClassifier_VerticalScrollUp(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c, absXRec(200), absYRec(300), button(true), frameSync())
	feed(c, absXRec(203), absYRec(240), frameSync())
	feed(c, button(false))

	expectKinds(t, rec.kinds(), GestureDown, GestureScrollUp)
}

func TestClassifier_ScrollReleaseSuppresssUp(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c, absXRec(200), absYRec(100), button(true), frameSync())
	feed(c, absYRec(180), frameSync())
	feed(c, button(false))

	for _, k := range rec.kinds() {
		if k == GestureUp {
			t.Fatalf("scroll release must not emit up: %v", rec.kinds())
		}
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode after release = %v, want idle", c.Mode())
	}
}

func TestClassifier_ScrollDebounceBelowThreshold(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c, absXRec(200), absYRec(100), button(true), frameSync())
	feed(c, absYRec(160), frameSync()) // promote + first scroll
	feed(c, absYRec(190), frameSync()) // only 30px since anchor: no event
	feed(c, button(false))

	expectKinds(t, rec.kinds(), GestureDown, GestureScrollDown)
}

func TestClassifier_DiagonalDragDoesNotScroll(t *testing.T) {
	c, rec := identityClassifier(t)

	// vertical travel >50 but horizontal excursion >=25 keeps it a drag
	feed(c, absXRec(100), absYRec(100), button(true), frameSync())
	feed(c, absXRec(140), absYRec(170), frameSync())
	feed(c, button(false))

	expectKinds(t, rec.kinds(), GestureDown, GestureMove)
}

func TestClassifier_IgnoresUnknownRecords(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c,
		Record{Kind: KindUnknown},
		absXRec(100), absYRec(100),
		Record{Kind: KindAbsolute, Axis: AxisPressure, Value: 900},
		button(true),
		Record{Kind: KindUnknown, Value: 12345},
		button(false),
	)

	expectKinds(t, rec.kinds(), GestureDown, GestureUp)
}

func TestClassifier_ReleaseWithoutPressIgnored(t *testing.T) {
	c, rec := identityClassifier(t)

	feed(c, absXRec(50), absYRec(50), button(false), frameSync())

	if len(rec.gestures) != 0 {
		t.Fatalf("unexpected gestures: %v", rec.kinds())
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", c.Mode())
	}
}

func TestClassifier_ModeResetsAfterEachTouch(t *testing.T) {
	c, rec := identityClassifier(t)

	// scroll, release, then a tap: state must not leak between touches
	feed(c, absXRec(200), absYRec(100), button(true), frameSync())
	feed(c, absYRec(170), frameSync())
	feed(c, button(false))

	feed(c, absXRec(300), absYRec(200), button(true), button(false))

	kinds := rec.kinds()
	expectKinds(t, kinds, GestureDown, GestureScrollDown, GestureDown, GestureUp)
}
