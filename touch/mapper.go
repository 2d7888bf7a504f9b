package touch

import "fmt"

// ScreenGeometry describes the source touchscreen and the target display the
// actuator touches. All dimensions must be positive before any mapping call.
type ScreenGeometry struct {
	SourceWidth  int `json:"sourceWidth"`
	SourceHeight int `json:"sourceHeight"`
	TargetWidth  int `json:"targetWidth"`
	TargetHeight int `json:"targetHeight"`
}

// Validate rejects non-positive dimensions. Geometry errors are configuration
// errors and surface here, never at mapping time.
func (g ScreenGeometry) Validate() error {
	if g.SourceWidth <= 0 || g.SourceHeight <= 0 {
		return fmt.Errorf("source dimensions must be positive, got %dx%d", g.SourceWidth, g.SourceHeight)
	}
	if g.TargetWidth <= 0 || g.TargetHeight <= 0 {
		return fmt.Errorf("target dimensions must be positive, got %dx%d", g.TargetWidth, g.TargetHeight)
	}
	return nil
}

// Mapper is a stateless linear transform from source screen coordinates to
// target screen coordinates, clamped to the target bounds.
type Mapper struct {
	geom ScreenGeometry
}

func NewMapper(geom ScreenGeometry) (*Mapper, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{geom: geom}, nil
}

// SetGeometry replaces the geometry, subject to the same validation as
// NewMapper. On error the previous geometry remains in effect.
func (m *Mapper) SetGeometry(geom ScreenGeometry) error {
	if err := geom.Validate(); err != nil {
		return err
	}
	m.geom = geom
	return nil
}

func (m *Mapper) Geometry() ScreenGeometry {
	return m.geom
}

// Map transforms a source coordinate into target space. The result always
// lies within [0, targetW-1] x [0, targetH-1].
func (m *Mapper) Map(x, y int) (int, int) {
	tx := x * m.geom.TargetWidth / m.geom.SourceWidth
	ty := y * m.geom.TargetHeight / m.geom.SourceHeight
	return clamp(tx, 0, m.geom.TargetWidth-1), clamp(ty, 0, m.geom.TargetHeight-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
