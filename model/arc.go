package model

import "math"

// Arc 为逆时针方向的圆弧，角度单位为度，范围 [0, 360)
type Arc struct {
	Base
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// NewArc 标准化起止角度后校验；起止角度相同的退化圆弧会被拒绝
func NewArc(base Base, center Point, radius, start, end float64) (Arc, error) {
	a := Arc{Base: base, Center: center, Radius: radius, StartAngle: start, EndAngle: end}
	if finite(start) && finite(end) {
		a.StartAngle = NormalizeAngle(start)
		a.EndAngle = NormalizeAngle(end)
	}
	if err := a.Validate(); err != nil {
		return Arc{}, err
	}
	return a, nil
}

func (Arc) Type() string { return "ARC" }

func (Arc) sealed() {}

func (a Arc) Validate() error {
	if err := a.validate("ARC"); err != nil {
		return err
	}
	if !a.Center.Finite() {
		return invalid("ARC", "non-finite center")
	}
	if !finite(a.Radius) || a.Radius <= 0 {
		return invalid("ARC", "radius %v must be positive", a.Radius)
	}
	if !finite(a.StartAngle) || !finite(a.EndAngle) {
		return invalid("ARC", "non-finite angle")
	}
	if a.StartAngle < 0 || a.StartAngle >= 360 || a.EndAngle < 0 || a.EndAngle >= 360 {
		return invalid("ARC", "angles %v..%v not normalized", a.StartAngle, a.EndAngle)
	}
	if a.StartAngle == a.EndAngle {
		return invalid("ARC", "start angle equals end angle")
	}
	return nil
}

// Sweep 返回圆弧扫过的角度(度)
func (a Arc) Sweep() float64 {
	s := a.EndAngle - a.StartAngle
	if s <= 0 {
		s += 360
	}
	return s
}

// PointAt 返回圆弧上指定角度(度)处的点
func (a Arc) PointAt(deg float64) Point {
	rad := deg * math.Pi / 180.0
	return Point{
		X: a.Center.X + a.Radius*math.Cos(rad),
		Y: a.Center.Y + a.Radius*math.Sin(rad),
		Z: a.Center.Z,
	}
}

func (a Arc) BBox() BBox {
	box := EmptyBBox().Extend(a.PointAt(a.StartAngle)).Extend(a.PointAt(a.EndAngle))

	// 扫过的象限点也属于包围盒
	sweep := a.Sweep()
	for _, q := range []float64{0, 90, 180, 270} {
		if NormalizeAngle(q-a.StartAngle) <= sweep {
			box = box.Extend(a.PointAt(q))
		}
	}
	return box
}
