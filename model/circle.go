package model

type Circle struct {
	Base
	Center Point
	Radius float64
}

func NewCircle(base Base, center Point, radius float64) (Circle, error) {
	c := Circle{Base: base, Center: center, Radius: radius}
	if err := c.Validate(); err != nil {
		return Circle{}, err
	}
	return c, nil
}

func (Circle) Type() string { return "CIRCLE" }

func (Circle) sealed() {}

func (c Circle) Validate() error {
	if err := c.validate("CIRCLE"); err != nil {
		return err
	}
	if !c.Center.Finite() {
		return invalid("CIRCLE", "non-finite center")
	}
	if !finite(c.Radius) || c.Radius <= 0 {
		return invalid("CIRCLE", "radius %v must be positive", c.Radius)
	}
	return nil
}

func (c Circle) BBox() BBox {
	return BBox{
		Min: Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Z: c.Center.Z},
		Max: Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius, Z: c.Center.Z},
	}
}
