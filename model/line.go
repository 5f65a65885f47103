package model

import "math"

type Line struct {
	Base
	Start, End Point
}

func NewLine(base Base, start, end Point) (Line, error) {
	l := Line{Base: base, Start: start, End: end}
	if err := l.Validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}

func (Line) Type() string { return "LINE" }

func (Line) sealed() {}

func (l Line) Validate() error {
	if err := l.validate("LINE"); err != nil {
		return err
	}
	if !l.Start.Finite() || !l.End.Finite() {
		return invalid("LINE", "non-finite endpoint")
	}
	return nil
}

func (l Line) BBox() BBox {
	return BBox{
		Min: Point{X: math.Min(l.Start.X, l.End.X), Y: math.Min(l.Start.Y, l.End.Y), Z: math.Min(l.Start.Z, l.End.Z)},
		Max: Point{X: math.Max(l.Start.X, l.End.X), Y: math.Max(l.Start.Y, l.End.Y), Z: math.Max(l.Start.Z, l.End.Z)},
	}
}
