package model

// Vertex 为多段线顶点，Bulge 为到下一顶点的凸度(0 表示直线段)
type Vertex struct {
	X, Y  float64
	Bulge float64
}

type Polyline struct {
	Base
	Vertices  []Vertex
	Elevation float64
	Closed    bool
}

func NewPolyline(base Base, vertices []Vertex, elevation float64, closed bool) (Polyline, error) {
	p := Polyline{
		Base:      base,
		Vertices:  append([]Vertex(nil), vertices...),
		Elevation: elevation,
		Closed:    closed,
	}
	if err := p.Validate(); err != nil {
		return Polyline{}, err
	}
	return p, nil
}

func (Polyline) Type() string { return "LWPOLYLINE" }

func (Polyline) sealed() {}

func (p Polyline) Validate() error {
	if err := p.validate("LWPOLYLINE"); err != nil {
		return err
	}
	if len(p.Vertices) == 0 {
		return invalid("LWPOLYLINE", "no vertices")
	}
	if !finite(p.Elevation) {
		return invalid("LWPOLYLINE", "non-finite elevation")
	}
	for i, v := range p.Vertices {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Bulge) {
			return invalid("LWPOLYLINE", "non-finite vertex %d", i)
		}
	}
	return nil
}

// Points 返回顶点的三维坐标(使用标高作为 Z)
func (p Polyline) Points() []Point {
	points := make([]Point, len(p.Vertices))
	for i, v := range p.Vertices {
		points[i] = Point{X: v.X, Y: v.Y, Z: p.Elevation}
	}
	return points
}

// BBox 简化处理：只统计顶点，不展开凸度圆弧
func (p Polyline) BBox() BBox {
	box := EmptyBBox()
	for _, pt := range p.Points() {
		box = box.Extend(pt)
	}
	return box
}
