package model

import "math"

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// Finite 判断坐标是否全部为有限值
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// EmptyBBox 返回一个"反向"的空包围盒，任何点扩充后都会变成有效盒子
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend 用一个点扩充包围盒
func (b BBox) Extend(p Point) BBox {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
	return b
}

// Union 合并两个包围盒
func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Corners 返回包围盒的 8 个顶点
func (b BBox) Corners() []Point {
	return []Point{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NormalizeAngle 将角度(度)标准化到 [0, 360)
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -1e-20 这类极小负数加 360 后会变成 360
	if a >= 360 {
		a = 0
	}
	return a
}
