package model

import (
	"fmt"

	"github.com/zooyer/golib/xmath"
)

// ApproxEqual 判断两张图纸在几何上是否相同，浮点数允许 epsilon 的误差
func ApproxEqual(a, b *Drawing, epsilon float64) bool {
	return Diff(a, b, epsilon) == ""
}

// Diff 返回两张图纸的第一处差异，相同时返回空字符串
func Diff(a, b *Drawing, epsilon float64) string {
	if a.Units != b.Units {
		return fmt.Sprintf("units: %d != %d", a.Units, b.Units)
	}

	if len(a.layers) != len(b.layers) {
		return fmt.Sprintf("layer count: %d != %d", len(a.layers), len(b.layers))
	}
	for i := range a.layers {
		if a.layers[i] != b.layers[i] {
			return fmt.Sprintf("layer %d: %+v != %+v", i, a.layers[i], b.layers[i])
		}
	}

	if len(a.blocks) != len(b.blocks) {
		return fmt.Sprintf("block count: %d != %d", len(a.blocks), len(b.blocks))
	}
	for i := range a.blocks {
		ba, bb := a.blocks[i], b.blocks[i]
		if ba.Name != bb.Name || !pointEqual(ba.Base, bb.Base, epsilon) {
			return fmt.Sprintf("block %d: %q != %q", i, ba.Name, bb.Name)
		}
		if s := entitiesDiff(ba.Entities, bb.Entities, epsilon); s != "" {
			return fmt.Sprintf("block %q: %s", ba.Name, s)
		}
	}

	return entitiesDiff(a.entities, b.entities, epsilon)
}

func entitiesDiff(a, b []Entity, epsilon float64) string {
	if len(a) != len(b) {
		return fmt.Sprintf("entity count: %d != %d", len(a), len(b))
	}
	for i := range a {
		if !EntityEqual(a[i], b[i], epsilon) {
			return fmt.Sprintf("entity %d: %+v != %+v", i, a[i], b[i])
		}
	}
	return ""
}

// EntityEqual 比较两个实体，浮点数允许 epsilon 的误差，角度按圆周比较
func EntityEqual(a, b Entity, epsilon float64) bool {
	if a.Props() != b.Props() {
		return false
	}

	switch x := a.(type) {
	case Line:
		y, ok := b.(Line)
		return ok && pointEqual(x.Start, y.Start, epsilon) && pointEqual(x.End, y.End, epsilon)
	case Circle:
		y, ok := b.(Circle)
		return ok && pointEqual(x.Center, y.Center, epsilon) && xmath.Equal(x.Radius, y.Radius, epsilon)
	case Arc:
		y, ok := b.(Arc)
		return ok && pointEqual(x.Center, y.Center, epsilon) && xmath.Equal(x.Radius, y.Radius, epsilon) &&
			angleEqual(x.StartAngle, y.StartAngle, epsilon) && angleEqual(x.EndAngle, y.EndAngle, epsilon)
	case Polyline:
		y, ok := b.(Polyline)
		if !ok || x.Closed != y.Closed || len(x.Vertices) != len(y.Vertices) || !xmath.Equal(x.Elevation, y.Elevation, epsilon) {
			return false
		}
		for i := range x.Vertices {
			u, v := x.Vertices[i], y.Vertices[i]
			if !xmath.Equal(u.X, v.X, epsilon) || !xmath.Equal(u.Y, v.Y, epsilon) || !xmath.Equal(u.Bulge, v.Bulge, epsilon) {
				return false
			}
		}
		return true
	case Text:
		y, ok := b.(Text)
		return ok && x.Value == y.Value && x.Style == y.Style && x.Multiline == y.Multiline &&
			pointEqual(x.Position, y.Position, epsilon) && xmath.Equal(x.Height, y.Height, epsilon) &&
			angleEqual(x.Rotation, y.Rotation, epsilon)
	case Insert:
		y, ok := b.(Insert)
		if !ok || !SameName(x.Block, y.Block) || len(x.Attributes) != len(y.Attributes) ||
			!pointEqual(x.Position, y.Position, epsilon) || !pointEqual(x.Scale, y.Scale, epsilon) ||
			!angleEqual(x.Rotation, y.Rotation, epsilon) {
			return false
		}
		for i := range x.Attributes {
			u, v := x.Attributes[i], y.Attributes[i]
			if u.Tag != v.Tag || u.Value != v.Value || !pointEqual(u.Position, v.Position, epsilon) || !xmath.Equal(u.Height, v.Height, epsilon) {
				return false
			}
		}
		return true
	}
	return false
}

func pointEqual(a, b Point, epsilon float64) bool {
	return xmath.Equal(a.X, b.X, epsilon) && xmath.Equal(a.Y, b.Y, epsilon) && xmath.Equal(a.Z, b.Z, epsilon)
}

// 359.9999999999 和 0 视为相等
func angleEqual(a, b, epsilon float64) bool {
	d := NormalizeAngle(a - b)
	return xmath.Equal(d, 0, epsilon) || xmath.Equal(d, 360, epsilon)
}
