package model

import (
	"math"
	"strings"
)

// Attribute 块参照上的属性(ATTRIB)
type Attribute struct {
	Tag      string // 属性标签，如 "序号"
	Value    string // 属性值
	Position Point
	Height   float64
}

// Insert 块参照，只按名称引用 Drawing 中的 Block
type Insert struct {
	Base
	Block      string
	Position   Point
	Scale      Point
	Rotation   float64 // 度，范围 [0, 360)
	Attributes []Attribute
}

// NewInsert 创建块参照，缩放默认为 1
func NewInsert(base Base, block string, position Point) (Insert, error) {
	ins := Insert{
		Base:     base,
		Block:    block,
		Position: position,
		Scale:    Point{X: 1, Y: 1, Z: 1},
	}
	if err := ins.Validate(); err != nil {
		return Insert{}, err
	}
	return ins, nil
}

func (Insert) Type() string { return "INSERT" }

func (Insert) sealed() {}

func (i Insert) Validate() error {
	if err := i.validate("INSERT"); err != nil {
		return err
	}
	if msg := checkName(i.Block); msg != "" {
		return invalid("INSERT", "block name %q %s", i.Block, msg)
	}
	if !i.Position.Finite() || !i.Scale.Finite() {
		return invalid("INSERT", "non-finite position or scale")
	}
	if i.Scale.X == 0 || i.Scale.Y == 0 || i.Scale.Z == 0 {
		return invalid("INSERT", "zero scale factor")
	}
	if !finite(i.Rotation) || i.Rotation < 0 || i.Rotation >= 360 {
		return invalid("INSERT", "rotation %v not normalized", i.Rotation)
	}
	for _, a := range i.Attributes {
		if msg := checkName(a.Tag); msg != "" {
			return invalid("INSERT", "attribute tag %q %s", a.Tag, msg)
		}
		if !a.Position.Finite() || !finite(a.Height) || a.Height <= 0 {
			return invalid("INSERT", "attribute %q has invalid geometry", a.Tag)
		}
		if strings.ContainsAny(a.Value, "\r\n") {
			return invalid("INSERT", "line break in attribute %q", a.Tag)
		}
	}
	return nil
}

// Attr 按标签读取属性值
func (i Insert) Attr(tag string) string {
	for _, a := range i.Attributes {
		if a.Tag == tag {
			return a.Value
		}
	}
	return ""
}

// BBox 块参照的包围盒需要结合 Block 定义计算，见 Drawing.EntityBBox，这里只返回插入点
func (i Insert) BBox() BBox {
	return BBox{Min: i.Position, Max: i.Position}
}

// Transform 将块内局部坐标点经过 Insert 变换转换到父级/世界坐标
// base 为块的基点
func (i Insert) Transform(p, base Point) Point {
	rad := i.Rotation * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	// 1. 缩放
	tx := (p.X - base.X) * i.Scale.X
	ty := (p.Y - base.Y) * i.Scale.Y
	tz := (p.Z - base.Z) * i.Scale.Z

	// 2. 旋转
	rx := tx*cos - ty*sin
	ry := tx*sin + ty*cos

	// 3. 平移
	return Point{
		X: rx + i.Position.X,
		Y: ry + i.Position.Y,
		Z: tz + i.Position.Z,
	}
}

// TransformBBox 将局部包围盒的 8 个顶点变换到世界坐标后重新求包围盒
func (i Insert) TransformBBox(local BBox, base Point) BBox {
	if local.IsEmpty() {
		return local
	}
	box := EmptyBBox()
	for _, p := range local.Corners() {
		box = box.Extend(i.Transform(p, base))
	}
	return box
}
