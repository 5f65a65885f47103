package model

import "math"

// Entity 是一切几何实体的接口
//
// 实体集合是封闭的：只有本包中的 Line、Circle、Arc、Polyline、Text、Insert
// 实现了它。新增实体类型需要同时扩展本包和 entities 包的编解码表。
type Entity interface {
	Type() string
	Layer() string
	Props() Base
	BBox() BBox
	Validate() error

	sealed()
}

// Color 为 AutoCAD 颜色索引(ACI)，零值表示随层(ByLayer)
type Color int16

const (
	ByLayer Color = 0
	ByBlock Color = -1

	invalidColor Color = math.MinInt16
)

// ColorOf 将整数转换为 Color，超出 -1..255 的值得到无法通过校验的颜色
func ColorOf(v int) Color {
	if v < int(ByBlock) || v > 255 {
		return invalidColor
	}
	return Color(v)
}

// ColorFromACI 将 DXF 组码 62 的值转换为 Color，超出 0..256 的值无法通过校验
func ColorFromACI(v int) Color {
	switch {
	case v == 256:
		return ByLayer
	case v == 0:
		return ByBlock
	case v < 0 || v > 256:
		return invalidColor
	}
	return Color(v)
}

// ACI 返回 DXF 组码 62 使用的值
func (c Color) ACI() int {
	switch c {
	case ByLayer:
		return 256
	case ByBlock:
		return 0
	}
	return int(c)
}

func (c Color) valid() bool {
	return c == ByLayer || c == ByBlock || (c >= 1 && c <= 255)
}

// Base 存放所有实体通用的属性
type Base struct {
	LayerName string
	Color     Color  // 颜色覆盖，ByLayer 表示不覆盖
	LineType  string // 线型覆盖，空表示随层
}

func (b Base) Layer() string { return b.LayerName }

func (b Base) Props() Base { return b }

func (b Base) validate(typ string) error {
	if msg := checkName(b.LayerName); msg != "" {
		return invalid(typ, "layer name %q %s", b.LayerName, msg)
	}
	if msg := checkName(b.LineType); b.LineType != "" && msg != "" {
		return invalid(typ, "line type name %q %s", b.LineType, msg)
	}
	if !b.Color.valid() {
		return invalid(typ, "color %d out of range", b.Color)
	}
	return nil
}

// OnLayer 返回一个移动到指定图层的实体副本
func OnLayer(e Entity, layer string) Entity {
	switch v := e.(type) {
	case Line:
		v.LayerName = layer
		return v
	case Circle:
		v.LayerName = layer
		return v
	case Arc:
		v.LayerName = layer
		return v
	case Polyline:
		v.LayerName = layer
		return v
	case Text:
		v.LayerName = layer
		return v
	case Insert:
		v.LayerName = layer
		return v
	}
	return e
}
