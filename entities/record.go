package entities

import (
	"fmt"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// Record 一个实体记录：组码 0 的类型名，直到下一个组码 0 之前的所有标签，
// 以及 POLYLINE/INSERT 后面跟随的子实体(VERTEX/ATTRIB，直到 SEQEND)
type Record struct {
	Type     string
	Tags     []core.Tag
	Children []Record
}

// FieldError 实体缺少必需的组码或者组码的值不合法
type FieldError struct {
	Entity string
	Code   int
	Reason string
}

func (e *FieldError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s: group %d: %s", e.Entity, e.Code, e.Reason)
}

func missing(entity string, code int) error {
	return &FieldError{Entity: entity, Code: code, Reason: "missing"}
}

// Lookup 返回第一个匹配组码的标签
func (r Record) Lookup(code int) (core.Tag, bool) {
	for _, t := range r.Tags {
		if t.Code == code {
			return t, true
		}
	}
	return core.Tag{}, false
}

func (r Record) Str(code int, def string) string {
	if t, ok := r.Lookup(code); ok {
		return t.Value
	}
	return def
}

func (r Record) Float(code int, def float64) float64 {
	if t, ok := r.Lookup(code); ok {
		return t.AsFloat()
	}
	return def
}

func (r Record) Int(code int, def int) int {
	if t, ok := r.Lookup(code); ok {
		return t.AsInt()
	}
	return def
}

// RequireFloat 读取必需的浮点数组码
func (r Record) RequireFloat(code int) (float64, error) {
	t, ok := r.Lookup(code)
	if !ok {
		return 0, missing(r.Type, code)
	}
	return t.AsFloat(), nil
}

// Point 读取以 code 为 X 的坐标点，Y = code+10，Z = code+20；X 和 Y 必需，Z 可选
func (r Record) Point(code int) (model.Point, error) {
	x, err := r.RequireFloat(code)
	if err != nil {
		return model.Point{}, err
	}
	y, err := r.RequireFloat(code + 10)
	if err != nil {
		return model.Point{}, err
	}
	return model.Point{X: x, Y: y, Z: r.Float(code+20, 0)}, nil
}

// OptionalPoint 读取可选的坐标点，缺失时返回 def
func (r Record) OptionalPoint(code int, def model.Point) model.Point {
	if _, ok := r.Lookup(code); !ok {
		return def
	}
	return model.Point{
		X: r.Float(code, def.X),
		Y: r.Float(code+10, def.Y),
		Z: r.Float(code+20, def.Z),
	}
}

// Base 读取公共属性：图层(8)、颜色(62)、线型(6)
func (r Record) Base() model.Base {
	b := model.Base{
		LayerName: strings.TrimSpace(r.Str(8, model.DefaultLayer)),
		Color:     model.ColorFromACI(r.Int(62, 256)),
	}
	if b.LayerName == "" {
		b.LayerName = model.DefaultLayer
	}
	if lt := strings.TrimSpace(r.Str(6, "")); !strings.EqualFold(lt, "BYLAYER") {
		b.LineType = lt
	}
	return b
}

// Flag 判断组码 70 的某个标志位
func (r Record) Flag(bit int) bool {
	return r.Int(70, 0)&bit != 0
}

func point(code int, p model.Point) []core.Tag {
	return []core.Tag{core.Float(code, p.X), core.Float(code+10, p.Y), core.Float(code+20, p.Z)}
}

// encodeBase 写出 AcDbEntity 子类的公共属性，顺序固定
func encodeBase(typ string, b model.Base) []core.Tag {
	tags := []core.Tag{
		core.Str(0, typ),
		core.Str(100, "AcDbEntity"),
		core.Str(8, b.LayerName),
	}
	if b.LineType != "" {
		tags = append(tags, core.Str(6, b.LineType))
	}
	if b.Color != model.ByLayer {
		tags = append(tags, core.Int(62, b.Color.ACI()))
	}
	return tags
}
