package model

import "strings"

// Text 单行文字(TEXT)或多行文字(MTEXT)
type Text struct {
	Base
	Position  Point
	Height    float64
	Rotation  float64 // 度，范围 [0, 360)
	Value     string  // 多行文字以 '\n' 分段
	Style     string  // 文字样式，空表示 STANDARD
	Multiline bool
}

func NewText(base Base, position Point, height, rotation float64, value string) (Text, error) {
	t := Text{Base: base, Position: position, Height: height, Rotation: rotation, Value: value}
	if finite(rotation) {
		t.Rotation = NormalizeAngle(rotation)
	}
	if err := t.Validate(); err != nil {
		return Text{}, err
	}
	return t, nil
}

func (t Text) Type() string {
	if t.Multiline {
		return "MTEXT"
	}
	return "TEXT"
}

func (Text) sealed() {}

func (t Text) Validate() error {
	typ := t.Type()
	if err := t.validate(typ); err != nil {
		return err
	}
	if !t.Position.Finite() {
		return invalid(typ, "non-finite position")
	}
	if !finite(t.Height) || t.Height <= 0 {
		return invalid(typ, "height %v must be positive", t.Height)
	}
	if !finite(t.Rotation) || t.Rotation < 0 || t.Rotation >= 360 {
		return invalid(typ, "rotation %v not normalized", t.Rotation)
	}
	if msg := checkName(t.Style); t.Style != "" && msg != "" {
		return invalid(typ, "style name %q %s", t.Style, msg)
	}
	if strings.ContainsRune(t.Value, '\r') || (!t.Multiline && strings.ContainsRune(t.Value, '\n')) {
		return invalid(typ, "line break in single-line text")
	}
	return nil
}

// BBox 简化处理：文字暂时以插入点作为包围盒
func (t Text) BBox() BBox {
	return BBox{Min: t.Position, Max: t.Position}
}
