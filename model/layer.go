package model

import "strings"

// DefaultLayer 是 DXF 中始终存在的 "0" 图层
const DefaultLayer = "0"

// Layer 图层，名称不区分大小写
type Layer struct {
	Name     string
	Color    Color // 1..255
	LineType string
	Visible  bool
	Frozen   bool
	Locked   bool
}

// NewLayer 返回带默认属性的图层：白色(7)、CONTINUOUS 线型、可见
func NewLayer(name string) Layer {
	return Layer{
		Name:     name,
		Color:    7,
		LineType: "CONTINUOUS",
		Visible:  true,
	}
}

func (l Layer) Validate() error {
	if msg := checkName(l.Name); msg != "" {
		return &ValidationError{Kind: InvalidGeometry, Entity: "LAYER", Name: l.Name, Msg: "layer name " + msg}
	}
	if msg := checkName(l.LineType); l.LineType != "" && msg != "" {
		return &ValidationError{Kind: InvalidGeometry, Entity: "LAYER", Name: l.Name, Msg: "line type name " + msg}
	}
	if l.Color < 1 || l.Color > 255 {
		return &ValidationError{Kind: InvalidGeometry, Entity: "LAYER", Name: l.Name, Msg: "layer color must be 1..255"}
	}
	return nil
}

// checkName 返回名称的问题，合法时返回空串
//
// DXF 中名称占一整行，读取时去掉首尾空白，所以名称不能带换行和首尾空白。
func checkName(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "is empty"
	case strings.ContainsAny(name, "\r\n"):
		return "contains a line break"
	case strings.TrimSpace(name) != name:
		return "has leading or trailing spaces"
	}
	return ""
}

func key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SameName 按 DXF 规则(不区分大小写)比较两个名称
func SameName(a, b string) bool {
	return key(a) == key(b)
}
