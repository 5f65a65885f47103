package model

import "fmt"

// ErrorKind 区分模型校验失败的类别
type ErrorKind int

const (
	InvalidGeometry ErrorKind = iota + 1
	DuplicateLayer
	DuplicateBlock
	DanglingReference
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidGeometry:
		return "invalid geometry"
	case DuplicateLayer:
		return "duplicate layer"
	case DuplicateBlock:
		return "duplicate block"
	case DanglingReference:
		return "dangling reference"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ValidationError 表示构造 Drawing 时违反了模型约束
type ValidationError struct {
	Kind   ErrorKind
	Entity string // 实体类型，如 "LINE"，可为空
	Name   string // 相关的图层/块名称，可为空
	Msg    string
}

func (e *ValidationError) Error() string {
	s := "model: " + e.Kind.String()
	if e.Entity != "" {
		s += " in " + e.Entity
	}
	if e.Name != "" {
		s += fmt.Sprintf(" %q", e.Name)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func invalid(entity, format string, args ...any) error {
	return &ValidationError{Kind: InvalidGeometry, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}
