package dxf

import (
	"fmt"
	"strings"
)

// Warning 导入过程中可以恢复的问题，按出现顺序记录
type Warning struct {
	Section string // 所在段，块内实体为 "BLOCKS"
	Block   string // 所在块的名称，模型空间为空
	Index   int    // 实体在段(或块)中的序号，从 0 开始；与实体无关时为 -1
	Entity  string // 实体类型
	Layer   string // 相关的图层名称
	Message string
}

func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(w.Section)
	if w.Block != "" {
		fmt.Fprintf(&sb, " block %q", w.Block)
	}
	if w.Index >= 0 {
		fmt.Fprintf(&sb, " #%d", w.Index)
	}
	if w.Entity != "" {
		sb.WriteString(" " + w.Entity)
	}
	if w.Layer != "" {
		fmt.Fprintf(&sb, " layer %q", w.Layer)
	}
	sb.WriteString(": " + w.Message)
	return sb.String()
}

// ImportError 导致整个导入失败的结构性错误，Warnings 为失败前已收集的警告
type ImportError struct {
	Reason   string
	Err      error
	Warnings []Warning
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dxf: import failed: %s: %v", e.Reason, e.Err)
	}
	return "dxf: import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type ExportErrorKind int

const (
	UnsupportedEntity ExportErrorKind = iota + 1
	IoFailure
	InvalidValue // 值中含有换行
)

func (k ExportErrorKind) String() string {
	switch k {
	case UnsupportedEntity:
		return "unsupported entity"
	case IoFailure:
		return "i/o failure"
	case InvalidValue:
		return "invalid value"
	}
	return fmt.Sprintf("ExportErrorKind(%d)", int(k))
}

// ExportError 导出失败
type ExportError struct {
	Kind   ExportErrorKind
	Entity string
	Err    error
}

func (e *ExportError) Error() string {
	s := "dxf: export failed: " + e.Kind.String()
	if e.Entity != "" {
		s += " " + e.Entity
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
