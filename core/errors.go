package core

import "fmt"

type TokenizeErrorKind int

const (
	UnpairedGroupCode TokenizeErrorKind = iota + 1 // 组码行之后没有值行
	MalformedNumber                                // 组码或数值无法解析
	UnexpectedEof                                  // 二进制流在标签中途结束
)

func (k TokenizeErrorKind) String() string {
	switch k {
	case UnpairedGroupCode:
		return "unpaired group code"
	case MalformedNumber:
		return "malformed number"
	case UnexpectedEof:
		return "unexpected end of file"
	}
	return fmt.Sprintf("TokenizeErrorKind(%d)", int(k))
}

// TokenizeError 记录词法错误的位置，扫描器不做任何恢复
type TokenizeError struct {
	Kind   TokenizeErrorKind
	Line   int   // 文本格式的行号(从 1 开始)
	Offset int64 // 二进制格式的字节偏移
	Code   int
	Value  string
	Err    error
}

func (e *TokenizeError) Error() string {
	pos := fmt.Sprintf("line %d", e.Line)
	if e.Line == 0 {
		pos = fmt.Sprintf("offset %d", e.Offset)
	}
	s := fmt.Sprintf("dxf: %s at %s", e.Kind, pos)
	s += fmt.Sprintf(" (code %d, value %q)", e.Code, e.Value)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *TokenizeError) Unwrap() error {
	return e.Err
}

// ValueError 字符串值中含有换行，写出后会打乱后续的组码和值
type ValueError struct {
	Code  int
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("dxf: line break in value of group %d: %q", e.Code, e.Value)
}
