package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encoder 将标签按文本格式写出：组码右对齐占 3 列，值单独一行
type Encoder struct {
	w *bufio.Writer

	// Digits 大于 0 时浮点数只保留 Digits 位有效数字
	Digits int

	err error
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// CheckValue 文本格式中一个值只占一行，值里不能有换行
func CheckValue(t Tag) error {
	if strings.ContainsAny(t.Value, "\r\n") {
		return &ValueError{Code: t.Code, Value: t.Value}
	}
	return nil
}

func (e *Encoder) Encode(tags ...Tag) error {
	for _, t := range tags {
		if e.err != nil {
			return e.err
		}
		if e.err = CheckValue(t); e.err != nil {
			return e.err
		}
		value := t.Value
		switch t.Type() {
		case Double:
			if e.Digits > 0 {
				if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
					value = FormatFloat(f, e.Digits)
				}
			}
		case String, Comment:
			// 输出保持纯 ASCII，与 $DWGCODEPAGE 无关
			value = EscapeUnicode(value)
		}
		_, e.err = fmt.Fprintf(e.w, "%3d\n%s\n", t.Code, value)
	}
	return e.err
}

func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}
