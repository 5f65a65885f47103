package core

import (
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对
//
// Value 保存值的文本形式；数值类型的 Value 已由扫描器校验过，
// AsFloat/AsInt 不会再失败。
type Tag struct {
	Code  int
	Value string
}

// Str 构造字符串标签
func Str(code int, s string) Tag {
	return Tag{Code: code, Value: s}
}

// Float 构造浮点数标签，使用最短的可精确还原的十进制表示
func Float(code int, f float64) Tag {
	return Tag{Code: code, Value: FormatFloat(f, 0)}
}

// Int 构造整数标签
func Int(code int, i int) Tag {
	return Tag{Code: code, Value: strconv.Itoa(i)}
}

// Type 返回该组码对应的值类型
func (t Tag) Type() ValueType {
	return TypeOf(t.Code)
}

// Is 判断是否为指定组码和值(值不区分大小写)
func (t Tag) Is(code int, value string) bool {
	return t.Code == code && strings.EqualFold(strings.TrimSpace(t.Value), value)
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, _ := strconv.ParseInt(strings.TrimSpace(t.Value), 10, 64)
	return int(i)
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// FormatFloat 格式化浮点数；digits <= 0 时输出最短的可精确还原表示，
// 否则保留 digits 位有效数字。结果总是带小数点且不使用指数形式。
func FormatFloat(f float64, digits int) string {
	var s string
	if digits <= 0 {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		r, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'g', digits, 64), 64)
		s = strconv.FormatFloat(r, 'f', -1, 64)
	}
	if s == "-0" {
		s = "0"
	}
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
