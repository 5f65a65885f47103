package core

// ValueType 是组码对应的值类型
type ValueType int

const (
	String ValueType = iota
	Double
	Int16
	Int32
	Int64
	Bool
	Handle
	Binary
	Comment
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "string"
	case Double:
		return "float"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case Handle:
		return "handle"
	case Binary:
		return "binary"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// IsNumeric 数值类型的值在文本格式中需要能被解析
func (t ValueType) IsNumeric() bool {
	switch t {
	case Double, Int16, Int32, Int64, Bool:
		return true
	}
	return false
}

type codeRange struct {
	lo, hi int
	typ    ValueType
}

// groupCodes 对应 DXF 参考手册中的组码值类型表，未列出的组码按字符串处理
var groupCodes = []codeRange{
	{0, 4, String},
	{5, 5, Handle},
	{6, 9, String},
	{10, 59, Double},
	{60, 79, Int16},
	{90, 99, Int32},
	{100, 102, String},
	{105, 105, Handle},
	{110, 149, Double},
	{160, 169, Int64},
	{170, 179, Int16},
	{210, 239, Double},
	{270, 289, Int16},
	{290, 299, Bool},
	{300, 309, String},
	{310, 319, Binary},
	{320, 369, Handle},
	{370, 389, Int16},
	{390, 399, Handle},
	{400, 409, Int16},
	{410, 419, String},
	{420, 429, Int32},
	{430, 439, String},
	{440, 459, Int32},
	{460, 469, Double},
	{470, 479, String},
	{480, 481, Handle},
	{999, 999, Comment},
	{1000, 1009, String},
	{1010, 1059, Double},
	{1060, 1070, Int16},
	{1071, 1071, Int32},
}

// TypeOf 根据组码范围返回值类型
func TypeOf(code int) ValueType {
	for _, r := range groupCodes {
		if code >= r.lo && code <= r.hi {
			return r.typ
		}
	}
	return String
}
