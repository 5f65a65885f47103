package entities

import (
	"fmt"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// DecodeFunc 定义了如何从一个实体记录得到模型实体
type DecodeFunc func(r Record) (model.Entity, error)

// EncodeFunc 定义了如何把模型实体写成按固定顺序排列的标签
type EncodeFunc func(e model.Entity) ([]core.Tag, error)

// decoders 支持读取的实体类型；新增类型需要同时扩展 model 和 encoders
var decoders = map[string]DecodeFunc{
	"LINE":       decodeLine,
	"CIRCLE":     decodeCircle,
	"ARC":        decodeArc,
	"LWPOLYLINE": decodeLWPolyline,
	"POLYLINE":   decodePolyline,
	"TEXT":       decodeText,
	"MTEXT":      decodeMText,
	"INSERT":     decodeInsert,
}

// encoders 按模型实体的 Type() 查找
var encoders = map[string]EncodeFunc{
	"LINE":       encodeLine,
	"CIRCLE":     encodeCircle,
	"ARC":        encodeArc,
	"LWPOLYLINE": encodeLWPolyline,
	"TEXT":       encodeText,
	"MTEXT":      encodeMText,
	"INSERT":     encodeInsert,
}

// Known 判断是否支持该实体类型
func Known(typeName string) bool {
	_, ok := decoders[strings.ToUpper(typeName)]
	return ok
}

// HasChildren 判断记录后面是否跟随子实体序列(以 SEQEND 结束)
func HasChildren(r Record) bool {
	switch strings.ToUpper(r.Type) {
	case "POLYLINE":
		return true
	case "INSERT":
		return r.Int(66, 0) == 1
	}
	return false
}

// Decode 根据实体名称解析对应的模型实体
func Decode(r Record) (model.Entity, error) {
	decode, ok := decoders[strings.ToUpper(r.Type)]
	if !ok {
		return nil, &FieldError{Entity: r.Type, Reason: "unsupported entity type"}
	}
	e, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err = e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// UnsupportedError 模型实体没有对应的编码器
type UnsupportedError struct {
	Type string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("no DXF schema for entity %q", e.Type)
}

// Encode 按实体的固定组码顺序生成标签
func Encode(e model.Entity) ([]core.Tag, error) {
	if e == nil {
		return nil, &UnsupportedError{Type: "<nil>"}
	}
	encode, ok := encoders[e.Type()]
	if !ok {
		return nil, &UnsupportedError{Type: e.Type()}
	}
	return encode(e)
}

func wrongType(want string, e model.Entity) error {
	return &UnsupportedError{Type: fmt.Sprintf("%s (encoder for %s)", e.Type(), want)}
}
