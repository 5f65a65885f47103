package entities

import (
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

func decodeInsert(r Record) (model.Entity, error) {
	name := strings.TrimSpace(r.Str(2, ""))
	if name == "" {
		return nil, missing("INSERT", 2)
	}
	pos, err := r.Point(10)
	if err != nil {
		return nil, err
	}

	ins := model.Insert{
		Base:     r.Base(),
		Block:    name,
		Position: pos,
		// 默认缩放为 1
		Scale: model.Point{
			X: r.Float(41, 1),
			Y: r.Float(42, 1),
			Z: r.Float(43, 1),
		},
		Rotation: model.NormalizeAngle(r.Float(50, 0)),
	}

	// 多行列阵列(70/71)不支持，只取第一个实例
	if r.Int(70, 1) > 1 || r.Int(71, 1) > 1 {
		return nil, &FieldError{Entity: "INSERT", Code: 70, Reason: "MINSERT arrays not supported"}
	}

	for _, child := range r.Children {
		if !strings.EqualFold(child.Type, "ATTRIB") {
			continue
		}
		attr, err := decodeAttrib(child)
		if err != nil {
			return nil, err
		}
		ins.Attributes = append(ins.Attributes, attr)
	}
	return ins, nil
}

// encodeInsert 带属性时在块参照后写出 ATTRIB 序列和 SEQEND
func encodeInsert(e model.Entity) ([]core.Tag, error) {
	ins, ok := e.(model.Insert)
	if !ok {
		return nil, wrongType("INSERT", e)
	}

	tags := encodeBase("INSERT", ins.Base)
	tags = append(tags, core.Str(100, "AcDbBlockReference"))
	if len(ins.Attributes) > 0 {
		tags = append(tags, core.Int(66, 1))
	}
	tags = append(tags, core.Str(2, ins.Block))
	tags = append(tags, point(10, ins.Position)...)
	if ins.Scale != (model.Point{X: 1, Y: 1, Z: 1}) {
		tags = append(tags, core.Float(41, ins.Scale.X), core.Float(42, ins.Scale.Y), core.Float(43, ins.Scale.Z))
	}
	if ins.Rotation != 0 {
		tags = append(tags, core.Float(50, ins.Rotation))
	}

	if len(ins.Attributes) == 0 {
		return tags, nil
	}
	for _, a := range ins.Attributes {
		tags = append(tags, encodeAttrib(ins.Base, a)...)
	}
	tags = append(tags,
		core.Str(0, "SEQEND"),
		core.Str(100, "AcDbEntity"),
		core.Str(8, ins.LayerName),
	)
	return tags, nil
}
