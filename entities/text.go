package entities

import (
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

func decodeText(r Record) (model.Entity, error) {
	pos, err := r.Point(10)
	if err != nil {
		return nil, err
	}
	height, err := r.RequireFloat(40)
	if err != nil {
		return nil, err
	}
	return model.Text{
		Base:     r.Base(),
		Position: pos,
		Height:   height,
		Rotation: model.NormalizeAngle(r.Float(50, 0)),
		Value:    r.Str(1, ""),
		Style:    styleName(r),
	}, nil
}

// styleName 样式名称按原样保留，包括显式写出的 STANDARD
func styleName(r Record) string {
	return strings.TrimSpace(r.Str(7, ""))
}

func encodeText(e model.Entity) ([]core.Tag, error) {
	t, ok := e.(model.Text)
	if !ok || t.Multiline {
		return nil, wrongType("TEXT", e)
	}
	tags := encodeBase("TEXT", t.Base)
	tags = append(tags, core.Str(100, "AcDbText"))
	tags = append(tags, point(10, t.Position)...)
	tags = append(tags, core.Float(40, t.Height), core.Str(1, t.Value))
	if t.Rotation != 0 {
		tags = append(tags, core.Float(50, t.Rotation))
	}
	if t.Style != "" {
		tags = append(tags, core.Str(7, t.Style))
	}
	tags = append(tags, core.Str(100, "AcDbText"))
	return tags, nil
}
