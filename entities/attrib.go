package entities

import (
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// decodeAttrib 缺少文字高度时使用 1.0
func decodeAttrib(r Record) (model.Attribute, error) {
	tag := strings.TrimSpace(r.Str(2, ""))
	if tag == "" {
		return model.Attribute{}, missing("ATTRIB", 2)
	}
	pos, err := r.Point(10)
	if err != nil {
		return model.Attribute{}, err
	}
	height := r.Float(40, 1)
	if height <= 0 {
		height = 1
	}
	return model.Attribute{
		Tag:      tag,
		Value:    r.Str(1, ""),
		Position: pos,
		Height:   height,
	}, nil
}

func encodeAttrib(base model.Base, a model.Attribute) []core.Tag {
	tags := encodeBase("ATTRIB", base)
	tags = append(tags, core.Str(100, "AcDbText"))
	tags = append(tags, point(10, a.Position)...)
	tags = append(tags,
		core.Float(40, a.Height),
		core.Str(1, a.Value),
		core.Str(100, "AcDbAttribute"),
		core.Str(2, a.Tag),
		core.Int(70, 0),
	)
	return tags
}
