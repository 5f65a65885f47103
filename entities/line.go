package entities

import (
	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

func decodeLine(r Record) (model.Entity, error) {
	start, err := r.Point(10)
	if err != nil {
		return nil, err
	}
	end, err := r.Point(11)
	if err != nil {
		return nil, err
	}
	return model.Line{Base: r.Base(), Start: start, End: end}, nil
}

func encodeLine(e model.Entity) ([]core.Tag, error) {
	l, ok := e.(model.Line)
	if !ok {
		return nil, wrongType("LINE", e)
	}
	tags := encodeBase("LINE", l.Base)
	tags = append(tags, core.Str(100, "AcDbLine"))
	tags = append(tags, point(10, l.Start)...)
	tags = append(tags, point(11, l.End)...)
	return tags, nil
}
