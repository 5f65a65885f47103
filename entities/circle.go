package entities

import (
	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

func decodeCircle(r Record) (model.Entity, error) {
	center, err := r.Point(10)
	if err != nil {
		return nil, err
	}
	radius, err := r.RequireFloat(40)
	if err != nil {
		return nil, err
	}
	return model.Circle{Base: r.Base(), Center: center, Radius: radius}, nil
}

func encodeCircle(e model.Entity) ([]core.Tag, error) {
	c, ok := e.(model.Circle)
	if !ok {
		return nil, wrongType("CIRCLE", e)
	}
	tags := encodeBase("CIRCLE", c.Base)
	tags = append(tags, core.Str(100, "AcDbCircle"))
	tags = append(tags, point(10, c.Center)...)
	tags = append(tags, core.Float(40, c.Radius))
	return tags, nil
}
