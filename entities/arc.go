package entities

import (
	"math"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// decodeArc 起止角度相同的退化圆弧按整圆处理
func decodeArc(r Record) (model.Entity, error) {
	center, err := r.Point(10)
	if err != nil {
		return nil, err
	}
	radius, err := r.RequireFloat(40)
	if err != nil {
		return nil, err
	}
	start, err := r.RequireFloat(50)
	if err != nil {
		return nil, err
	}
	end, err := r.RequireFloat(51)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return nil, &FieldError{Entity: "ARC", Code: 50, Reason: "non-finite angle"}
	}

	start, end = model.NormalizeAngle(start), model.NormalizeAngle(end)
	if start == end {
		return model.Circle{Base: r.Base(), Center: center, Radius: radius}, nil
	}
	return model.Arc{Base: r.Base(), Center: center, Radius: radius, StartAngle: start, EndAngle: end}, nil
}

func encodeArc(e model.Entity) ([]core.Tag, error) {
	a, ok := e.(model.Arc)
	if !ok {
		return nil, wrongType("ARC", e)
	}
	tags := encodeBase("ARC", a.Base)
	tags = append(tags, core.Str(100, "AcDbCircle"))
	tags = append(tags, point(10, a.Center)...)
	tags = append(tags,
		core.Float(40, a.Radius),
		core.Str(100, "AcDbArc"),
		core.Float(50, a.StartAngle),
		core.Float(51, a.EndAngle),
	)
	return tags, nil
}
