package entities

import (
	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

func decodeLWPolyline(r Record) (model.Entity, error) {
	var (
		p    = model.Polyline{Base: r.Base(), Closed: r.Flag(1), Elevation: r.Float(38, 0)}
		hasY []bool
	)

	// 组码 10 开始一个新顶点，20 和 42 属于最近的顶点
	for _, t := range r.Tags {
		n := len(p.Vertices)
		switch t.Code {
		case 10:
			p.Vertices = append(p.Vertices, model.Vertex{X: t.AsFloat()})
			hasY = append(hasY, false)
		case 20:
			if n == 0 || hasY[n-1] {
				return nil, &FieldError{Entity: "LWPOLYLINE", Code: 20, Reason: "Y without X"}
			}
			p.Vertices[n-1].Y = t.AsFloat()
			hasY[n-1] = true
		case 42:
			if n > 0 {
				p.Vertices[n-1].Bulge = t.AsFloat()
			}
		}
	}

	if len(p.Vertices) == 0 {
		return nil, missing("LWPOLYLINE", 10)
	}
	for _, ok := range hasY {
		if !ok {
			return nil, missing("LWPOLYLINE", 20)
		}
	}
	return p, nil
}

func encodeLWPolyline(e model.Entity) ([]core.Tag, error) {
	p, ok := e.(model.Polyline)
	if !ok {
		return nil, wrongType("LWPOLYLINE", e)
	}

	flags := 0
	if p.Closed {
		flags = 1
	}

	tags := encodeBase("LWPOLYLINE", p.Base)
	tags = append(tags,
		core.Str(100, "AcDbPolyline"),
		core.Int(90, len(p.Vertices)),
		core.Int(70, flags),
	)
	if p.Elevation != 0 {
		tags = append(tags, core.Float(38, p.Elevation))
	}
	for _, v := range p.Vertices {
		tags = append(tags, core.Float(10, v.X), core.Float(20, v.Y))
		if v.Bulge != 0 {
			tags = append(tags, core.Float(42, v.Bulge))
		}
	}
	return tags, nil
}
