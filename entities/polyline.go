package entities

import (
	"strings"

	"github.com/zooyer/dxfstudio/model"
)

// POLYLINE 组码 70 标志位
const (
	polyClosed      = 1
	poly3D          = 8
	polyMesh        = 16
	polyFaceMesh    = 64
	vertexCtrlFrame = 16 // VERTEX 的样条控制点
)

// decodePolyline 读取旧格式的 POLYLINE + VERTEX 序列，只支持二维多段线和
// 标高一致的三维多段线；网格不支持
func decodePolyline(r Record) (model.Entity, error) {
	flags := r.Int(70, 0)
	if flags&(polyMesh|polyFaceMesh) != 0 {
		return nil, &FieldError{Entity: "POLYLINE", Code: 70, Reason: "polygon mesh not supported"}
	}

	p := model.Polyline{
		Base:      r.Base(),
		Closed:    flags&polyClosed != 0,
		Elevation: r.Float(30, 0),
	}

	first := true
	for _, child := range r.Children {
		if !strings.EqualFold(child.Type, "VERTEX") {
			continue
		}
		if child.Int(70, 0)&vertexCtrlFrame != 0 {
			continue
		}
		pt, err := child.Point(10)
		if err != nil {
			return nil, err
		}
		if flags&poly3D != 0 {
			if first {
				p.Elevation = pt.Z
			} else if pt.Z != p.Elevation {
				return nil, &FieldError{Entity: "POLYLINE", Code: 30, Reason: "3D polyline with varying elevation not supported"}
			}
		}
		first = false
		p.Vertices = append(p.Vertices, model.Vertex{X: pt.X, Y: pt.Y, Bulge: child.Float(42, 0)})
	}

	if len(p.Vertices) == 0 {
		return nil, &FieldError{Entity: "POLYLINE", Reason: "no vertices"}
	}
	return p, nil
}
