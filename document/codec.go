package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zooyer/dxfstudio/model"
)

type envelope struct {
	Format  string      `json:"format"`
	Version int         `json:"version"`
	Meta    metaJSON    `json:"meta"`
	Drawing drawingJSON `json:"drawing"`
}

type metaJSON struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

type drawingJSON struct {
	Units    int          `json:"units"`
	Layers   []layerJSON  `json:"layers"`
	Blocks   []blockJSON  `json:"blocks"`
	Entities []entityJSON `json:"entities"`
}

type layerJSON struct {
	Name     string `json:"name"`
	Color    int    `json:"color"`
	LineType string `json:"linetype,omitempty"`
	Visible  bool   `json:"visible"`
	Frozen   bool   `json:"frozen,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
}

type blockJSON struct {
	Name     string       `json:"name"`
	Base     vec          `json:"base"`
	Entities []entityJSON `json:"entities"`
}

// entityJSON 以 type 区分实体，几何数据放在 data 中
type entityJSON struct {
	Type     string          `json:"type"`
	Layer    string          `json:"layer"`
	Color    int             `json:"color,omitempty"`
	LineType string          `json:"linetype,omitempty"`
	Data     json.RawMessage `json:"data"`
}

type vec [3]float64

func toVec(p model.Point) vec {
	return vec{p.X, p.Y, p.Z}
}

func (v vec) point() model.Point {
	return model.Point{X: v[0], Y: v[1], Z: v[2]}
}

type lineData struct {
	Start vec `json:"start"`
	End   vec `json:"end"`
}

type circleData struct {
	Center vec     `json:"center"`
	Radius float64 `json:"radius"`
}

type arcData struct {
	Center vec     `json:"center"`
	Radius float64 `json:"radius"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

type polylineData struct {
	Vertices  [][3]float64 `json:"vertices"` // x, y, bulge
	Elevation float64      `json:"elevation,omitempty"`
	Closed    bool         `json:"closed,omitempty"`
}

type textData struct {
	Position vec     `json:"position"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
	Value    string  `json:"value"`
	Style    string  `json:"style,omitempty"`
}

type attributeJSON struct {
	Tag      string  `json:"tag"`
	Value    string  `json:"value"`
	Position vec     `json:"position"`
	Height   float64 `json:"height"`
}

type insertData struct {
	Block      string          `json:"block"`
	Position   vec             `json:"position"`
	Scale      vec             `json:"scale"`
	Rotation   float64         `json:"rotation,omitempty"`
	Attributes []attributeJSON `json:"attributes,omitempty"`
}

func toEnvelope(doc *Document) (envelope, error) {
	d := doc.Drawing
	env := envelope{
		Format:  Format,
		Version: Version,
		Meta: metaJSON{
			ID:       doc.Meta.ID,
			Title:    doc.Meta.Title,
			Created:  doc.Meta.Created,
			Modified: doc.Meta.Modified,
		},
		Drawing: drawingJSON{
			Units:    int(d.Units),
			Layers:   []layerJSON{},
			Blocks:   []blockJSON{},
			Entities: []entityJSON{},
		},
	}

	for _, l := range d.Layers() {
		env.Drawing.Layers = append(env.Drawing.Layers, layerJSON{
			Name:     l.Name,
			Color:    int(l.Color),
			LineType: l.LineType,
			Visible:  l.Visible,
			Frozen:   l.Frozen,
			Locked:   l.Locked,
		})
	}

	for _, b := range d.Blocks() {
		list, err := encodeEntities(b.Entities)
		if err != nil {
			return envelope{}, fmt.Errorf("block %q: %w", b.Name, err)
		}
		env.Drawing.Blocks = append(env.Drawing.Blocks, blockJSON{Name: b.Name, Base: toVec(b.Base), Entities: list})
	}

	list, err := encodeEntities(d.Entities())
	if err != nil {
		return envelope{}, err
	}
	env.Drawing.Entities = list
	return env, nil
}

func encodeEntities(list []model.Entity) ([]entityJSON, error) {
	out := make([]entityJSON, 0, len(list))
	for _, e := range list {
		j, err := encodeEntity(e)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func encodeEntity(e model.Entity) (entityJSON, error) {
	base := e.Props()
	j := entityJSON{
		Type:     e.Type(),
		Layer:    base.LayerName,
		Color:    int(base.Color),
		LineType: base.LineType,
	}

	var data any
	switch v := e.(type) {
	case model.Line:
		data = lineData{Start: toVec(v.Start), End: toVec(v.End)}
	case model.Circle:
		data = circleData{Center: toVec(v.Center), Radius: v.Radius}
	case model.Arc:
		data = arcData{Center: toVec(v.Center), Radius: v.Radius, Start: v.StartAngle, End: v.EndAngle}
	case model.Polyline:
		p := polylineData{Elevation: v.Elevation, Closed: v.Closed}
		for _, vx := range v.Vertices {
			p.Vertices = append(p.Vertices, [3]float64{vx.X, vx.Y, vx.Bulge})
		}
		data = p
	case model.Text:
		data = textData{Position: toVec(v.Position), Height: v.Height, Rotation: v.Rotation, Value: v.Value, Style: v.Style}
	case model.Insert:
		ins := insertData{Block: v.Block, Position: toVec(v.Position), Scale: toVec(v.Scale), Rotation: v.Rotation}
		for _, a := range v.Attributes {
			ins.Attributes = append(ins.Attributes, attributeJSON{Tag: a.Tag, Value: a.Value, Position: toVec(a.Position), Height: a.Height})
		}
		data = ins
	default:
		return entityJSON{}, fmt.Errorf("unsupported entity %s", e.Type())
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return entityJSON{}, err
	}
	j.Data = raw
	return j, nil
}

func fromEnvelope(env envelope) (*Document, error) {
	d := model.NewDrawing()
	d.Units = model.Units(env.Drawing.Units)

	for _, l := range env.Drawing.Layers {
		layer := model.Layer{
			Name:     l.Name,
			Color:    model.ColorOf(l.Color),
			LineType: l.LineType,
			Visible:  l.Visible,
			Frozen:   l.Frozen,
			Locked:   l.Locked,
		}
		var err error
		if model.SameName(l.Name, model.DefaultLayer) {
			err = d.SetLayer(layer)
		} else {
			err = d.AddLayer(layer)
		}
		if err != nil {
			return nil, err
		}
	}

	// 保存时块已经按依赖顺序排列，这里按原顺序加入即可
	for _, b := range env.Drawing.Blocks {
		list, err := decodeEntities(b.Entities)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Name, err)
		}
		block, err := model.NewBlock(b.Name, b.Base.point(), list)
		if err != nil {
			return nil, err
		}
		if err = d.AddBlock(block); err != nil {
			return nil, err
		}
	}

	list, err := decodeEntities(env.Drawing.Entities)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if err = d.AddEntity(e); err != nil {
			return nil, err
		}
	}

	return &Document{
		Meta: Metadata{
			ID:       env.Meta.ID,
			Title:    env.Meta.Title,
			Created:  env.Meta.Created,
			Modified: env.Meta.Modified,
		},
		Drawing: d,
	}, nil
}

func decodeEntities(list []entityJSON) ([]model.Entity, error) {
	out := make([]model.Entity, 0, len(list))
	for i, j := range list {
		e, err := decodeEntity(j)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, j.Type, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeEntity(j entityJSON) (model.Entity, error) {
	base := model.Base{LayerName: j.Layer, Color: model.ColorOf(j.Color), LineType: j.LineType}

	switch j.Type {
	case "LINE":
		var v lineData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		return model.NewLine(base, v.Start.point(), v.End.point())
	case "CIRCLE":
		var v circleData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		return model.NewCircle(base, v.Center.point(), v.Radius)
	case "ARC":
		var v arcData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		return model.NewArc(base, v.Center.point(), v.Radius, v.Start, v.End)
	case "LWPOLYLINE":
		var v polylineData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		vertices := make([]model.Vertex, len(v.Vertices))
		for i, vx := range v.Vertices {
			vertices[i] = model.Vertex{X: vx[0], Y: vx[1], Bulge: vx[2]}
		}
		return model.NewPolyline(base, vertices, v.Elevation, v.Closed)
	case "TEXT", "MTEXT":
		var v textData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		t := model.Text{
			Base:      base,
			Position:  v.Position.point(),
			Height:    v.Height,
			Rotation:  v.Rotation,
			Value:     v.Value,
			Style:     v.Style,
			Multiline: j.Type == "MTEXT",
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return t, nil
	case "INSERT":
		var v insertData
		if err := unmarshal(j.Data, &v); err != nil {
			return nil, err
		}
		ins := model.Insert{
			Base:     base,
			Block:    v.Block,
			Position: v.Position.point(),
			Scale:    v.Scale.point(),
			Rotation: v.Rotation,
		}
		for _, a := range v.Attributes {
			ins.Attributes = append(ins.Attributes, model.Attribute{Tag: a.Tag, Value: a.Value, Position: a.Position.point(), Height: a.Height})
		}
		if err := ins.Validate(); err != nil {
			return nil, err
		}
		return ins, nil
	}
	return nil, fmt.Errorf("unknown entity type %q", j.Type)
}

func unmarshal(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("missing data")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
