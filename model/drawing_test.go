package model

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "期望 ValidationError, 得到 %v", err)
	return ve.Kind
}

func TestNewDrawing(t *testing.T) {
	d := NewDrawing()

	layers := d.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, NewLayer(DefaultLayer), layers[0])
	assert.Empty(t, d.Blocks())
	assert.Empty(t, d.Entities())
	assert.True(t, d.Extents().IsEmpty() || d.Extents() == BBox{})
}

func TestDrawing_Layers(t *testing.T) {
	d := NewDrawing()

	require.NoError(t, d.AddLayer(NewLayer("Walls")))
	assert.Equal(t, DuplicateLayer, kindOf(t, d.AddLayer(NewLayer("WALLS"))))
	assert.Equal(t, DuplicateLayer, kindOf(t, d.AddLayer(NewLayer("0"))))

	bad := NewLayer("Bad")
	bad.Color = 0
	assert.Equal(t, InvalidGeometry, kindOf(t, d.AddLayer(bad)))
	assert.Equal(t, InvalidGeometry, kindOf(t, d.AddLayer(NewLayer("  "))))

	// SetLayer 替换属性
	zero := NewLayer("0")
	zero.Color = 3
	require.NoError(t, d.SetLayer(zero))
	l, ok := d.Layer("0")
	require.True(t, ok)
	assert.Equal(t, Color(3), l.Color)

	_, ok = d.Layer("walls")
	assert.True(t, ok, "图层名称不区分大小写")
	assert.Len(t, d.Layers(), 2)
}

func TestDrawing_AddEntity(t *testing.T) {
	d := NewDrawing()
	require.NoError(t, d.AddLayer(NewLayer("MyLayer")))

	line, err := NewLine(Base{LayerName: "MyLayer"}, Point{}, Point{X: 10, Y: 10})
	require.NoError(t, err)
	require.NoError(t, d.AddEntity(line))

	orphan, err := NewLine(Base{LayerName: "Missing"}, Point{}, Point{X: 1})
	require.NoError(t, err)
	assert.Equal(t, DanglingReference, kindOf(t, d.AddEntity(orphan)))

	ins, err := NewInsert(Base{LayerName: "0"}, "NOPE", Point{})
	require.NoError(t, err)
	assert.Equal(t, DanglingReference, kindOf(t, d.AddEntity(ins)))

	assert.Equal(t, InvalidGeometry, kindOf(t, d.AddEntity(nil)))
	assert.Equal(t, InvalidGeometry, kindOf(t, d.AddEntity(Circle{Base: Base{LayerName: "0"}, Radius: -1})))

	require.Len(t, d.Entities(), 1)
	assert.NoError(t, d.Validate())
}

func TestEntity_Validate(t *testing.T) {
	base := Base{LayerName: "0"}
	nan := math.NaN()

	cases := []struct {
		name string
		fn   func() error
		ok   bool
	}{
		{"line", func() error { _, err := NewLine(base, Point{}, Point{X: 1}); return err }, true},
		{"line NaN", func() error { _, err := NewLine(base, Point{X: nan}, Point{}); return err }, false},
		{"line no layer", func() error { _, err := NewLine(Base{}, Point{}, Point{}); return err }, false},
		{"line bad color", func() error { _, err := NewLine(Base{LayerName: "0", Color: 300}, Point{}, Point{}); return err }, false},
		{"circle", func() error { _, err := NewCircle(base, Point{}, 1); return err }, true},
		{"circle zero radius", func() error { _, err := NewCircle(base, Point{}, 0); return err }, false},
		{"circle inf radius", func() error { _, err := NewCircle(base, Point{}, math.Inf(1)); return err }, false},
		{"arc", func() error { _, err := NewArc(base, Point{}, 1, 0, 90); return err }, true},
		{"arc degenerate", func() error { _, err := NewArc(base, Point{}, 1, 30, 390); return err }, false},
		{"polyline", func() error { _, err := NewPolyline(base, []Vertex{{X: 1}}, 0, false); return err }, true},
		{"polyline empty", func() error { _, err := NewPolyline(base, nil, 0, false); return err }, false},
		{"text", func() error { _, err := NewText(base, Point{}, 2.5, 0, "abc"); return err }, true},
		{"text zero height", func() error { _, err := NewText(base, Point{}, 0, 0, "abc"); return err }, false},
		{"text newline", func() error { _, err := NewText(base, Point{}, 1, 0, "a\nb"); return err }, false},
		{"insert", func() error { _, err := NewInsert(base, "B", Point{}); return err }, true},
		{"insert no block", func() error { _, err := NewInsert(base, "", Point{}); return err }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.fn()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, InvalidGeometry, kindOf(t, err))
			}
		})
	}

	ins, err := NewInsert(base, "B", Point{})
	require.NoError(t, err)
	ins.Scale.Y = 0
	assert.Error(t, ins.Validate())

	mtext := Text{Base: base, Height: 1, Value: "a\nb", Multiline: true}
	assert.NoError(t, mtext.Validate())
	assert.Equal(t, "MTEXT", mtext.Type())
}

func TestNewArc_Normalize(t *testing.T) {
	a, err := NewArc(Base{LayerName: "0"}, Point{}, 2, -90, 450)
	require.NoError(t, err)
	assert.Equal(t, 270.0, a.StartAngle)
	assert.Equal(t, 90.0, a.EndAngle)
	assert.Equal(t, 180.0, a.Sweep())

	box := a.BBox()
	assert.InDelta(t, 0, box.Min.X, 1e-12)
	assert.InDelta(t, -2, box.Min.Y, 1e-12)
	assert.InDelta(t, 2, box.Max.X, 1e-12)
	assert.InDelta(t, 2, box.Max.Y, 1e-12)
}

func TestDrawing_Blocks(t *testing.T) {
	d := NewDrawing()
	base := Base{LayerName: "0"}

	line, _ := NewLine(base, Point{}, Point{X: 10, Y: 5})
	inner, err := NewBlock("INNER", Point{}, []Entity{line})
	require.NoError(t, err)
	require.NoError(t, d.AddBlock(inner))
	assert.Equal(t, DuplicateBlock, kindOf(t, d.AddBlock(inner)))

	// 引用尚未定义的块(包括自身)会被拒绝，所以块之间不会成环
	self, _ := NewInsert(base, "SELF", Point{})
	selfBlock, err := NewBlock("SELF", Point{}, []Entity{self})
	require.NoError(t, err)
	assert.Equal(t, DanglingReference, kindOf(t, d.AddBlock(selfBlock)))

	ref, _ := NewInsert(base, "inner", Point{X: 100})
	outer, err := NewBlock("OUTER", Point{}, []Entity{ref})
	require.NoError(t, err)
	require.NoError(t, d.AddBlock(outer))

	ins, _ := NewInsert(base, "OUTER", Point{Y: 100})
	ins.Scale = Point{X: 2, Y: 2, Z: 1}
	require.NoError(t, d.AddEntity(ins))

	// OUTER → INNER 的线段 (0,0)-(10,5)，先平移 100，再放大 2 倍，再平移到 (0,100)
	want := BBox{Min: Point{X: 200, Y: 100}, Max: Point{X: 220, Y: 110}}
	if diff := cmp.Diff(want, d.Extents(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("图纸范围不符 (-want +got):\n%s", diff)
	}

	b, ok := d.Block("Outer")
	require.True(t, ok)
	b.Entities[0] = line
	b2, _ := d.Block("OUTER")
	assert.Equal(t, "INSERT", b2.Entities[0].Type(), "Block 返回的是副本")
}

func TestInsert_Transform(t *testing.T) {
	ins := Insert{Position: Point{X: 10, Y: 20}, Scale: Point{X: 2, Y: 3, Z: 1}, Rotation: 90}

	got := ins.Transform(Point{X: 1, Y: 1}, Point{})
	want := Point{X: 10 - 3, Y: 20 + 2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("变换结果不符 (-want +got):\n%s", diff)
	}

	// 基点对齐到插入点
	got = ins.Transform(Point{X: 5, Y: 5}, Point{X: 5, Y: 5})
	assert.Equal(t, Point{X: 10, Y: 20}, got)
}

func TestApproxEqual(t *testing.T) {
	build := func(dx float64, rotation float64) *Drawing {
		d := NewDrawing()
		line, _ := NewLine(Base{LayerName: "0"}, Point{X: dx}, Point{X: 1})
		text, _ := NewText(Base{LayerName: "0"}, Point{}, 1, rotation, "abc")
		_ = d.AddEntity(line)
		_ = d.AddEntity(text)
		return d
	}

	assert.True(t, ApproxEqual(build(0, 0), build(1e-12, 0), 1e-9))
	assert.False(t, ApproxEqual(build(0, 0), build(1e-3, 0), 1e-9))
	assert.True(t, ApproxEqual(build(0, 0), build(0, 359.9999999999), 1e-9), "角度按圆周比较")
	assert.Contains(t, Diff(build(0, 0), build(1, 0), 1e-9), "entity 0")

	a, b := build(0, 0), build(0, 0)
	require.NoError(t, b.AddLayer(NewLayer("X")))
	assert.Contains(t, Diff(a, b, 1e-9), "layer count")
}

func TestColor_ACI(t *testing.T) {
	assert.Equal(t, 256, ByLayer.ACI())
	assert.Equal(t, 0, ByBlock.ACI())
	assert.Equal(t, 5, Color(5).ACI())
	assert.Equal(t, ByLayer, ColorFromACI(256))
	assert.Equal(t, ByBlock, ColorFromACI(0))
	assert.Equal(t, Color(7), ColorFromACI(7))
}

func TestOnLayer(t *testing.T) {
	c, _ := NewCircle(Base{LayerName: "A", Color: 3}, Point{}, 1)
	moved := OnLayer(c, "0")
	assert.Equal(t, "0", moved.Layer())
	assert.Equal(t, Color(3), moved.Props().Color)
	assert.Equal(t, "A", c.Layer(), "原实体不变")
}

func TestNormalizeAngle(t *testing.T) {
	cases := map[float64]float64{0: 0, 360: 0, -90: 270, 725: 5, -1e-20: 0}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeAngle(in), "NormalizeAngle(%v)", in)
	}
}

func TestValidate_Names(t *testing.T) {
	base := Base{LayerName: "0"}
	names := []string{"A\nB", "A\rB", "Walls ", " Walls", "\tWalls"}

	for _, name := range names {
		d := NewDrawing()
		assert.Equal(t, InvalidGeometry, kindOf(t, d.AddLayer(NewLayer(name))), "图层 %q", name)

		lt := NewLayer("L")
		lt.LineType = name
		assert.Equal(t, InvalidGeometry, kindOf(t, d.AddLayer(lt)), "图层线型 %q", name)

		_, err := NewBlock(name, Point{}, nil)
		assert.Equal(t, InvalidGeometry, kindOf(t, err), "块 %q", name)

		_, err = NewLine(Base{LayerName: name}, Point{}, Point{X: 1})
		assert.Equal(t, InvalidGeometry, kindOf(t, err), "实体图层 %q", name)

		_, err = NewLine(Base{LayerName: "0", LineType: name}, Point{}, Point{X: 1})
		assert.Equal(t, InvalidGeometry, kindOf(t, err), "实体线型 %q", name)

		_, err = NewInsert(base, name, Point{})
		assert.Equal(t, InvalidGeometry, kindOf(t, err), "块参照 %q", name)

		text := Text{Base: base, Height: 1, Value: "abc", Style: name}
		assert.Equal(t, InvalidGeometry, kindOf(t, text.Validate()), "文字样式 %q", name)

		ins := Insert{Base: base, Block: "B", Scale: Point{X: 1, Y: 1, Z: 1},
			Attributes: []Attribute{{Tag: name, Height: 1}}}
		assert.Equal(t, InvalidGeometry, kindOf(t, ins.Validate()), "属性标签 %q", name)
	}

	// 名称中间的空格是允许的
	d := NewDrawing()
	assert.NoError(t, d.AddLayer(NewLayer("Walls Ext")))
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, ByBlock, ColorOf(-1))
	assert.Equal(t, ByLayer, ColorOf(0))
	assert.Equal(t, Color(255), ColorOf(255))

	// 超出范围的整数不能回绕成合法颜色
	for _, v := range []int{-2, 256, 65537, -65535} {
		_, err := NewLine(Base{LayerName: "0", Color: ColorOf(v)}, Point{}, Point{X: 1})
		assert.Error(t, err, "ColorOf(%d)", v)
	}
	for _, v := range []int{-1, 257, 65537, 65536 + 256} {
		_, err := NewLine(Base{LayerName: "0", Color: ColorFromACI(v)}, Point{}, Point{X: 1})
		assert.Error(t, err, "ColorFromACI(%d)", v)
	}

	l := NewLayer("L")
	l.Color = ColorOf(65537)
	assert.Error(t, l.Validate())
}
