package dxf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// pairs 将 "组码", "值", ... 拼成文本 DXF
func pairs(kv ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(kv[i] + "\n" + kv[i+1] + "\n")
	}
	return sb.String()
}

func entitiesSection(body ...string) string {
	return pairs("0", "SECTION", "2", "ENTITIES") + pairs(body...) + pairs("0", "ENDSEC", "0", "EOF")
}

func readString(t *testing.T, s string) *Result {
	t.Helper()
	res, err := ReadBytes([]byte(s))
	require.NoError(t, err)
	return res
}

func TestRead_UndefinedLayer(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "LINE", "8", "MyLayer", "10", "0.0", "20", "0.0", "11", "5.0", "21", "0.0",
	))

	list := res.Drawing.Entities()
	require.Len(t, list, 1)
	line, ok := list[0].(model.Line)
	require.True(t, ok)
	assert.Equal(t, "0", line.Layer())
	assert.Equal(t, model.Point{}, line.Start)
	assert.Equal(t, model.Point{X: 5}, line.End)

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, "MyLayer", w.Layer)
	assert.Equal(t, "ENTITIES", w.Section)
	assert.Equal(t, 0, w.Index)
	assert.Contains(t, w.String(), "MyLayer")
}

func TestRead_UnknownEntity(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "LINE", "8", "0", "10", "0", "20", "0", "11", "1", "21", "1",
		"0", "HATCH", "8", "0", "2", "SOLID", "10", "0", "20", "0",
	))

	require.Len(t, res.Drawing.Entities(), 1)
	assert.Equal(t, "LINE", res.Drawing.Entities()[0].Type())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "HATCH", res.Warnings[0].Entity)
	assert.Equal(t, 1, res.Warnings[0].Index)
}

func TestRead_WarningOrder(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "LINE", "8", "Missing", "10", "0", "20", "0", "11", "1", "21", "1",
		"0", "HATCH", "8", "0", "2", "SOLID", "10", "0", "20", "0",
		"0", "INSERT", "8", "0", "2", "GHOST", "10", "0", "20", "0",
		"0", "CIRCLE", "8", "0", "10", "0", "20", "0", "40", "-1",
	))

	// 图层和块引用在最后解析，警告仍然按实体在文件中的顺序排列
	var index []int
	for _, w := range res.Warnings {
		index = append(index, w.Index)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, index)
	assert.Contains(t, res.Warnings[0].Message, `undefined layer "Missing"`)
	assert.Contains(t, res.Warnings[2].Message, `undefined block "GHOST"`)
}

func TestRead_ColorRange(t *testing.T) {
	data := pairs(
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LAYER",
		"0", "LAYER", "2", "Big", "70", "0", "62", "65537",
		"0", "LAYER", "2", "Off", "70", "0", "62", "-65537",
		"0", "ENDTAB",
		"0", "ENDSEC",
	) + entitiesSection(
		"0", "LINE", "8", "0", "62", "65537", "10", "0", "20", "0", "11", "1", "21", "1",
		"0", "LINE", "8", "0", "62", "5", "10", "0", "20", "0", "11", "1", "21", "1",
	)
	res := readString(t, data)

	big, ok := res.Drawing.Layer("Big")
	require.True(t, ok)
	assert.Equal(t, model.Color(7), big.Color, "超出范围的颜色不能回绕成 1")
	off, ok := res.Drawing.Layer("Off")
	require.True(t, ok)
	assert.Equal(t, model.Color(7), off.Color)
	assert.False(t, off.Visible)

	list := res.Drawing.Entities()
	require.Len(t, list, 1)
	assert.Equal(t, model.Color(5), list[0].Props().Color)

	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[2].Message, "color")
	assert.Equal(t, 0, res.Warnings[2].Index)
}

func TestRead_NamesTrimmed(t *testing.T) {
	data := pairs(
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LAYER",
		"0", "LAYER", "2", "Walls ", "70", "0", "62", "1", "6", " DASHED ",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "2", " TK ", "10", "0", "20", "0",
		"0", "TEXT", "8", " Walls", "10", "0", "20", "0", "40", "2.5", "1", " 门窗 ", "7", "Standard ",
		"0", "ENDBLK",
		"0", "ENDSEC",
	) + entitiesSection(
		"0", "INSERT", "8", "Walls ", "2", "TK  ", "10", "5", "20", "5",
	)

	res := readString(t, data)
	assert.Empty(t, res.Warnings)

	layer, ok := res.Drawing.Layer("Walls")
	require.True(t, ok)
	assert.Equal(t, "Walls", layer.Name)
	assert.Equal(t, "DASHED", layer.LineType)

	block, ok := res.Drawing.Block("TK")
	require.True(t, ok)
	assert.Equal(t, "TK", block.Name)
	text := block.Entities[0].(model.Text)
	assert.Equal(t, "Walls", text.Layer())
	assert.Equal(t, "Standard", text.Style)
	assert.Equal(t, " 门窗 ", text.Value, "文字内容保留首尾空格")

	// 去掉首尾空白后的名称可以原样往返
	out, err := Write(res.Drawing)
	require.NoError(t, err)
	again, err := ReadBytes(out)
	require.NoError(t, err)
	if diff := model.Diff(res.Drawing, again.Drawing, 1e-9); diff != "" {
		t.Fatalf("往返后图纸不一致: %s", diff)
	}
}

func TestRead_BadEntitySkipped(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "CIRCLE", "8", "0", "10", "0", "20", "0", "40", "-1",
		"0", "CIRCLE", "8", "0", "10", "0", "20", "0", "40", "1",
	))

	require.Len(t, res.Drawing.Entities(), 1)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 0, res.Warnings[0].Index)
}

func TestRead_DegenerateArc(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "ARC", "8", "0", "10", "1", "20", "1", "40", "2", "50", "45", "51", "405",
	))

	require.Len(t, res.Drawing.Entities(), 1)
	c, ok := res.Drawing.Entities()[0].(model.Circle)
	require.True(t, ok, "退化圆弧应该变成圆")
	assert.Equal(t, 2.0, c.Radius)
	assert.Empty(t, res.Warnings)
}

func TestRead_Fatal(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"no section":         pairs("0", "LINE", "8", "0"),
		"section no name":    pairs("0", "SECTION", "0", "ENDSEC"),
		"unterminated":       pairs("0", "SECTION", "2", "ENTITIES", "0", "LINE", "8", "0"),
		"unterminated table": pairs("0", "SECTION", "2", "TABLES", "0", "TABLE", "2", "LAYER"),
		"entities garbage":   pairs("0", "SECTION", "2", "ENTITIES", "8", "0", "0", "ENDSEC", "0", "EOF"),
		"tokenize":           pairs("0", "SECTION", "2", "ENTITIES", "abc", "LINE"),
		"bad number":         pairs("0", "SECTION", "2", "ENTITIES", "0", "LINE", "10", "1.2.3"),
		"unpaired":           "  0\nSECTION\n  2",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := ReadBytes([]byte(data))
			assert.Nil(t, res)
			var ie *ImportError
			require.True(t, errors.As(err, &ie), "期望 ImportError, 得到 %v", err)
		})
	}

	_, err := ReadBytes([]byte(pairs("0", "SECTION", "2", "ENTITIES", "0", "LINE", "10", "x")))
	var te *core.TokenizeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, core.MalformedNumber, te.Kind)
}

func TestRead_MissingEOF(t *testing.T) {
	data := pairs("0", "SECTION", "2", "ENTITIES", "0", "CIRCLE", "10", "0", "20", "0", "40", "1", "0", "ENDSEC")

	res := readString(t, data)
	assert.Len(t, res.Drawing.Entities(), 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "EOF")
}

func TestRead_HeaderAndTables(t *testing.T) {
	data := pairs(
		"999", "comment",
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVER", "1", "AC1009",
		"9", "$INSUNITS", "70", "4",
		"9", "$EXTMIN", "10", "0", "20", "0", "30", "0",
		"0", "ENDSEC",
		"0", "SECTION", "2", "CLASSES", "0", "CLASS", "1", "X", "0", "ENDSEC",
		"0", "SECTION", "2", "TABLES",
		"0", "TABLE", "2", "LTYPE", "70", "1",
		"0", "LTYPE", "2", "DASHED", "70", "0",
		"0", "ENDTAB",
		"0", "TABLE", "2", "LAYER", "70", "4",
		"0", "LAYER", "2", "0", "70", "0", "62", "2", "6", "CONTINUOUS",
		"0", "LAYER", "2", "Hidden", "70", "5", "62", "-3", "6", "DASHED",
		"0", "LAYER", "2", "HIDDEN", "70", "0", "62", "4",
		"0", "LAYER", "2", "Bad", "70", "0", "62", "300",
		"0", "ENDTAB",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "8", "hidden", "10", "0", "20", "0", "11", "1", "21", "0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	res := readString(t, data)
	assert.Equal(t, "AC1009", res.Version)
	assert.Equal(t, model.Millimeters, res.Drawing.Units)

	layers := res.Drawing.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, model.Layer{Name: "0", Color: 2, LineType: "CONTINUOUS", Visible: true}, layers[0])
	assert.Equal(t, model.Layer{Name: "Hidden", Color: 3, LineType: "DASHED", Visible: false, Frozen: true, Locked: true}, layers[1])
	assert.Equal(t, model.Layer{Name: "Bad", Color: 7, Visible: true}, layers[2])

	require.Len(t, res.Drawing.Entities(), 1)
	assert.Equal(t, "hidden", res.Drawing.Entities()[0].Layer(), "图层名称不区分大小写")

	// 重复图层和非法颜色各一条警告
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0].Message, "duplicate")
	assert.Contains(t, res.Warnings[1].Message, "color")
}

func TestRead_Blocks(t *testing.T) {
	data := pairs(
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "8", "0", "2", "*Model_Space", "70", "0", "10", "0", "20", "0", "30", "0",
		"0", "ENDBLK",
		// OUTER 引用了后面才定义的 INNER
		"0", "BLOCK", "8", "0", "2", "OUTER", "70", "0", "10", "0", "20", "0", "30", "0",
		"0", "INSERT", "8", "0", "2", "INNER", "10", "100", "20", "0",
		"0", "INSERT", "8", "0", "2", "GHOST", "10", "0", "20", "0",
		"0", "ENDBLK",
		"0", "BLOCK", "8", "0", "2", "INNER", "70", "0", "10", "1", "20", "1", "30", "0",
		"0", "LINE", "8", "0", "10", "1", "20", "1", "11", "11", "21", "6",
		"0", "ENDBLK",
		// A 和 B 互相引用
		"0", "BLOCK", "2", "A", "10", "0", "20", "0",
		"0", "INSERT", "8", "0", "2", "B", "10", "0", "20", "0",
		"0", "ENDBLK",
		"0", "BLOCK", "2", "B", "10", "0", "20", "0",
		"0", "INSERT", "8", "0", "2", "A", "10", "0", "20", "0",
		"0", "ENDBLK",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "INSERT", "8", "0", "66", "1", "2", "OUTER", "10", "0", "20", "100", "41", "2", "42", "2", "43", "1",
		"0", "ATTRIB", "8", "0", "10", "0", "20", "100", "40", "2.5", "1", "12", "2", "序号", "70", "0",
		"0", "SEQEND", "8", "0",
		"0", "INSERT", "8", "0", "2", "A", "10", "0", "20", "0",
		"0", "ENDSEC",
		"0", "EOF",
	)

	res := readString(t, data)
	d := res.Drawing

	var names []string
	for _, b := range d.Blocks() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"INNER", "OUTER", "A", "B"}, names, "块按依赖顺序加入")

	outer, ok := d.Block("OUTER")
	require.True(t, ok)
	assert.Len(t, outer.Entities, 1, "引用未定义块的参照被丢弃")

	a, _ := d.Block("A")
	b, _ := d.Block("B")
	assert.Empty(t, a.Entities, "成环的引用被丢弃")
	assert.Len(t, b.Entities, 1)

	list := d.Entities()
	require.Len(t, list, 2)
	ins := list[0].(model.Insert)
	assert.Equal(t, "12", ins.Attr("序号"))

	// INNER 的线段相对基点为 (0,0)-(10,5)，平移 100 后放大 2 倍，再平移到 (0,100)
	box := d.EntityBBox(ins)
	assert.InDelta(t, 200, box.Min.X, 1e-9)
	assert.InDelta(t, 100, box.Min.Y, 1e-9)
	assert.InDelta(t, 220, box.Max.X, 1e-9)
	assert.InDelta(t, 110, box.Max.Y, 1e-9)

	var messages []string
	for _, w := range res.Warnings {
		messages = append(messages, w.Message)
	}
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], `undefined block "GHOST"`)
	assert.Contains(t, messages[1], `cyclic reference to block "B"`)
	assert.Equal(t, "OUTER", res.Warnings[0].Block)
	assert.NoError(t, d.Validate())
}

func TestRead_LegacyPolyline(t *testing.T) {
	res := readString(t, entitiesSection(
		"0", "POLYLINE", "8", "0", "66", "1", "10", "0", "20", "0", "30", "2", "70", "1",
		"0", "VERTEX", "8", "0", "10", "0", "20", "0", "42", "1",
		"0", "VERTEX", "8", "0", "10", "5", "20", "0",
		"0", "SEQEND", "8", "0",
		"0", "LINE", "8", "0", "10", "0", "20", "0", "11", "1", "21", "0",
	))

	list := res.Drawing.Entities()
	require.Len(t, list, 2)
	p := list[0].(model.Polyline)
	assert.True(t, p.Closed)
	assert.Equal(t, 2.0, p.Elevation)
	assert.Equal(t, []model.Vertex{{X: 0, Y: 0, Bulge: 1}, {X: 5, Y: 0}}, p.Vertices)
	assert.Empty(t, res.Warnings)
}

// writeBinary 按二进制 DXF 格式写出标签
func writeBinary(tags ...core.Tag) []byte {
	var buf bytes.Buffer
	buf.WriteString(core.BinarySentinel)
	for _, t := range tags {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(t.Code))
		switch t.Type() {
		case core.Double:
			_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(t.AsFloat()))
		case core.Int16:
			_ = binary.Write(&buf, binary.LittleEndian, int16(t.AsInt()))
		default:
			buf.WriteString(t.Value)
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func TestRead_Binary(t *testing.T) {
	data := writeBinary(
		core.Str(0, "SECTION"), core.Str(2, "ENTITIES"),
		core.Str(0, "CIRCLE"), core.Str(8, "0"), core.Int(62, 1),
		core.Float(10, 1.25), core.Float(20, -3), core.Float(40, 1e6),
		core.Str(0, "ENDSEC"), core.Str(0, "EOF"),
	)

	res, err := ReadBytes(data)
	require.NoError(t, err)
	require.Len(t, res.Drawing.Entities(), 1)

	want := model.Circle{Base: model.Base{LayerName: "0", Color: 1}, Center: model.Point{X: 1.25, Y: -3}, Radius: 1e6}
	assert.Equal(t, model.Entity(want), res.Drawing.Entities()[0])

	// 截断的二进制流
	_, err = ReadBytes(data[:len(data)-7])
	var ie *ImportError
	assert.True(t, errors.As(err, &ie))
}

func TestRead_CodePage(t *testing.T) {
	text := pairs(
		"0", "SECTION", "2", "HEADER", "9", "$DWGCODEPAGE", "3", "ANSI_936", "0", "ENDSEC",
	) + entitiesSection(
		"0", "TEXT", "8", "0", "10", "0", "20", "0", "40", "2.5", "1", "门窗表",
	)
	gbk, err := simplifiedchinese.GBK.NewEncoder().String(text)
	require.NoError(t, err)

	res, err := ReadBytes([]byte(gbk))
	require.NoError(t, err)
	assert.Equal(t, "ANSI_936", res.CodePage)
	require.Len(t, res.Drawing.Entities(), 1)
	assert.Equal(t, "门窗表", res.Drawing.Entities()[0].(model.Text).Value)

	// UTF-8 输入直接使用，\U+XXXX 转义被还原
	res = readString(t, entitiesSection("0", "TEXT", "8", "0", "10", "0", "20", "0", "40", "1", "1", `A\U+95E8B`))
	assert.Equal(t, "A门B", res.Drawing.Entities()[0].(model.Text).Value)
	assert.Empty(t, res.CodePage)
}

func TestReadTokens(t *testing.T) {
	src := core.NewTagSource([]core.Tag{
		core.Str(0, "SECTION"), core.Str(2, "ENTITIES"),
		core.Str(0, "LINE"), core.Float(10, 0), core.Float(20, 0), core.Float(11, 1), core.Float(21, 1),
		core.Str(0, "ENDSEC"), core.Str(0, "EOF"),
	})

	res, err := ReadTokens(src)
	require.NoError(t, err)
	assert.Len(t, res.Drawing.Entities(), 1)
}

func FuzzRead(f *testing.F) {
	f.Add([]byte(entitiesSection("0", "LINE", "8", "MyLayer", "10", "0.0", "20", "0.0", "11", "5.0", "21", "0.0")))
	f.Add([]byte(pairs("0", "SECTION", "2", "BLOCKS", "0", "BLOCK", "2", "A", "0", "INSERT", "2", "A", "10", "0", "20", "0", "0", "ENDSEC")))
	f.Add([]byte(core.BinarySentinel + "\x00\x00"))
	f.Add([]byte(""))
	f.Add([]byte(pairs("0", "SECTION", "2", "TABLES", "0", "TABLE", "2", "LAYER", "0", "LAYER", "2", `A\U+000AB`, "62", "1", "0", "ENDTAB", "0", "ENDSEC")))

	f.Fuzz(func(t *testing.T, data []byte) {
		res, err := ReadBytes(data)
		if err != nil {
			var ie *ImportError
			if !errors.As(err, &ie) {
				t.Fatalf("期望 ImportError, 得到 %T: %v", err, err)
			}
			return
		}
		if err = res.Drawing.Validate(); err != nil {
			t.Fatalf("导入的图纸不合法: %v", err)
		}
		out, err := Write(res.Drawing)
		if err != nil {
			t.Fatalf("导入的图纸无法导出: %v", err)
		}
		if _, err = ReadBytes(out); err != nil {
			t.Fatalf("导出的文件无法再次导入: %v", err)
		}
	})
}
