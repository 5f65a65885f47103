package dxf

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/entities"
	"github.com/zooyer/dxfstudio/model"
)

// Version 写出文件使用的 $ACADVER(AutoCAD 2000)
const Version = "AC1015"

// Create 将图纸写成 DXF 文件
func Create(filename string, d *model.Drawing, opts ...Option) (err error) {
	data, err := Write(d, opts...)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return &ExportError{Kind: IoFailure, Err: err}
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = &ExportError{Kind: IoFailure, Err: e}
		}
	}()

	if _, err = file.Write(data); err != nil {
		return &ExportError{Kind: IoFailure, Err: err}
	}
	return nil
}

// Write 将图纸序列化为 DXF 文本
func Write(d *model.Drawing, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode 按 HEADER、TABLES、BLOCKS、ENTITIES、EOF 的顺序写出；
// 所有实体先编码成标签，遇到不支持的实体时不会写出任何内容
func Encode(w io.Writer, d *model.Drawing, opts ...Option) error {
	o := newOptions(opts)

	blocks := d.Blocks()
	blockTags := make([][]core.Tag, len(blocks))
	for i, b := range blocks {
		tags, err := encodeAll(b.Entities)
		if err != nil {
			return err
		}
		blockTags[i] = tags
	}
	entityTags, err := encodeAll(d.Entities())
	if err != nil {
		return err
	}

	enc := core.NewEncoder(w)
	enc.Digits = o.digits

	var tags []core.Tag
	tags = append(tags, header(d)...)
	tags = append(tags, tables(d)...)

	tags = append(tags, section("BLOCKS")...)
	for i, b := range blocks {
		tags = append(tags, blockBegin(b)...)
		tags = append(tags, blockTags[i]...)
		tags = append(tags, blockEnd()...)
	}
	tags = append(tags, endSection())

	tags = append(tags, section("ENTITIES")...)
	tags = append(tags, entityTags...)
	tags = append(tags, endSection())
	tags = append(tags, core.Str(0, "EOF"))

	for _, t := range tags {
		if err = core.CheckValue(t); err != nil {
			return &ExportError{Kind: InvalidValue, Err: err}
		}
	}

	if err = enc.Encode(tags...); err == nil {
		err = enc.Flush()
	}
	if err != nil {
		return &ExportError{Kind: IoFailure, Err: err}
	}
	o.logger.Debug("dxf export", "layers", len(d.Layers()), "blocks", len(blocks), "entities", len(d.Entities()), "tags", len(tags))
	return nil
}

func encodeAll(list []model.Entity) ([]core.Tag, error) {
	var tags []core.Tag
	for _, e := range list {
		t, err := entities.Encode(e)
		if err != nil {
			var unsupported *entities.UnsupportedError
			if errors.As(err, &unsupported) {
				return nil, &ExportError{Kind: UnsupportedEntity, Entity: unsupported.Type, Err: err}
			}
			return nil, &ExportError{Kind: UnsupportedEntity, Err: err}
		}
		tags = append(tags, t...)
	}
	return tags, nil
}

func section(name string) []core.Tag {
	return []core.Tag{core.Str(0, "SECTION"), core.Str(2, name)}
}

func endSection() core.Tag {
	return core.Str(0, "ENDSEC")
}

func header(d *model.Drawing) []core.Tag {
	ext := d.Extents()
	tags := section("HEADER")
	tags = append(tags,
		core.Str(9, "$ACADVER"), core.Str(1, Version),
		core.Str(9, "$DWGCODEPAGE"), core.Str(3, DefaultCodePage),
		core.Str(9, "$INSUNITS"), core.Int(70, int(d.Units)),
		core.Str(9, "$EXTMIN"), core.Float(10, ext.Min.X), core.Float(20, ext.Min.Y), core.Float(30, ext.Min.Z),
		core.Str(9, "$EXTMAX"), core.Float(10, ext.Max.X), core.Float(20, ext.Max.Y), core.Float(30, ext.Max.Z),
	)
	return append(tags, endSection())
}

func tables(d *model.Drawing) []core.Tag {
	layers := d.Layers()

	// 线型表：固定的三项加上所有被引用的线型
	ltypes := []string{"ByBlock", "ByLayer", "Continuous"}
	used := map[string]bool{"BYBLOCK": true, "BYLAYER": true, "CONTINUOUS": true}
	addLType := func(name string) {
		if k := strings.ToUpper(name); name != "" && !used[k] {
			used[k] = true
			ltypes = append(ltypes, name)
		}
	}
	for _, l := range layers {
		addLType(l.LineType)
	}
	for _, b := range d.Blocks() {
		for _, e := range b.Entities {
			addLType(e.Props().LineType)
		}
	}
	for _, e := range d.Entities() {
		addLType(e.Props().LineType)
	}

	// 文字样式表
	styles := []string{"Standard"}
	usedStyle := map[string]bool{"STANDARD": true}
	addStyle := func(e model.Entity) {
		if t, ok := e.(model.Text); ok {
			if k := strings.ToUpper(t.Style); t.Style != "" && !usedStyle[k] {
				usedStyle[k] = true
				styles = append(styles, t.Style)
			}
		}
	}
	for _, b := range d.Blocks() {
		for _, e := range b.Entities {
			addStyle(e)
		}
	}
	for _, e := range d.Entities() {
		addStyle(e)
	}

	tags := section("TABLES")

	tags = append(tags, core.Str(0, "TABLE"), core.Str(2, "LTYPE"), core.Str(100, "AcDbSymbolTable"), core.Int(70, len(ltypes)))
	for _, name := range ltypes {
		tags = append(tags,
			core.Str(0, "LTYPE"),
			core.Str(100, "AcDbSymbolTableRecord"),
			core.Str(100, "AcDbLinetypeTableRecord"),
			core.Str(2, name),
			core.Int(70, 0),
			core.Str(3, ""),
			core.Int(72, 65),
			core.Int(73, 0),
			core.Float(40, 0),
		)
	}
	tags = append(tags, core.Str(0, "ENDTAB"))

	tags = append(tags, core.Str(0, "TABLE"), core.Str(2, "LAYER"), core.Str(100, "AcDbSymbolTable"), core.Int(70, len(layers)))
	for _, l := range layers {
		tags = append(tags, layerTags(l)...)
	}
	tags = append(tags, core.Str(0, "ENDTAB"))

	tags = append(tags, core.Str(0, "TABLE"), core.Str(2, "STYLE"), core.Str(100, "AcDbSymbolTable"), core.Int(70, len(styles)))
	for _, name := range styles {
		tags = append(tags,
			core.Str(0, "STYLE"),
			core.Str(100, "AcDbSymbolTableRecord"),
			core.Str(100, "AcDbTextStyleTableRecord"),
			core.Str(2, name),
			core.Int(70, 0),
			core.Float(40, 0),
			core.Float(41, 1),
			core.Float(50, 0),
			core.Int(71, 0),
			core.Float(42, 2.5),
			core.Str(3, "txt"),
			core.Str(4, ""),
		)
	}
	tags = append(tags, core.Str(0, "ENDTAB"))

	return append(tags, endSection())
}

// layerTags 关闭的图层写成负颜色
func layerTags(l model.Layer) []core.Tag {
	flags := 0
	if l.Frozen {
		flags |= 1
	}
	if l.Locked {
		flags |= 4
	}
	color := int(l.Color)
	if !l.Visible {
		color = -color
	}

	tags := []core.Tag{
		core.Str(0, "LAYER"),
		core.Str(100, "AcDbSymbolTableRecord"),
		core.Str(100, "AcDbLayerTableRecord"),
		core.Str(2, l.Name),
		core.Int(70, flags),
		core.Int(62, color),
	}
	if l.LineType != "" {
		tags = append(tags, core.Str(6, l.LineType))
	}
	return tags
}

func blockBegin(b model.Block) []core.Tag {
	tags := []core.Tag{
		core.Str(0, "BLOCK"),
		core.Str(100, "AcDbEntity"),
		core.Str(8, model.DefaultLayer),
		core.Str(100, "AcDbBlockBegin"),
		core.Str(2, b.Name),
		core.Int(70, 0),
		core.Float(10, b.Base.X),
		core.Float(20, b.Base.Y),
		core.Float(30, b.Base.Z),
		core.Str(3, b.Name),
		core.Str(1, ""),
	}
	return tags
}

func blockEnd() []core.Tag {
	return []core.Tag{
		core.Str(0, "ENDBLK"),
		core.Str(100, "AcDbEntity"),
		core.Str(8, model.DefaultLayer),
		core.Str(100, "AcDbBlockEnd"),
	}
}
