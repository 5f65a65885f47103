package dxf

import (
	"fmt"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/entities"
	"github.com/zooyer/dxfstudio/model"
)

func (r *reader) readHeader() error {
	var name string
	for {
		t, ok := r.cur.next()
		if !ok {
			if err := r.cur.err(); err != nil {
				return r.fatal("tokenize", err)
			}
			return r.fatal("unterminated section HEADER", nil)
		}
		switch {
		case t.Is(0, "ENDSEC"):
			return nil
		case t.Code == 9:
			name = strings.ToUpper(t.AsString())
		case name == "$ACADVER" && t.Code == 1:
			r.version = strings.ToUpper(t.AsString())
		case name == "$INSUNITS" && t.Code == 70:
			r.drawing.Units = model.Units(t.AsInt())
		}
	}
}

func (r *reader) readTables() error {
	var table string
	for {
		t, err := r.nextRecordStart()
		if err != nil {
			return err
		}
		switch strings.ToUpper(t.AsString()) {
		case "ENDSEC":
			return nil
		case "TABLE":
			table = strings.ToUpper(strings.TrimSpace(r.readRecord(t).Str(2, "")))
		case "ENDTAB":
			table = ""
			r.skipRecord()
		default:
			rec := r.readRecord(t)
			if table == "LAYER" && rec.Type == "LAYER" {
				r.readLayer(rec)
			}
		}
	}
}

// readLayer 颜色为负数表示图层关闭；组码 70 位 1 冻结，位 4 锁定
func (r *reader) readLayer(rec entities.Record) {
	name := strings.TrimSpace(rec.Str(2, ""))
	w := Warning{Section: "TABLES", Index: -1, Entity: "LAYER", Layer: name}

	color := rec.Int(62, 7)
	aci := color
	if aci < 0 {
		aci = -aci
	}
	if aci < 1 || aci > 255 {
		w.Message = fmt.Sprintf("invalid layer color %d, using 7", color)
		r.warn(w)
		aci = 7
	}
	layer := model.Layer{
		Name:     name,
		Color:    model.Color(aci),
		LineType: strings.TrimSpace(rec.Str(6, "")),
		Visible:  color >= 0,
		Frozen:   rec.Flag(1),
		Locked:   rec.Flag(4),
	}

	k := strings.ToUpper(name)
	if r.layers[k] {
		w.Message = "duplicate layer definition ignored"
		r.warn(w)
		return
	}

	// "0" 图层总是存在，表中的定义只更新它的属性
	var err error
	if model.SameName(name, model.DefaultLayer) {
		err = r.drawing.SetLayer(layer)
	} else {
		err = r.drawing.AddLayer(layer)
	}
	if err != nil {
		w.Message = "layer skipped: " + err.Error()
		r.warn(w)
		return
	}
	r.layers[k] = true
}

func (r *reader) readBlocks() error {
	var (
		current *pendingBlock
		index   int
	)
	for {
		t, err := r.nextRecordStart()
		if err != nil {
			return err
		}
		switch strings.ToUpper(t.AsString()) {
		case "ENDSEC":
			if current != nil {
				r.warn(Warning{Section: "BLOCKS", Block: current.name, Index: -1, Message: "missing ENDBLK"})
				r.blocks = append(r.blocks, *current)
			}
			return nil
		case "BLOCK":
			rec := r.readRecord(t)
			if current != nil {
				r.warn(Warning{Section: "BLOCKS", Block: current.name, Index: -1, Message: "missing ENDBLK"})
				r.blocks = append(r.blocks, *current)
			}
			name := strings.TrimSpace(rec.Str(2, rec.Str(3, "")))
			current, index = &pendingBlock{name: name, base: rec.OptionalPoint(10, model.Point{}), pos: r.cur.pos}, 0
		case "ENDBLK":
			r.skipRecord()
			if current != nil {
				r.blocks = append(r.blocks, *current)
				current = nil
			}
		default:
			rec := r.readEntity(t)
			if current == nil {
				r.warn(Warning{Section: "BLOCKS", Index: -1, Entity: rec.Type, Message: "entity outside BLOCK ignored"})
				continue
			}
			if e, ok := r.decode(rec, "BLOCKS", current.name, index); ok {
				current.entities = append(current.entities, pending{entity: e, section: "BLOCKS", block: current.name, index: index, pos: r.cur.pos})
			}
			index++
		}
	}
}

func (r *reader) readEntities() error {
	// 段名之后必须紧跟实体记录
	t, ok := r.cur.next()
	if !ok {
		if err := r.cur.err(); err != nil {
			return r.fatal("tokenize", err)
		}
		return r.fatal("unterminated section ENTITIES", nil)
	}
	if t.Code != 0 {
		return r.fatal(fmt.Sprintf("ENTITIES section unparsable: expected entity, got group %d", t.Code), nil)
	}
	r.cur.unread()

	for index := 0; ; {
		t, err := r.nextRecordStart()
		if err != nil {
			return err
		}
		if t.Is(0, "ENDSEC") {
			return nil
		}
		rec := r.readEntity(t)
		if e, ok := r.decode(rec, "ENTITIES", "", index); ok {
			r.entities = append(r.entities, pending{entity: e, section: "ENTITIES", index: index, pos: r.cur.pos})
		}
		index++
	}
}

// readEntity 读取一个实体记录，POLYLINE/INSERT 继续收集 VERTEX/ATTRIB 直到 SEQEND
func (r *reader) readEntity(first core.Tag) entities.Record {
	rec := r.readRecord(first)
	if !entities.HasChildren(rec) {
		return rec
	}

	child := "VERTEX"
	if rec.Type == "INSERT" {
		child = "ATTRIB"
	}
	for {
		t, ok := r.cur.next()
		if !ok {
			return rec
		}
		typ := strings.ToUpper(t.AsString())
		if typ == "SEQEND" {
			r.skipRecord()
			return rec
		}
		if typ != child {
			// 缺少 SEQEND，交还给外层
			r.cur.unread()
			return rec
		}
		rec.Children = append(rec.Children, r.readRecord(t))
	}
}

func (r *reader) decode(rec entities.Record, section, block string, index int) (model.Entity, bool) {
	w := Warning{Section: section, Block: block, Index: index, Entity: rec.Type, Layer: rec.Str(8, "")}
	if !entities.Known(rec.Type) {
		w.Message = "unsupported entity type " + rec.Type + " skipped"
		r.warn(w)
		return nil, false
	}
	e, err := entities.Decode(rec)
	if err != nil {
		w.Message = "entity skipped: " + err.Error()
		r.warn(w)
		return nil, false
	}
	return e, true
}

// resolve 在所有段读完后处理图层和块引用，块按依赖顺序加入图纸
func (r *reader) resolve() {
	var queue []pendingBlock
	seen := make(map[string]bool)
	r.defined = seen
	for _, b := range r.blocks {
		k := strings.ToUpper(b.name)
		switch {
		case b.name == "":
			r.warnAt(b.pos, Warning{Section: "BLOCKS", Index: -1, Message: "block without name ignored"})
		case k == "*MODEL_SPACE" || strings.HasPrefix(k, "*PAPER_SPACE"):
		case seen[k]:
			r.warnAt(b.pos, Warning{Section: "BLOCKS", Block: b.name, Index: -1, Message: "duplicate block definition ignored"})
		default:
			seen[k] = true
			queue = append(queue, b)
		}
	}

	for len(queue) > 0 {
		var rest []pendingBlock
		for _, b := range queue {
			if r.blockReady(b, seen) {
				r.addBlock(b)
			} else {
				rest = append(rest, b)
			}
		}
		if len(rest) == len(queue) {
			// 剩下的块互相引用成环：强制加入第一个，指向未加入块的参照会被丢弃
			r.addBlock(rest[0])
			rest = rest[1:]
		}
		queue = rest
	}

	for _, p := range r.entities {
		if e, ok := r.resolveEntity(p); ok {
			if err := r.drawing.AddEntity(e); err != nil {
				r.warnAt(p.pos, Warning{Section: p.section, Index: p.index, Entity: e.Type(), Layer: e.Layer(), Message: "entity skipped: " + err.Error()})
			}
		}
	}
}

// blockReady 块内引用的块要么已经加入，要么根本没有定义
func (r *reader) blockReady(b pendingBlock, defined map[string]bool) bool {
	for _, p := range b.entities {
		if ins, ok := p.entity.(model.Insert); ok {
			if _, added := r.drawing.Block(ins.Block); !added && defined[strings.ToUpper(ins.Block)] {
				return false
			}
		}
	}
	return true
}

func (r *reader) addBlock(b pendingBlock) {
	var list []model.Entity
	for _, p := range b.entities {
		if e, ok := r.resolveEntity(p); ok {
			list = append(list, e)
		}
	}

	block, err := model.NewBlock(b.name, b.base, list)
	if err == nil {
		err = r.drawing.AddBlock(block)
	}
	if err != nil {
		r.warnAt(b.pos, Warning{Section: "BLOCKS", Block: b.name, Index: -1, Message: "block skipped: " + err.Error()})
	}
}

// resolveEntity 未定义的图层改为 "0"，引用未定义(或成环)块的参照被丢弃
func (r *reader) resolveEntity(p pending) (model.Entity, bool) {
	e := p.entity
	w := Warning{Section: p.section, Block: p.block, Index: p.index, Entity: e.Type(), Layer: e.Layer()}

	if _, ok := r.drawing.Layer(e.Layer()); !ok {
		w.Message = fmt.Sprintf("undefined layer %q, moved to layer %q", e.Layer(), model.DefaultLayer)
		r.warnAt(p.pos, w)
		e = model.OnLayer(e, model.DefaultLayer)
	}

	if ins, ok := e.(model.Insert); ok {
		if _, ok := r.drawing.Block(ins.Block); !ok {
			w.Message = fmt.Sprintf("reference to undefined block %q dropped", ins.Block)
			if r.defined[strings.ToUpper(ins.Block)] {
				w.Message = fmt.Sprintf("cyclic reference to block %q dropped", ins.Block)
			}
			r.warnAt(p.pos, w)
			return nil, false
		}
	}
	return e, true
}
