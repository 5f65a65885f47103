// Package dxf 在 model.Drawing 与 DXF 交换格式之间互相转换。
package dxf

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/entities"
	"github.com/zooyer/dxfstudio/model"
)

// Result 导入结果：图纸和按顺序记录的警告
type Result struct {
	Drawing  *model.Drawing
	Warnings []Warning
	Version  string // $ACADVER
	CodePage string // 非 UTF-8 输入实际使用的代码页
}

// Open 读取并解析 DXF 文件
func Open(filename string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &ImportError{Reason: "cannot read " + filename, Err: err}
	}
	return ReadBytes(data, opts...)
}

// Read 将整个输入读入内存后解析
func Read(r io.Reader, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImportError{Reason: "read input", Err: err}
	}
	return ReadBytes(data, opts...)
}

// ReadBytes 自动识别二进制/文本格式以及文本的代码页
func ReadBytes(data []byte, opts ...Option) (*Result, error) {
	if core.IsBinary(data) {
		return ReadTokens(core.NewBinaryScanner(bytes.NewReader(data)), opts...)
	}

	text, page, err := toUTF8(data)
	if err != nil {
		return nil, &ImportError{Reason: "decode code page " + page, Err: err}
	}
	res, err := ReadTokens(core.NewScanner(bytes.NewReader(text)), opts...)
	if res != nil {
		res.CodePage = page
	}
	return res, err
}

// ReadTokens 从标签流重建图纸
func ReadTokens(src core.Source, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	r := &reader{
		cur:     &cursor{src: src},
		log:     o.logger,
		drawing: model.NewDrawing(),
		layers:  make(map[string]bool),
	}
	if err := r.run(); err != nil {
		return nil, err
	}
	return &Result{Drawing: r.drawing, Warnings: r.warnings, Version: r.version}, nil
}

// cursor 单标签回退的拉取式游标，字符串值在这里还原 \U+XXXX 转义，注释(999)被跳过
type cursor struct {
	src    core.Source
	last   core.Tag
	pushed bool
	pos    int // 已读取的标签数，用作警告在文件中的位置
}

func (c *cursor) next() (core.Tag, bool) {
	if c.pushed {
		c.pushed = false
		return c.last, true
	}
	for c.src.Next() {
		t := c.src.Tag()
		switch t.Type() {
		case core.Comment:
			continue
		case core.String:
			t.Value = core.UnescapeUnicode(t.Value)
		}
		c.last = t
		c.pos++
		return t, true
	}
	return core.Tag{}, false
}

// unread 回退最近一次 next 返回的标签
func (c *cursor) unread() {
	c.pushed = true
}

func (c *cursor) err() error {
	return c.src.Err()
}

type state int

const (
	statePreamble state = iota
	stateInSection
	stateDone
)

// pending 已解析但尚未解析图层/块引用的实体
type pending struct {
	entity  model.Entity
	section string
	block   string
	index   int
	pos     int
}

type pendingBlock struct {
	name     string
	base     model.Point
	entities []pending
	pos      int
}

type reader struct {
	cur *cursor
	log *slog.Logger

	drawing  *model.Drawing
	warnings []Warning
	order    []int // 每条警告在文件中的位置
	version  string

	section  string
	sections int
	sawEOF   bool

	layers   map[string]bool // 图层表中出现过的名称，用于发现重复定义
	blocks   []pendingBlock
	defined  map[string]bool // BLOCKS 段中定义过的块名称(大写)
	entities []pending
}

func (r *reader) warn(w Warning) {
	r.warnAt(r.cur.pos, w)
}

// warnAt 记录一条警告，pos 为问题所在记录的位置
func (r *reader) warnAt(pos int, w Warning) {
	r.warnings = append(r.warnings, w)
	r.order = append(r.order, pos)
	r.log.Debug("dxf import warning",
		"section", w.Section, "block", w.Block, "index", w.Index,
		"entity", w.Entity, "layer", w.Layer, "message", w.Message)
}

func (r *reader) fatal(reason string, err error) error {
	if err == nil {
		err = r.cur.err()
	}
	return &ImportError{Reason: reason, Err: err, Warnings: r.warnings}
}

// run 按段驱动的状态机：Preamble → InSection(name) → Preamble → … → Done
func (r *reader) run() error {
	st := statePreamble
	for st != stateDone {
		switch st {
		case statePreamble:
			t, ok := r.cur.next()
			if !ok {
				if err := r.cur.err(); err != nil {
					return r.fatal("tokenize", err)
				}
				if r.sections == 0 {
					return r.fatal("no SECTION found, not a DXF file", nil)
				}
				r.warn(Warning{Section: "EOF", Index: -1, Message: "missing EOF marker"})
				st = stateDone
				continue
			}

			switch {
			case t.Is(0, "EOF"):
				r.sawEOF = true
				st = stateDone
			case t.Is(0, "SECTION"):
				name, ok := r.cur.next()
				if !ok || name.Code != 2 {
					return r.fatal("SECTION without name", nil)
				}
				r.section = strings.ToUpper(name.AsString())
				r.sections++
				st = stateInSection
			case r.sections == 0:
				return r.fatal("not a DXF file: expected SECTION, got "+t.Value, nil)
			default:
				r.warn(Warning{Section: r.section, Index: -1, Message: "ignored data between sections"})
				r.skipRecord()
			}

		case stateInSection:
			var err error
			switch r.section {
			case "HEADER":
				err = r.readHeader()
			case "TABLES":
				err = r.readTables()
			case "BLOCKS":
				err = r.readBlocks()
			case "ENTITIES":
				err = r.readEntities()
			default:
				// 不支持的段整体跳过
				err = r.skipSection()
			}
			if err != nil {
				return err
			}
			st = statePreamble
		}
	}

	r.resolve()
	r.sortWarnings()
	return nil
}

// sortWarnings 引用在最后才解析，警告按在文件中的位置重新排列
func (r *reader) sortWarnings() {
	idx := make([]int, len(r.warnings))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return r.order[idx[i]] < r.order[idx[j]]
	})

	sorted := make([]Warning, len(idx))
	for i, k := range idx {
		sorted[i] = r.warnings[k]
	}
	r.warnings = sorted
}

// readRecord 收集从 first(组码 0)开始、到下一个组码 0 之前的全部标签
func (r *reader) readRecord(first core.Tag) entities.Record {
	rec := entities.Record{Type: strings.ToUpper(first.AsString())}
	for {
		t, ok := r.cur.next()
		if !ok {
			return rec
		}
		if t.Code == 0 {
			r.cur.unread()
			return rec
		}
		rec.Tags = append(rec.Tags, t)
	}
}

// skipRecord 跳过当前组码 0 之后的标签
func (r *reader) skipRecord() {
	r.readRecord(core.Tag{})
}

// nextRecordStart 读取下一个组码 0 标签；段在 ENDSEC 之前结束是致命错误
func (r *reader) nextRecordStart() (core.Tag, error) {
	for {
		t, ok := r.cur.next()
		if !ok {
			if err := r.cur.err(); err != nil {
				return t, r.fatal("tokenize", err)
			}
			return t, r.fatal("unterminated section "+r.section, nil)
		}
		if t.Code == 0 {
			return t, nil
		}
	}
}

func (r *reader) skipSection() error {
	for {
		t, err := r.nextRecordStart()
		if err != nil {
			return err
		}
		if t.Is(0, "ENDSEC") {
			return nil
		}
	}
}
