// Package document 负责图纸文档的原生保存和加载。
//
// 原生格式是带版本号的 JSON：
//
//	{"format":"dxfstudio","version":1,"meta":{...},"drawing":{...}}
//
// 加载时所有实体都经过 model 的构造和校验，损坏的文件不会得到半成品的图纸。
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zooyer/dxfstudio/model"
)

const (
	// Format 原生文件的格式标识
	Format = "dxfstudio"
	// Version 当前写出的格式版本，加载时只接受这一版本
	Version = 1
)

// Metadata 文档自身的信息，不属于图纸几何，导出 DXF 时不保留
type Metadata struct {
	ID       uuid.UUID
	Title    string
	Created  time.Time
	Modified time.Time
}

type Document struct {
	Meta    Metadata
	Drawing *model.Drawing
}

// New 创建新文档，drawing 为 nil 时使用空图纸
func New(title string, drawing *model.Drawing) *Document {
	if drawing == nil {
		drawing = model.NewDrawing()
	}
	now := time.Now().UTC()
	return &Document{
		Meta: Metadata{
			ID:       uuid.New(),
			Title:    title,
			Created:  now,
			Modified: now,
		},
		Drawing: drawing,
	}
}

// Save 原子地写入文件：先写同目录下的临时文件，成功后再改名覆盖目标文件
func Save(doc *Document, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		var pe *PersistError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return err
	}

	fail := func(err error) error {
		return &PersistError{Kind: IoFailure, Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err = tmp.Close(); err != nil {
		return fail(err)
	}
	if err = os.Rename(name, path); err != nil {
		return fail(err)
	}
	return nil
}

// Load 读取原生文件
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistError{Kind: IoFailure, Path: path, Err: err}
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		var pe *PersistError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Encode 将文档写成原生 JSON，写出前会重新校验图纸
func Encode(w io.Writer, doc *Document) error {
	if doc == nil || doc.Drawing == nil {
		return &PersistError{Kind: CorruptData, Err: errors.New("nil document")}
	}
	if err := doc.Drawing.Validate(); err != nil {
		return &PersistError{Kind: CorruptData, Err: err}
	}

	env, err := toEnvelope(doc)
	if err != nil {
		return &PersistError{Kind: CorruptData, Err: err}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(env); err != nil {
		return &PersistError{Kind: IoFailure, Err: err}
	}
	return nil
}

// Decode 从原生 JSON 重建文档
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &PersistError{Kind: IoFailure, Err: err}
	}

	// 先只读格式和版本，版本不对时不再解析其余部分
	var head struct {
		Format  string `json:"format"`
		Version int    `json:"version"`
	}
	if err = json.Unmarshal(data, &head); err != nil {
		return nil, &PersistError{Kind: CorruptData, Err: err}
	}
	if head.Format != Format {
		return nil, &PersistError{Kind: CorruptData, Err: fmt.Errorf("unknown format %q", head.Format)}
	}
	if head.Version != Version {
		return nil, &PersistError{Kind: VersionMismatch, Err: fmt.Errorf("file version %d, supported %d", head.Version, Version)}
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&env); err != nil {
		return nil, &PersistError{Kind: CorruptData, Err: err}
	}

	doc, err := fromEnvelope(env)
	if err != nil {
		return nil, &PersistError{Kind: CorruptData, Err: err}
	}
	return doc, nil
}
