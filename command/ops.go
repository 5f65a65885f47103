package command

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	dxf "github.com/zooyer/dxfstudio"
	"github.com/zooyer/dxfstudio/document"
	"github.com/zooyer/dxfstudio/model"
)

// Imported 导入 DXF 的结果，Warnings 为可读的警告文本
type Imported struct {
	Document *document.Document
	Warnings []string
}

// SaveFile 保存为原生格式，保存的副本带有新的修改时间
func (f *Facade) SaveFile(doc *document.Document, path string) (err error) {
	defer f.guard(SaveFileCommand, &err)

	if err = checkPath(SaveFileCommand, path, ""); err != nil {
		return err
	}
	if err = checkDocument(SaveFileCommand, doc); err != nil {
		return err
	}

	saved := *doc
	saved.Meta.Modified = time.Now().UTC()
	if e := document.Save(&saved, path); e != nil {
		return f.fail(SaveFileCommand, e)
	}
	f.log.Info("document saved", "path", path, "id", saved.Meta.ID, "entities", len(saved.Drawing.Entities()))
	return nil
}

// LoadFile 加载原生格式文件
func (f *Facade) LoadFile(path string) (doc *document.Document, err error) {
	defer f.guard(LoadFileCommand, &err)

	if err = checkPath(LoadFileCommand, path, ""); err != nil {
		return nil, err
	}
	doc, e := document.Load(path)
	if e != nil {
		return nil, f.fail(LoadFileCommand, e)
	}
	f.log.Info("document loaded", "path", path, "id", doc.Meta.ID, "entities", len(doc.Drawing.Entities()))
	return doc, nil
}

// ExportDXF 导出为 DXF 文件，文档元数据不写入 DXF
func (f *Facade) ExportDXF(doc *document.Document, path string) (err error) {
	defer f.guard(ExportDXFCommand, &err)

	if err = checkPath(ExportDXFCommand, path, ".dxf"); err != nil {
		return err
	}
	if err = checkDocument(ExportDXFCommand, doc); err != nil {
		return err
	}

	if e := dxf.Create(path, doc.Drawing, f.dxfOptions()...); e != nil {
		return f.fail(ExportDXFCommand, e)
	}

	if f.verify > 0 {
		res, e := dxf.Open(path, dxf.WithLogger(f.log))
		if e != nil {
			return f.fail(ExportDXFCommand, fmt.Errorf("verify export: %w", e))
		}
		if diff := model.Diff(doc.Drawing, res.Drawing, f.verify); diff != "" {
			return f.fail(ExportDXFCommand, fmt.Errorf("verify export: %s", diff))
		}
	}
	f.log.Info("dxf exported", "path", path, "entities", len(doc.Drawing.Entities()))
	return nil
}

// ImportDXF 从 DXF 文件创建新文档，标题取文件名
func (f *Facade) ImportDXF(path string) (imported *Imported, err error) {
	defer f.guard(ImportDXFCommand, &err)

	if err = checkPath(ImportDXFCommand, path, ".dxf"); err != nil {
		return nil, err
	}

	res, e := dxf.Open(path, f.dxfOptions()...)
	if e != nil {
		return nil, f.fail(ImportDXFCommand, e)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	imported = &Imported{Document: document.New(title, res.Drawing)}
	for _, w := range res.Warnings {
		imported.Warnings = append(imported.Warnings, w.String())
	}
	f.log.Info("dxf imported", "path", path, "version", res.Version,
		"entities", len(res.Drawing.Entities()), "warnings", len(res.Warnings))
	return imported, nil
}
