package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncruces/zenity"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/dxfstudio/command"
	"github.com/zooyer/dxfstudio/document"
	"github.com/zooyer/dxfstudio/internal/config"
)

// nativeExt 原生文档的扩展名
const nativeExt = ".dxfstudio"

var (
	dxfFilter    = zenity.FileFilter{Name: "DXF 图纸", Patterns: []string{"*.dxf"}}
	nativeFilter = zenity.FileFilter{Name: "dxfstudio 文档", Patterns: []string{"*" + nativeExt}}
)

type app struct {
	cfg    *config.Config
	log    *slog.Logger
	facade *command.Facade
}

// actions 命令行支持的动作及说明，顺序即对话框中的顺序
var actions = []struct {
	name, help string
}{
	{"import", "DXF 导入为原生文档"},
	{"export", "原生文档导出为 DXF"},
	{"convert", "DXF 重新导出为标准 DXF"},
	{"info", "查看图纸概要"},
}

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	opts := []command.Option{command.WithLogger(log), command.WithPrecision(cfg.Precision)}
	if cfg.Verify {
		opts = append(opts, command.WithVerifyExport(1e-9))
	}
	a := &app{cfg: cfg, log: log, facade: command.New(opts...)}

	if cfg.Interactive {
		defer xos.PauseExit()
	}

	if err := a.run(os.Args[1:]); err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			fmt.Println("已取消")
			return
		}
		fmt.Println("处理失败:", err)
		if !cfg.Interactive {
			os.Exit(1)
		}
		_ = zenity.Error(err.Error(), zenity.Title("dxfstudio"))
	}
}

func (a *app) run(args []string) error {
	var action string

	switch {
	case len(args) == 0:
		if !a.cfg.Interactive {
			return errors.New("用法: dxfstudio <import|export|convert|info> [输入文件] [输出文件]")
		}
		items := make([]string, len(actions))
		for i, act := range actions {
			items[i] = act.name + " - " + act.help
		}
		item, err := zenity.List("选择要执行的操作", items, zenity.Title("dxfstudio"))
		if err != nil {
			return err
		}
		action, _, _ = strings.Cut(item, " ")
	case isAction(args[0]):
		action, args = args[0], args[1:]
	default:
		// 把文件拖到程序上：DXF 导入，原生文档导出
		action = "export"
		if strings.EqualFold(filepath.Ext(args[0]), ".dxf") {
			action = "import"
		}
	}

	var in, out string
	if len(args) > 0 {
		in = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}

	switch action {
	case "import":
		return a.importDXF(in, out)
	case "export":
		return a.exportDXF(in, out)
	case "convert":
		return a.convert(in, out)
	case "info":
		return a.info(in)
	}
	return fmt.Errorf("未知操作: %s", action)
}

func isAction(s string) bool {
	for _, act := range actions {
		if act.name == s {
			return true
		}
	}
	return false
}

func (a *app) importDXF(in, out string) (err error) {
	if in, err = a.openPath(in, "选择 DXF 文件", dxfFilter); err != nil {
		return err
	}
	if out, err = a.savePath(out, replaceExt(in, nativeExt), "保存为", nativeFilter); err != nil {
		return err
	}

	imported, err := a.facade.ImportDXF(in)
	if err != nil {
		return err
	}
	a.report(in, imported.Warnings)

	if err = a.facade.SaveFile(imported.Document, out); err != nil {
		return err
	}
	fmt.Println("写入文件:", out)
	return nil
}

func (a *app) exportDXF(in, out string) (err error) {
	if in, err = a.openPath(in, "选择文档", nativeFilter); err != nil {
		return err
	}
	if out, err = a.savePath(out, replaceExt(in, ".dxf"), "导出为", dxfFilter); err != nil {
		return err
	}

	doc, err := a.facade.LoadFile(in)
	if err != nil {
		return err
	}
	if err = a.facade.ExportDXF(doc, out); err != nil {
		return err
	}
	fmt.Println("写入文件:", out)
	return nil
}

func (a *app) convert(in, out string) (err error) {
	if in, err = a.openPath(in, "选择 DXF 文件", dxfFilter); err != nil {
		return err
	}
	def := strings.TrimSuffix(in, filepath.Ext(in)) + "_out.dxf"
	if out, err = a.savePath(out, def, "导出为", dxfFilter); err != nil {
		return err
	}

	imported, err := a.facade.ImportDXF(in)
	if err != nil {
		return err
	}
	a.report(in, imported.Warnings)

	if err = a.facade.ExportDXF(imported.Document, out); err != nil {
		return err
	}
	fmt.Println("写入文件:", out)
	return nil
}

func (a *app) info(in string) (err error) {
	if in, err = a.openPath(in, "选择文件", dxfFilter, nativeFilter); err != nil {
		return err
	}

	var doc *document.Document
	if strings.EqualFold(filepath.Ext(in), ".dxf") {
		imported, err := a.facade.ImportDXF(in)
		if err != nil {
			return err
		}
		a.report(in, imported.Warnings)
		doc = imported.Document
	} else if doc, err = a.facade.LoadFile(in); err != nil {
		return err
	}

	d := doc.Drawing
	counts := make(map[string]int)
	for _, e := range d.Entities() {
		counts[e.Type()]++
	}
	ext := d.Extents()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", doc.Meta.Title, doc.Meta.ID)
	fmt.Fprintf(&sb, "图层: %d  块: %d  实体: %d\n", len(d.Layers()), len(d.Blocks()), len(d.Entities()))
	for _, typ := range []string{"LINE", "CIRCLE", "ARC", "LWPOLYLINE", "TEXT", "MTEXT", "INSERT"} {
		if counts[typ] > 0 {
			fmt.Fprintf(&sb, "    %-10s %d\n", typ, counts[typ])
		}
	}
	fmt.Fprintf(&sb, "范围: RECTANG %.2f,%.2f %.2f,%.2f\n", ext.Min.X, ext.Min.Y, ext.Max.X, ext.Max.Y)

	fmt.Print(sb.String())
	if a.cfg.Interactive {
		_ = zenity.Info(sb.String(), zenity.Title("dxfstudio"))
	}
	return nil
}

// report 打印导入警告，并按配置追加到警告日志
func (a *app) report(in string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("导入 %s: %d 条警告\n", in, len(warnings))
	for _, w := range warnings {
		fmt.Println("    ", w)
	}

	if a.cfg.WarningsLog == "" {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s\n", time.Now().Format(time.DateTime), in)
	for _, w := range warnings {
		sb.WriteString("    " + w + "\n")
	}
	if err := xos.AppendFile(a.cfg.WarningsLog, []byte(sb.String()), 0644); err != nil {
		a.log.Warn("write warnings log", "path", a.cfg.WarningsLog, "error", err)
	}
}

// openPath 路径为空时在交互模式下弹出文件选择框
func (a *app) openPath(path, title string, filters ...zenity.FileFilter) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	if !a.cfg.Interactive {
		return "", errors.New("缺少输入文件")
	}
	return zenity.SelectFile(zenity.Title(title), zenity.FileFilters(filters))
}

// savePath 路径为空时：交互模式弹出保存对话框，否则使用默认路径
func (a *app) savePath(path, def, title string, filter zenity.FileFilter) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	if !a.cfg.Interactive {
		return def, nil
	}
	return zenity.SelectFileSave(
		zenity.Title(title),
		zenity.Filename(def),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{filter},
	)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
