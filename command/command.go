// Package command 是宿主程序调用引擎的唯一入口：保存、加载、导出 DXF、导入 DXF。
//
// 每个操作都把内部的错误(包括 panic)转换成 *Error，宿主只需要展示 Error.Message。
package command

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	dxf "github.com/zooyer/dxfstudio"
	"github.com/zooyer/dxfstudio/document"
)

const (
	SaveFileCommand  = "save_file"
	LoadFileCommand  = "load_file"
	ExportDXFCommand = "export_dxf"
	ImportDXFCommand = "import_dxf"
)

// Error 面向用户的错误，Message 可以直接显示
type Error struct {
	Command string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Command + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Option func(*Facade)

func WithLogger(l *slog.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.log = l
		}
	}
}

// WithPrecision 导出 DXF 时浮点数保留的有效数字，0 表示精确输出
func WithPrecision(digits int) Option {
	return func(f *Facade) {
		f.digits = digits
	}
}

// WithVerifyExport 导出后重新读取文件并与原图纸比较
func WithVerifyExport(epsilon float64) Option {
	return func(f *Facade) {
		f.verify = epsilon
	}
}

// Facade 只保存配置，没有调用之间的状态，可以并发使用
type Facade struct {
	log    *slog.Logger
	digits int
	verify float64
}

func New(opts ...Option) *Facade {
	f := &Facade{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) dxfOptions() []dxf.Option {
	return []dxf.Option{dxf.WithLogger(f.log), dxf.WithPrecision(f.digits)}
}

// fail 记录并包装错误
func (f *Facade) fail(command string, err error) *Error {
	f.log.Warn("command failed", "command", command, "error", err)
	return &Error{Command: command, Message: err.Error(), Err: err}
}

// guard 将 panic 转换为 *Error
func (f *Facade) guard(command string, err *error) {
	if r := recover(); r != nil {
		f.log.Error("command panic", "command", command, "panic", r, "stack", string(debug.Stack()))
		*err = &Error{Command: command, Message: fmt.Sprintf("internal error: %v", r)}
	}
}

// checkPath 路径不能为空或包含 NUL；ext 非空时要求对应的扩展名
func checkPath(command, path, ext string) error {
	if strings.TrimSpace(path) == "" {
		return &Error{Command: command, Message: "path is empty"}
	}
	if strings.ContainsRune(path, 0) {
		return &Error{Command: command, Message: "path contains NUL character"}
	}
	if ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		return &Error{Command: command, Message: fmt.Sprintf("%s: expected a %s file", path, ext)}
	}
	return nil
}

func checkDocument(command string, doc *document.Document) error {
	if doc == nil || doc.Drawing == nil {
		return &Error{Command: command, Message: "no document"}
	}
	return nil
}
