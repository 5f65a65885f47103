package command

import (
	"errors"
	"sort"

	"github.com/zooyer/dxfstudio/document"
)

// Request 宿主传入的参数，Path 必须是已经解析好的绝对或相对路径
type Request struct {
	Path     string
	Document *document.Document
}

// Response 成功时携带结果，失败时 Error 为可显示的文本
type Response struct {
	Document *document.Document
	Warnings []string
	Error    string
}

func (r Response) OK() bool {
	return r.Error == ""
}

// Handler 执行一个命令
type Handler func(f *Facade, req Request) (Response, error)

// commands 宿主可以调用的全部命令，初始化后只读
var commands = map[string]Handler{
	SaveFileCommand: func(f *Facade, req Request) (Response, error) {
		return Response{}, f.SaveFile(req.Document, req.Path)
	},
	LoadFileCommand: func(f *Facade, req Request) (Response, error) {
		doc, err := f.LoadFile(req.Path)
		return Response{Document: doc}, err
	},
	ExportDXFCommand: func(f *Facade, req Request) (Response, error) {
		return Response{}, f.ExportDXF(req.Document, req.Path)
	},
	ImportDXFCommand: func(f *Facade, req Request) (Response, error) {
		imported, err := f.ImportDXF(req.Path)
		if err != nil {
			return Response{}, err
		}
		return Response{Document: imported.Document, Warnings: imported.Warnings}, nil
	},
}

// Names 返回排序后的命令名称
func Names() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup 按名称查找命令
func Lookup(name string) (Handler, bool) {
	handler, ok := commands[name]
	return handler, ok
}

// Invoke 按名称执行命令，任何失败都转换成 Response.Error
func (f *Facade) Invoke(name string, req Request) Response {
	handler, ok := Lookup(name)
	if !ok {
		return Response{Error: (&Error{Command: name, Message: "unknown command"}).Error()}
	}

	resp, err := handler(f, req)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return Response{Error: ce.Message}
		}
		return Response{Error: err.Error()}
	}
	return resp
}
