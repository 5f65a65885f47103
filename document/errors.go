package document

import "fmt"

type ErrorKind int

const (
	IoFailure ErrorKind = iota + 1
	CorruptData
	VersionMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case IoFailure:
		return "i/o failure"
	case CorruptData:
		return "corrupt data"
	case VersionMismatch:
		return "version mismatch"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// PersistError 保存或加载原生文档失败
type PersistError struct {
	Kind ErrorKind
	Path string // 流式读写时为空
	Err  error
}

func (e *PersistError) Error() string {
	s := "document: " + e.Kind.String()
	if e.Path != "" {
		s += " " + e.Path
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
