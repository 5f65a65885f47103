package core

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// BinarySentinel 是二进制 DXF 文件的固定前缀
const BinarySentinel = "AutoCAD Binary DXF\r\n\x1a\x00"

// IsBinary 判断数据是否为二进制 DXF
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, []byte(BinarySentinel))
}

// BinaryScanner 二进制格式 DXF(R13 及以后，组码占 2 字节)的扫描器
// 数值统一转换为文本形式保存在 Tag.Value 中，与文本扫描器的输出一致。
type BinaryScanner struct {
	reader  *bufio.Reader
	LastTag Tag
	offset  int64
	started bool
	err     error
}

func NewBinaryScanner(r io.Reader) *BinaryScanner {
	return &BinaryScanner{reader: bufio.NewReader(r)}
}

func (s *BinaryScanner) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	m, err := io.ReadFull(s.reader, buf)
	s.offset += int64(m)
	return buf, err
}

func (s *BinaryScanner) readString() (string, error) {
	b, err := s.reader.ReadBytes(0)
	s.offset += int64(len(b))
	if err != nil {
		return "", err
	}
	return string(b[:len(b)-1]), nil
}

func (s *BinaryScanner) fail(code int, err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = &TokenizeError{Kind: UnexpectedEof, Offset: s.offset, Code: code}
	} else {
		s.err = err
	}
	return false
}

func (s *BinaryScanner) Next() bool {
	if s.err != nil {
		return false
	}

	if !s.started {
		s.started = true
		head, err := s.read(len(BinarySentinel))
		if err != nil || string(head) != BinarySentinel {
			s.err = &TokenizeError{Kind: UnexpectedEof, Offset: s.offset, Value: "missing binary sentinel"}
			return false
		}
	}

	// 1. 组码，流在组码边界上结束是正常结束
	raw, err := s.read(2)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false
		}
		return s.fail(0, err)
	}
	code := int(binary.LittleEndian.Uint16(raw))

	// 2. 按组码类型读取值
	var value string
	switch TypeOf(code) {
	case Double:
		var b []byte
		if b, err = s.read(8); err == nil {
			value = strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)), 'g', -1, 64)
		}
	case Int16:
		var b []byte
		if b, err = s.read(2); err == nil {
			value = strconv.Itoa(int(int16(binary.LittleEndian.Uint16(b))))
		}
	case Int32:
		var b []byte
		if b, err = s.read(4); err == nil {
			value = strconv.Itoa(int(int32(binary.LittleEndian.Uint32(b))))
		}
	case Int64:
		var b []byte
		if b, err = s.read(8); err == nil {
			value = strconv.FormatInt(int64(binary.LittleEndian.Uint64(b)), 10)
		}
	case Bool:
		var b []byte
		if b, err = s.read(1); err == nil {
			value = strconv.Itoa(int(b[0]))
		}
	case Binary:
		var n []byte
		if n, err = s.read(1); err == nil {
			var b []byte
			if b, err = s.read(int(n[0])); err == nil {
				value = strings.ToUpper(hex.EncodeToString(b))
			}
		}
	default:
		value, err = s.readString()
	}
	if err != nil {
		return s.fail(code, err)
	}

	s.LastTag = Tag{Code: code, Value: value}
	return true
}

func (s *BinaryScanner) Tag() Tag {
	return s.LastTag
}

func (s *BinaryScanner) Err() error {
	return s.err
}
