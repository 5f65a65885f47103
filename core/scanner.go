package core

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Source 是按顺序拉取标签的数据源，只能从头到尾读一遍
type Source interface {
	Next() bool
	Tag() Tag
	Err() error
}

// Scanner 文本格式 DXF 的词法扫描器：每两行(组码行 + 值行)产生一个 Tag
type Scanner struct {
	reader  *bufio.Reader
	LastTag Tag
	line    int
	err     error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// readLine 读取一行并去掉行尾的 \r\n 或 \n；最后一行可以没有换行符
func (s *Scanner) readLine() (string, bool) {
	line, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err != io.EOF {
			s.err = err
		}
		return "", false
	}
	s.line++
	if s.line == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	// 1. 读取 Code 行，跳过空行
	var codeStr string
	for {
		line, ok := s.readLine()
		if !ok {
			return false
		}
		if codeStr = strings.TrimSpace(line); codeStr != "" {
			break
		}
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.err = &TokenizeError{Kind: MalformedNumber, Line: s.line, Value: codeStr, Err: err}
		return false
	}
	codeLine := s.line

	// 2. 读取 Value 行
	value, ok := s.readLine()
	if !ok {
		if s.err == nil {
			s.err = &TokenizeError{Kind: UnpairedGroupCode, Line: codeLine, Code: code}
		}
		return false
	}

	// 数值去掉两侧空格并校验；字符串保留原样(DXF 规范要求保留开头的空格)
	if typ := TypeOf(code); typ.IsNumeric() {
		value = strings.TrimSpace(value)
		if err := checkNumber(typ, value); err != nil {
			s.err = &TokenizeError{Kind: MalformedNumber, Line: s.line, Code: code, Value: value, Err: err}
			return false
		}
	}

	s.LastTag = Tag{Code: code, Value: value}
	return true
}

func (s *Scanner) Tag() Tag {
	return s.LastTag
}

// Line 返回最近读取的行号
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Err() error {
	return s.err
}

func checkNumber(typ ValueType, value string) error {
	var err error
	switch typ {
	case Double:
		_, err = strconv.ParseFloat(value, 64)
	case Int16, Int32:
		_, err = strconv.ParseInt(value, 10, 32)
	case Int64, Bool:
		_, err = strconv.ParseInt(value, 10, 64)
	}
	return err
}

// TagSource 将已有的标签切片包装成 Source
type TagSource struct {
	tags []Tag
	pos  int
}

func NewTagSource(tags []Tag) *TagSource {
	return &TagSource{tags: tags, pos: -1}
}

func (t *TagSource) Next() bool {
	if t.pos+1 >= len(t.tags) {
		t.pos = len(t.tags)
		return false
	}
	t.pos++
	return true
}

func (t *TagSource) Tag() Tag {
	if t.pos < 0 || t.pos >= len(t.tags) {
		return Tag{}
	}
	return t.tags[t.pos]
}

func (t *TagSource) Err() error {
	return nil
}
