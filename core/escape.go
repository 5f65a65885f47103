package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// EscapeUnicode 将非 ASCII 字符转换为 DXF 的 \U+XXXX 转义，
// BMP 之外的字符按 UTF-16 代理对写成两个转义。
func EscapeUnicode(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var sb strings.Builder
	for _, r := range s {
		switch {
		case r < 0x80:
			sb.WriteRune(r)
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, "\\U+%04X\\U+%04X", r1, r2)
		default:
			fmt.Fprintf(&sb, "\\U+%04X", r)
		}
	}
	return sb.String()
}

// UnescapeUnicode 还原 \U+XXXX 转义
func UnescapeUnicode(s string) string {
	if !strings.Contains(s, `\U+`) && !strings.Contains(s, `\u+`) {
		return s
	}

	var (
		sb    strings.Builder
		units []uint16
	)
	flush := func() {
		if len(units) > 0 {
			sb.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}
	for i := 0; i < len(s); {
		if i+7 <= len(s) && s[i] == '\\' && (s[i+1] == 'U' || s[i+1] == 'u') && s[i+2] == '+' {
			if v, err := strconv.ParseUint(s[i+3:i+7], 16, 16); err == nil {
				units = append(units, uint16(v))
				i += 7
				continue
			}
		}
		flush()
		sb.WriteByte(s[i])
		i++
	}
	flush()
	return sb.String()
}
