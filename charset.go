package dxf

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/zooyer/dxfstudio/core"
)

// DefaultCodePage 为缺少 $DWGCODEPAGE 时使用的代码页
const DefaultCodePage = "ANSI_1252"

var codePages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
	"DOS437":    charmap.CodePage437,
	"DOS850":    charmap.CodePage850,
	"DOS866":    charmap.CodePage866,
	"ISO8859-1": charmap.ISO8859_1,
	"GB2312":    simplifiedchinese.GBK,
	"BIG5":      traditionalchinese.Big5,
}

// findCodePage 在原始数据中查找 $DWGCODEPAGE 的值
func findCodePage(data []byte) string {
	i := bytes.Index(data, []byte("$DWGCODEPAGE"))
	if i < 0 {
		return ""
	}
	s := core.NewScanner(bytes.NewReader(data[i+len("$DWGCODEPAGE"):]))
	if s.Next() && s.LastTag.Code == 3 {
		return strings.ToUpper(s.LastTag.AsString())
	}
	return ""
}

// toUTF8 文本 DXF 不是合法 UTF-8 时按代码页转换；R2007 以后的文件本身就是 UTF-8
func toUTF8(data []byte) ([]byte, string, error) {
	if utf8.Valid(data) {
		return data, "", nil
	}

	page := findCodePage(data)
	enc, ok := codePages[page]
	if !ok {
		page = DefaultCodePage
		enc = codePages[page]
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, page, err
	}
	return out, page, nil
}
