package entities

import (
	"math"
	"strings"

	"github.com/zooyer/dxfstudio/core"
	"github.com/zooyer/dxfstudio/model"
)

// DXF 中每个值最多 250 个字符，更长的多行文字用组码 3 分段
const chunkSize = 250

func decodeMText(r Record) (model.Entity, error) {
	pos, err := r.Point(10)
	if err != nil {
		return nil, err
	}
	height, err := r.RequireFloat(40)
	if err != nil {
		return nil, err
	}

	// 组码 3 为前面的分段，组码 1 为最后一段
	var sb strings.Builder
	for _, t := range r.Tags {
		if t.Code == 3 {
			sb.WriteString(t.Value)
		}
	}
	sb.WriteString(r.Str(1, ""))

	// 没有旋转角时使用 X 方向向量(11/21)
	rotation := r.Float(50, 0)
	if _, ok := r.Lookup(50); !ok {
		if _, ok := r.Lookup(11); ok {
			rotation = math.Atan2(r.Float(21, 0), r.Float(11, 1)) * 180 / math.Pi
		}
	}

	return model.Text{
		Base:      r.Base(),
		Position:  pos,
		Height:    height,
		Rotation:  model.NormalizeAngle(rotation),
		Value:     strings.ReplaceAll(sb.String(), `\P`, "\n"),
		Style:     styleName(r),
		Multiline: true,
	}, nil
}

func encodeMText(e model.Entity) ([]core.Tag, error) {
	t, ok := e.(model.Text)
	if !ok || !t.Multiline {
		return nil, wrongType("MTEXT", e)
	}
	tags := encodeBase("MTEXT", t.Base)
	tags = append(tags, core.Str(100, "AcDbMText"))
	tags = append(tags, point(10, t.Position)...)
	tags = append(tags, core.Float(40, t.Height))

	chunks := splitChunks(core.EscapeUnicode(strings.ReplaceAll(t.Value, "\n", `\P`)))
	for _, c := range chunks[:len(chunks)-1] {
		tags = append(tags, core.Str(3, c))
	}
	tags = append(tags, core.Str(1, chunks[len(chunks)-1]))

	if t.Style != "" {
		tags = append(tags, core.Str(7, t.Style))
	}
	if t.Rotation != 0 {
		tags = append(tags, core.Float(50, t.Rotation))
	}
	return tags, nil
}

func isHighSurrogate(esc string) bool {
	return len(esc) == 7 && (strings.HasPrefix(esc, `\U+D`) || strings.HasPrefix(esc, `\u+D`)) && strings.ContainsRune("89ABab", rune(esc[4]))
}

// splitChunks 按 chunkSize 切分，不在 \U+XXXX 或 \P 转义中间断开；至少返回一段
func splitChunks(s string) []string {
	var chunks []string
	for len(s) > chunkSize {
		n := chunkSize
		if i := strings.LastIndexByte(s[n-6:n], '\\'); i >= 0 {
			n = n - 6 + i
		}
		// 代理对的两个转义放在同一段
		if n >= 7 && isHighSurrogate(s[n-7:n]) {
			n -= 7
		}
		chunks = append(chunks, s[:n])
		s = s[n:]
	}
	return append(chunks, s)
}
