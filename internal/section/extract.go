package section

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// textFieldCandidates 是从对象型段落中取文本时依次尝试的字段。
var textFieldCandidates = []string{"text", "content", "description", "value"}

// ExtractText 把任意段落值降级为可展示的字符串，永远不会失败。
//
// 历史数据中有一部分段落被存成了 {"0":"H","1":"i"} 形式的逐字符对象，
// 这类对象会被拼回原字符串。
func ExtractText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		return objectText(v)
	case Data:
		return objectText(map[string]any(v))
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func objectText(obj map[string]any) string {
	if text, ok := CharObjectString(obj); ok {
		return text
	}
	for _, key := range textFieldCandidates {
		if raw, ok := obj[key]; ok {
			if text, ok := raw.(string); ok && text != "" {
				return text
			}
		}
	}
	encoded, err := json.Marshal(obj)
	if err != nil {
		return "[unreadable content]"
	}
	return string(encoded)
}

// CharObjectString 判断对象是否为逐字符编码的字符串，是则返回还原后的文本。
func CharObjectString(obj map[string]any) (string, bool) {
	if len(obj) == 0 {
		return "", false
	}
	var b strings.Builder
	for i := 0; i < len(obj); i++ {
		raw, ok := obj[strconv.Itoa(i)]
		if !ok {
			return "", false
		}
		char, ok := raw.(string)
		if !ok || utf8.RuneCountInString(char) != 1 {
			return "", false
		}
		b.WriteString(char)
	}
	return b.String(), true
}

// Paragraphs 把段落字段统一为字符串列表：数组逐项提取，单值视为一项，缺失返回 nil。
func Paragraphs(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, ExtractText(item))
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return []string{ExtractText(v)}
	}
}

// NormalizeLegacy 把 paragraphs 中逐字符编码的对象改写为普通字符串，返回是否有改动。
// 带 text/content 字段的对象保持原样。
func NormalizeLegacy(data Data) bool {
	if data == nil {
		return false
	}
	items, ok := data["paragraphs"].([]any)
	if !ok {
		return false
	}
	changed := false
	for i, item := range items {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		if text, ok := CharObjectString(obj); ok {
			items[i] = text
			changed = true
		}
	}
	return changed
}
