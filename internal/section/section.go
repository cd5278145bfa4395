// Package section 维护网站页面的有序区块模型：区块类型、默认数据、
// 编辑中的内存 Store 以及编辑面板的会话状态。
package section

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Type 是区块的类型标识，取值为固定的封闭集合。
type Type string

const (
	TypeNavbar        Type = "navbar"
	TypeHero          Type = "hero"
	TypeAbout         Type = "about"
	TypeServices      Type = "services"
	TypeFeaturedTours Type = "featuredTours"
	TypeFooter        Type = "footer"
)

// VariantKey 是区块数据中记录所选变体的字段名。
const VariantKey = "variantId"

var (
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrSectionNotFound    = errors.New("section not found")
)

var allTypes = []Type{
	TypeNavbar,
	TypeHero,
	TypeAbout,
	TypeServices,
	TypeFeaturedTours,
	TypeFooter,
}

// Types 返回全部区块类型，顺序即模板的默认排列顺序。
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// Valid 判断类型是否属于封闭集合。
func (t Type) Valid() bool {
	for _, candidate := range allTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Data 是区块的原始数据，结构随类型和变体变化。
type Data map[string]any

// Section 是页面中的一个有序区块。
type Section struct {
	ID    string  `json:"id"`
	Type  Type    `json:"type"`
	Order float64 `json:"order"`
	Data  Data    `json:"data"`
}

// VariantID 返回区块声明的变体，未设置时为空串。
func (s Section) VariantID() string {
	if s.Data == nil {
		return ""
	}
	value, _ := s.Data[VariantKey].(string)
	return strings.TrimSpace(value)
}

// Clone 深拷贝区块，避免调用方修改 Store 内部状态。
func (s Section) Clone() Section {
	s.Data = CloneData(s.Data)
	return s
}

// Document 是一个网站在编辑期间的完整模板状态。
type Document struct {
	WebsiteID    uint      `json:"websiteId"`
	Name         string    `json:"name"`
	TemplateType string    `json:"templateType"`
	Sections     []Section `json:"sections"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Clone 深拷贝整个文档。
func (d Document) Clone() Document {
	sections := make([]Section, len(d.Sections))
	for i, sec := range d.Sections {
		sections[i] = sec.Clone()
	}
	d.Sections = sections
	return d
}

// SortByOrder 返回按 order 升序排列的副本，order 相同时保持原有顺序。
func SortByOrder(sections []Section) []Section {
	sorted := append([]Section(nil), sections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// IDs 返回区块 id 集合。
func IDs(sections []Section) map[string]struct{} {
	ids := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		ids[sec.ID] = struct{}{}
	}
	return ids
}

// CloneData 递归复制 JSON 风格的数据结构。
func CloneData(data Data) Data {
	if data == nil {
		return nil
	}
	out := make(Data, len(data))
	for key, value := range data {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Data:
		return CloneData(v)
	case map[string]any:
		return map[string]any(CloneData(Data(v)))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
