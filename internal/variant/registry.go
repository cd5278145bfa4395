// Package variant 描述每种区块可选的版式变体，以及编辑面板所需的字段结构。
package variant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sitecraft/internal/section"
)

// OriginalID 是每种区块都具备的兜底变体。
const OriginalID = "original"

var ErrUnknownVariant = errors.New("unknown variant")

// Variant 是区块的一种版式。
type Variant struct {
	ID           string       `json:"id"`
	Type         section.Type `json:"type"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	PreviewImage string       `json:"previewImage"`
	Component    string       `json:"component"`
	Editor       []Field      `json:"editor"`

	defaults section.Data
}

// DefaultData 返回该变体默认数据的深拷贝。
func (v Variant) DefaultData() section.Data {
	if v.defaults != nil {
		return section.CloneData(v.defaults)
	}
	data, err := section.DefaultData(v.Type)
	if err != nil {
		return section.Data{}
	}
	return data
}

var registry = map[section.Type][]Variant{}

func register(variants ...Variant) {
	for _, v := range variants {
		registry[v.Type] = append(registry[v.Type], v)
	}
}

func init() {
	register(
		Variant{
			ID: OriginalID, Type: section.TypeNavbar, Name: "Navbar",
			Description: "Logo, title, navigation links and social icons",
			Component:   "navbar", Editor: navbarFields,
		},
		Variant{
			ID: OriginalID, Type: section.TypeServices, Name: "Services",
			Description: "Grid of service cards over a background image",
			Component:   "services", Editor: servicesFields,
		},
		Variant{
			ID: OriginalID, Type: section.TypeFeaturedTours, Name: "Featured Tours",
			Description: "Cards for highlighted tours with price and duration",
			Component:   "featured-tours", Editor: featuredToursFields,
		},
		Variant{
			ID: OriginalID, Type: section.TypeFooter, Name: "Footer",
			Description: "Link columns, social icons and copyright",
			Component:   "footer", Editor: footerFields,
		},
	)
	register(heroVariants()...)
	register(aboutVariants()...)
}

// Resolve 返回区块应使用的变体。variantID 为空或未知时回退到 original；
// 类型不在封闭集合内时返回 section.ErrUnknownSectionType。
func Resolve(t section.Type, variantID string) (Variant, error) {
	variants, ok := registry[t]
	if !ok || len(variants) == 0 {
		return Variant{}, fmt.Errorf("%w: %q", section.ErrUnknownSectionType, string(t))
	}
	if v, ok := lookup(variants, variantID); ok {
		return v, nil
	}
	if v, ok := lookup(variants, OriginalID); ok {
		return v, nil
	}
	return variants[0], nil
}

// ForSection 是 Resolve 的便捷形式。
func ForSection(sec section.Section) (Variant, error) {
	return Resolve(sec.Type, sec.VariantID())
}

// Variants 列出某类型的全部变体，original 总是排在第一位。
func Variants(t section.Type) []Variant {
	return append([]Variant(nil), registry[t]...)
}

// All 按区块类型返回全部变体。
func All() map[section.Type][]Variant {
	all := make(map[section.Type][]Variant, len(registry))
	for _, t := range section.Types() {
		all[t] = Variants(t)
	}
	return all
}

// Find 精确查找变体，不做回退。
func Find(t section.Type, variantID string) (Variant, error) {
	variants, ok := registry[t]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", section.ErrUnknownSectionType, string(t))
	}
	v, ok := lookup(variants, variantID)
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, t, variantID)
	}
	return v, nil
}

// Select 用变体的默认数据整体替换区块数据，并记录 variantId。
// 之前的内容会被丢弃。变体不存在时数据保持不变。
func Select(store *section.Store, sectionID, variantID string) (section.Section, error) {
	sec, ok := store.Section(sectionID)
	if !ok {
		return section.Section{}, section.ErrSectionNotFound
	}
	v, err := Find(sec.Type, variantID)
	if err != nil {
		return section.Section{}, err
	}

	data := v.DefaultData()
	data[section.VariantKey] = v.ID
	store.ReplaceData(sectionID, data)

	updated, _ := store.Section(sectionID)
	return updated, nil
}

func lookup(variants []Variant, id string) (Variant, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Variant{}, false
	}
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
