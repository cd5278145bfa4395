package section

import (
	"fmt"
	"strconv"
	"strings"
)

// Content 是按区块类型解码后的强类型视图。
type Content interface {
	SectionType() Type
}

type Link struct {
	Text string
	URL  string
}

type SocialLink struct {
	Icon string
	URL  string
}

type CTAButton struct {
	Text    string
	URL     string
	Variant string
}

type NavbarData struct {
	Logo            string
	TabLogo         string
	Title           string
	Links           []Link
	SocialLinks     []SocialLink
	BackgroundColor string
}

type HeroData struct {
	BackgroundImage   string
	BackgroundOpacity float64
	Title             string
	Subtitle          string
	Paragraphs        []string
	CTAButtons        []CTAButton
	VideoURL          string
	VideoThumbnail    string
}

type TeamMember struct {
	Name  string
	Role  string
	Image string
}

type AboutData struct {
	Image           string
	Title           string
	Paragraphs      []string
	BackgroundColor string
	TeamMembers     []TeamMember
}

type Service struct {
	Icon        string
	Title       string
	Description string
}

type ServicesData struct {
	BackgroundImage string
	Title           string
	Subtitle        string
	Services        []Service
	BackgroundColor string
}

type Tour struct {
	Image       string
	Title       string
	Description string
	Price       string
	Duration    string
	URL         string
}

type FeaturedToursData struct {
	Title           string
	Subtitle        string
	Tours           []Tour
	BackgroundColor string
}

type FooterColumn struct {
	Title string
	Items []Link
}

type FooterData struct {
	BackgroundColor string
	Logo            string
	Links           []FooterColumn
	SocialLinks     []SocialLink
	Copyright       string
}

func (NavbarData) SectionType() Type        { return TypeNavbar }
func (HeroData) SectionType() Type          { return TypeHero }
func (AboutData) SectionType() Type         { return TypeAbout }
func (ServicesData) SectionType() Type      { return TypeServices }
func (FeaturedToursData) SectionType() Type { return TypeFeaturedTours }
func (FooterData) SectionType() Type        { return TypeFooter }

// Decode 把区块原始数据解码为对应类型的视图。
// 字段缺失或类型不符时取零值，只有未知区块类型会返回错误。
func Decode(t Type, data Data) (Content, error) {
	switch t {
	case TypeNavbar:
		return NavbarData{
			Logo:            text(data, "logo"),
			TabLogo:         text(data, "tabLogo"),
			Title:           text(data, "title"),
			Links:           links(data["links"]),
			SocialLinks:     socialLinks(data["socialLinks"]),
			BackgroundColor: text(data, "backgroundColor"),
		}, nil
	case TypeHero:
		hero := HeroData{
			BackgroundImage:   text(data, "backgroundImage"),
			BackgroundOpacity: number(data["backgroundOpacity"], 0.7),
			Title:             text(data, "title"),
			Subtitle:          text(data, "subtitle"),
			Paragraphs:        Paragraphs(data["paragraphs"]),
			VideoURL:          text(data, "videoUrl"),
			VideoThumbnail:    text(data, "videoThumbnail"),
		}
		for _, item := range objects(data["ctaButtons"]) {
			hero.CTAButtons = append(hero.CTAButtons, CTAButton{
				Text:    text(item, "text"),
				URL:     text(item, "url"),
				Variant: text(item, "variant"),
			})
		}
		// 旧数据只有单个 ctaText/ctaLink。
		if len(hero.CTAButtons) == 0 && text(data, "ctaText") != "" {
			hero.CTAButtons = []CTAButton{{Text: text(data, "ctaText"), URL: text(data, "ctaLink"), Variant: "default"}}
		}
		return hero, nil
	case TypeAbout:
		about := AboutData{
			Image:           text(data, "image"),
			Title:           text(data, "title"),
			Paragraphs:      Paragraphs(data["paragraphs"]),
			BackgroundColor: text(data, "backgroundColor"),
		}
		for _, item := range objects(data["teamMembers"]) {
			about.TeamMembers = append(about.TeamMembers, TeamMember{
				Name:  text(item, "name"),
				Role:  text(item, "role"),
				Image: text(item, "image"),
			})
		}
		return about, nil
	case TypeServices:
		services := ServicesData{
			BackgroundImage: text(data, "backgroundImage"),
			Title:           text(data, "title"),
			Subtitle:        text(data, "subtitle"),
			BackgroundColor: text(data, "backgroundColor"),
		}
		for _, item := range objects(data["services"]) {
			services.Services = append(services.Services, Service{
				Icon:        text(item, "icon"),
				Title:       text(item, "title"),
				Description: text(item, "description"),
			})
		}
		return services, nil
	case TypeFeaturedTours:
		tours := FeaturedToursData{
			Title:           text(data, "title"),
			Subtitle:        text(data, "subtitle"),
			BackgroundColor: text(data, "backgroundColor"),
		}
		for _, item := range objects(data["tours"]) {
			tours.Tours = append(tours.Tours, Tour{
				Image:       text(item, "image"),
				Title:       text(item, "title"),
				Description: text(item, "description"),
				Price:       text(item, "price"),
				Duration:    text(item, "duration"),
				URL:         text(item, "url"),
			})
		}
		return tours, nil
	case TypeFooter:
		footer := FooterData{
			BackgroundColor: text(data, "backgroundColor"),
			Logo:            text(data, "logo"),
			SocialLinks:     socialLinks(data["socialLinks"]),
			Copyright:       text(data, "copyright"),
		}
		for _, item := range objects(data["links"]) {
			footer.Links = append(footer.Links, FooterColumn{
				Title: text(item, "title"),
				Items: links(item["items"]),
			})
		}
		return footer, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, string(t))
	}
}

func text(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	return strings.TrimSpace(ExtractText(data[key]))
}

func number(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func objects(value any) []map[string]any {
	items := arrayValue(value)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := asObject(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

func links(value any) []Link {
	var out []Link
	for _, item := range objects(value) {
		out = append(out, Link{Text: text(item, "text"), URL: text(item, "url")})
	}
	return out
}

func socialLinks(value any) []SocialLink {
	var out []SocialLink
	for _, item := range objects(value) {
		out = append(out, SocialLink{Icon: text(item, "icon"), URL: text(item, "url")})
	}
	return out
}
