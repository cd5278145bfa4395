package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/sitecraft/internal/section"
)

// Page 是整页渲染时的页面信息。
type Page struct {
	Title       string
	Lang        string
	Description string
}

type pageView struct {
	Page
	Favicon string
	Preview bool
	Body    template.HTML
}

// RenderPage 把区块包装成完整的 HTML 文档。
func (r *Renderer) RenderPage(page Page, sections []section.Section, opts Options) ([]byte, error) {
	if strings.TrimSpace(page.Lang) == "" {
		page.Lang = "zh-CN"
	}
	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "page", pageView{
		Page:    page,
		Favicon: Favicon(sections),
		Preview: opts.PreviewMode,
		Body:    r.Render(sections, opts),
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Favicon 取导航栏的 tabLogo，没有时退回 logo。
func Favicon(sections []section.Section) string {
	for _, sec := range section.SortByOrder(sections) {
		if sec.Type != section.TypeNavbar {
			continue
		}
		if icon := strings.TrimSpace(section.ExtractText(sec.Data["tabLogo"])); icon != "" {
			return icon
		}
		if logo := strings.TrimSpace(section.ExtractText(sec.Data["logo"])); logo != "" {
			return logo
		}
		return ""
	}
	return ""
}

// RenderNotFound 渲染站点不存在时的 404 页面，Description 作为提示文字。
func (r *Renderer) RenderNotFound(page Page) ([]byte, error) {
	if strings.TrimSpace(page.Lang) == "" {
		page.Lang = "zh-CN"
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "not-found", page); err != nil {
		return nil, fmt.Errorf("render not found page: %w", err)
	}
	return buf.Bytes(), nil
}
