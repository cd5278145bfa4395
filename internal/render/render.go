// Package render 把有序区块渲染为 HTML。
//
// 每个区块独立渲染：某个区块模板出错或 panic 时只替换为占位块，
// 其余区块照常输出。编辑模式下每个区块外层带有操作按钮。
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/variant"
	"github.com/sitecraft/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options 控制渲染模式。
type Options struct {
	PreviewMode bool
}

// SectionView 是传给区块模板的数据。
type SectionView struct {
	ID      string
	Type    section.Type
	Variant string
	Content section.Content
	Preview bool
}

// ComponentFunc 渲染单个区块组件。
type ComponentFunc func(w io.Writer, v SectionView) error

// Renderer 持有解析好的模板，可被多个请求并发使用。
type Renderer struct {
	tmpl      *template.Template
	logger    *zap.Logger
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy

	mu        sync.RWMutex
	overrides map[string]ComponentFunc
}

// New 解析内嵌模板。logger 为 nil 时不输出日志。
func New(logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{
		logger: logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
		overrides: map[string]ComponentFunc{},
	}

	tmpl, err := template.New("render").Funcs(template.FuncMap{
		"markdown":   r.renderMarkdown,
		"social":     view.SocialIconSVG,
		"videoEmbed": videoEmbedFor,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse section templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Register 用自定义函数替换某个组件的模板。
func (r *Renderer) Register(component string, fn ComponentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.overrides, component)
		return
	}
	r.overrides[component] = fn
}

// Render 按 order 渲染全部区块。
func (r *Renderer) Render(sections []section.Section, opts Options) template.HTML {
	var out bytes.Buffer
	for _, sec := range section.SortByOrder(sections) {
		body := r.renderSection(sec, opts)
		if opts.PreviewMode {
			out.WriteString(string(body))
			continue
		}
		if err := r.tmpl.ExecuteTemplate(&out, "overlay", overlayView{
			ID:   sec.ID,
			Type: sec.Type,
			Body: body,
		}); err != nil {
			r.logger.Error("render overlay failed", zap.String("section_id", sec.ID), zap.Error(err))
			out.WriteString(string(body))
		}
	}
	return template.HTML(out.String())
}

type overlayView struct {
	ID   string
	Type section.Type
	Body template.HTML
}

func (r *Renderer) renderSection(sec section.Section, opts Options) (out template.HTML) {
	var buf bytes.Buffer
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("section renderer panicked",
				zap.String("section_id", sec.ID),
				zap.String("section_type", string(sec.Type)),
				zap.Any("panic", rec),
			)
			out = r.placeholder(sec)
		}
	}()

	v, err := variant.ForSection(sec)
	if err != nil {
		r.logger.Warn("skip section with unknown type", zap.String("section_id", sec.ID), zap.Error(err))
		return r.placeholder(sec)
	}

	content, err := section.Decode(sec.Type, withDefaults(sec.Data, v.DefaultData()))
	if err != nil {
		r.logger.Warn("decode section failed", zap.String("section_id", sec.ID), zap.Error(err))
		return r.placeholder(sec)
	}

	sv := SectionView{
		ID:      sec.ID,
		Type:    sec.Type,
		Variant: v.ID,
		Content: content,
		Preview: opts.PreviewMode,
	}

	r.mu.RLock()
	override, ok := r.overrides[v.Component]
	r.mu.RUnlock()
	if ok {
		err = override(&buf, sv)
	} else {
		err = r.tmpl.ExecuteTemplate(&buf, v.Component, sv)
	}
	if err != nil {
		r.logger.Error("render section failed",
			zap.String("section_id", sec.ID),
			zap.String("component", v.Component),
			zap.Error(err),
		)
		return r.placeholder(sec)
	}
	return template.HTML(buf.String())
}

func (r *Renderer) placeholder(sec section.Section) template.HTML {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "section-error", sec); err != nil {
		return template.HTML(`<div class="section-error"></div>`)
	}
	return template.HTML(buf.String())
}

// withDefaults 把变体默认数据浅合并到缺失的字段下。
func withDefaults(data, defaults section.Data) section.Data {
	merged := make(section.Data, len(data)+len(defaults))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range data {
		if value == nil {
			continue
		}
		merged[key] = value
	}
	return merged
}

func (r *Renderer) renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes()))
}
