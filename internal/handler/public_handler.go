package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/locale"
	"github.com/sitecraft/internal/render"
	"github.com/sitecraft/internal/service"
	"go.uber.org/zap"
)

// ShowSite 渲染已发布的网站。也用作 NoRoute，此时从路径中取 slug
func (a *API) ShowSite(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		a.NotFound(c)
		return
	}
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		slug = strings.Trim(c.Request.URL.Path, "/")
	}
	if slug == "" || strings.Contains(slug, "/") {
		a.NotFound(c)
		return
	}
	site, sections, err := a.persist.LoadPublished(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrWebsiteNotFound) {
			a.NotFound(c)
			return
		}
		a.logger.Error("load published site failed", zap.String("slug", slug), zap.Error(err))
		c.Error(err)
		c.String(http.StatusInternalServerError, locale.Text(a.requestLocale(c).Language, locale.MsgInternal))
		return
	}

	body, err := a.renderer.RenderPage(render.Page{
		Title:       site.Name,
		Lang:        locale.PreferenceForLanguage(site.Language).HTMLLang,
		Description: site.Description,
	}, sections, render.Options{PreviewMode: true})
	if err != nil {
		a.logger.Error("render published site failed", zap.String("slug", slug), zap.Error(err))
		c.Error(err)
		c.String(http.StatusInternalServerError, locale.Text(a.requestLocale(c).Language, locale.MsgInternal))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// NotFound 渲染 404 页面
func (a *API) NotFound(c *gin.Context) {
	pref := a.requestLocale(c)
	body, err := a.renderer.RenderNotFound(render.Page{
		Title:       locale.Text(pref.Language, locale.MsgPageNotFound),
		Lang:        pref.HTMLLang,
		Description: locale.Text(pref.Language, locale.MsgPageNotFoundHint),
	})
	if err != nil {
		c.Error(err)
		c.String(http.StatusNotFound, locale.Text(pref.Language, locale.MsgPageNotFound))
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
}
