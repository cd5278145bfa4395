package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/service"
	"github.com/sitecraft/internal/variant"
	"go.uber.org/zap"
)

type websiteRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Slug         string `json:"slug"`
	TemplateType string `json:"templateType"`
	Language     string `json:"language"`
}

func (r websiteRequest) input() service.WebsiteInput {
	return service.WebsiteInput{
		Name:         r.Name,
		Description:  r.Description,
		Slug:         r.Slug,
		TemplateType: r.TemplateType,
		Language:     r.Language,
	}
}

func (a *API) websitePayload(c *gin.Context, site *db.Website) gin.H {
	payload := gin.H{
		"id":           site.ID,
		"name":         site.Name,
		"slug":         site.Slug,
		"description":  site.Description,
		"templateType": site.TemplateType,
		"language":     site.Language,
		"isPublished":  site.IsPublished,
		"createdAt":    site.CreatedAt.Format(time.RFC3339),
		"updatedAt":    site.UpdatedAt.Format(time.RFC3339),
		"url":          a.publicURL(c, site.Slug),
	}
	if site.LastPublishedAt != nil {
		payload["lastPublishedAt"] = site.LastPublishedAt.Format(time.RFC3339)
	}
	return payload
}

// ListWebsites 返回当前用户的全部网站
func (a *API) ListWebsites(c *gin.Context) {
	sites, err := a.websites.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(sites))
	for i := range sites {
		items = append(items, a.websitePayload(c, &sites[i]))
	}
	c.JSON(http.StatusOK, gin.H{"websites": items})
}

// ListTemplates 返回可用于新建网站的模板
func (a *API) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": service.KnownTemplates()})
}

// CreateWebsite 新建网站
func (a *API) CreateWebsite(c *gin.Context) {
	var req websiteRequest
	if !a.bindJSON(c, &req) {
		return
	}
	site, err := a.websites.Create(c.Request.Context(), currentUserID(c), req.input())
	if err != nil {
		a.fail(c, err)
		return
	}
	a.logger.Info("website created", zap.Uint("website_id", site.ID), zap.String("slug", site.Slug))
	c.JSON(http.StatusCreated, gin.H{"website": a.websitePayload(c, site)})
}

// DeleteWebsite 删除网站及其全部区块
func (a *API) DeleteWebsite(c *gin.Context) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return
	}
	if err := a.websites.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		a.fail(c, err)
		return
	}
	a.workspaces.DiscardWebsite(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetWebsite 返回网站元数据
func (a *API) GetWebsite(c *gin.Context) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return
	}
	site, err := a.websites.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"website": a.websitePayload(c, site)})
}

// UpdateWebsite 修改名称、描述、地址与语言
func (a *API) UpdateWebsite(c *gin.Context) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return
	}
	var req websiteRequest
	if !a.bindJSON(c, &req) {
		return
	}
	owner := currentUserID(c)
	site, err := a.websites.UpdateMetadata(c.Request.Context(), owner, id, req.input())
	if err != nil {
		a.fail(c, err)
		return
	}
	a.workspaces.SyncSite(owner, site)
	c.JSON(http.StatusOK, gin.H{"website": a.websitePayload(c, site)})
}

// ListVariants 返回每种区块可选的样式与编辑字段
func (a *API) ListVariants(c *gin.Context) {
	if raw := c.Query("type"); raw != "" {
		t := section.Type(raw)
		if !t.Valid() {
			a.fail(c, section.ErrUnknownSectionType)
			return
		}
		c.JSON(http.StatusOK, gin.H{"variants": variant.Variants(t)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": variant.All()})
}
