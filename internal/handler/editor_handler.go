package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/editor"
	"github.com/sitecraft/internal/locale"
	"github.com/sitecraft/internal/render"
	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/variant"
	"go.uber.org/zap"
)

type insertSectionRequest struct {
	Type    string `json:"type" binding:"required"`
	AfterID string `json:"afterId"`
}

type reorderRequest struct {
	SourceID      string `json:"sourceId" binding:"required"`
	DestinationID string `json:"destinationId" binding:"required"`
}

type moveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type patchDataRequest struct {
	Data map[string]interface{} `json:"data" binding:"required"`
}

type patchArrayRequest struct {
	Field string      `json:"field" binding:"required"`
	Op    string      `json:"op" binding:"required"`
	Index int         `json:"index"`
	Item  interface{} `json:"item"`
}

type selectVariantRequest struct {
	VariantID string `json:"variantId" binding:"required"`
}

type sessionRequest struct {
	Action    string `json:"action" binding:"required"`
	SectionID string `json:"sectionId"`
	Tab       string `json:"tab"`
	Enabled   bool   `json:"enabled"`
}

type renameRequest struct {
	Name string `json:"name"`
}

// workspace 打开（或复用）当前用户对该网站的编辑工作区。
func (a *API) workspace(c *gin.Context) (*editor.Workspace, bool) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return nil, false
	}
	ws, err := a.workspaces.Open(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		a.fail(c, err)
		return nil, false
	}
	return ws, true
}

// OpenEditor 加载网站到编辑工作区并返回状态
func (a *API) OpenEditor(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ws.State()})
}

// EditorState 返回当前编辑状态
func (a *API) EditorState(c *gin.Context) {
	a.OpenEditor(c)
}

// DiscardEditor 丢弃未保存的修改
func (a *API) DiscardEditor(c *gin.Context) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return
	}
	discarded := a.workspaces.Discard(currentUserID(c), id)
	c.JSON(http.StatusOK, gin.H{"discarded": discarded})
}

// EditorPreview 渲染带编辑覆盖层的页面
func (a *API) EditorPreview(c *gin.Context) {
	a.renderWorkspace(c, false)
}

// LivePreview 渲染不带覆盖层的页面，与发布后的效果一致
func (a *API) LivePreview(c *gin.Context) {
	a.renderWorkspace(c, true)
}

func (a *API) renderWorkspace(c *gin.Context, preview bool) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	state := ws.State()
	body, err := a.renderer.RenderPage(render.Page{
		Title: state.Name,
		Lang:  locale.PreferenceForLanguage(state.Language).HTMLLang,
	}, state.Sections, render.Options{PreviewMode: preview})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// RenameWebsite 修改工作区中的网站名称
func (a *API) RenameWebsite(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req renameRequest
	if !a.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ws.Rename(strings.TrimSpace(req.Name))})
}

// GetSection 返回区块数据、所用变体与编辑字段
func (a *API) GetSection(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	sec, found := ws.Section(c.Param("sectionId"))
	if !found {
		a.fail(c, section.ErrSectionNotFound)
		return
	}
	v, err := variant.ForSection(sec)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"section":  sec,
		"variant":  v,
		"variants": variant.Variants(sec.Type),
	})
}

// InsertSection 在指定区块之后插入新区块
func (a *API) InsertSection(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req insertSectionRequest
	if !a.bindJSON(c, &req) {
		return
	}
	created, err := ws.InsertAfter(section.Type(req.Type), req.AfterID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"section": created, "state": ws.State()})
}

// DeleteSection 删除区块，不存在时静默成功
func (a *API) DeleteSection(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ws.Delete(c.Param("sectionId"))})
}

// ReorderSections 把 source 移动到 destination 所在位置
func (a *API) ReorderSections(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req reorderRequest
	if !a.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": ws.Reorder(req.SourceID, req.DestinationID)})
}

// MoveSection 上移或下移一位
func (a *API) MoveSection(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req moveRequest
	if !a.bindJSON(c, &req) {
		return
	}
	id := c.Param("sectionId")
	switch strings.ToLower(strings.TrimSpace(req.Direction)) {
	case "up":
		c.JSON(http.StatusOK, gin.H{"state": ws.MoveUp(id)})
	case "down":
		c.JSON(http.StatusOK, gin.H{"state": ws.MoveDown(id)})
	default:
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidAction)
	}
}

// PatchSection 浅合并区块数据
func (a *API) PatchSection(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req patchDataRequest
	if !a.bindJSON(c, &req) {
		return
	}
	sec, err := ws.PatchData(c.Param("sectionId"), section.Data(req.Data))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": sec})
}

// PatchSectionArray 增删改数组字段中的元素
func (a *API) PatchSectionArray(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req patchArrayRequest
	if !a.bindJSON(c, &req) {
		return
	}
	op := section.ArrayOp(strings.ToLower(strings.TrimSpace(req.Op)))
	if !op.Valid() {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidArrayOp)
		return
	}
	sec, err := ws.PatchArrayField(c.Param("sectionId"), req.Field, op, req.Index, req.Item)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": sec})
}

// SelectVariant 切换区块样式，原有内容会被变体默认数据替换
func (a *API) SelectVariant(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req selectVariantRequest
	if !a.bindJSON(c, &req) {
		return
	}
	sec, err := ws.SelectVariant(c.Param("sectionId"), req.VariantID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": sec})
}

// UpdateSession 切换编辑面板状态
func (a *API) UpdateSession(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	var req sessionRequest
	if !a.bindJSON(c, &req) {
		return
	}

	var (
		session section.Session
		err     error
	)
	switch req.Action {
	case "edit":
		session, err = ws.OpenEdit(req.SectionID)
	case "addSection":
		session, err = ws.OpenAddSection(req.SectionID)
	case "close":
		session = ws.CloseAll()
	case "tab":
		tab := section.Tab(req.Tab)
		if !tab.Valid() {
			a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidTab)
			return
		}
		session = ws.SetTab(tab)
	case "preview":
		session = ws.SetPreview(req.Enabled)
	default:
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidAction)
		return
	}
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SaveEditor 保存工作区
func (a *API) SaveEditor(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	state, err := a.workspaces.Save(c.Request.Context(), ws)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"message": locale.Text(a.requestLocale(c).Language, locale.MsgSaved),
	})
}

// PublishEditor 保存并发布
func (a *API) PublishEditor(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}
	state, err := a.workspaces.Publish(c.Request.Context(), ws)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"url":     a.publicURL(c, state.Slug),
		"message": locale.Text(a.requestLocale(c).Language, locale.MsgPublished),
	})
}

// UnpublishWebsite 取消发布，保留内容
func (a *API) UnpublishWebsite(c *gin.Context) {
	id, ok := a.websiteIDParam(c)
	if !ok {
		return
	}
	owner := currentUserID(c)
	site, err := a.persist.Unpublish(c.Request.Context(), owner, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.workspaces.SyncSite(owner, site)
	a.logger.Info("website unpublished", zap.Uint("website_id", site.ID))
	c.JSON(http.StatusOK, gin.H{"website": a.websitePayload(c, site)})
}
