package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/blob"
	"github.com/sitecraft/internal/editor"
	"github.com/sitecraft/internal/locale"
	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/service"
	"github.com/sitecraft/internal/variant"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondMessage 按请求语言返回错误文案。
func (a *API) respondMessage(c *gin.Context, status int, key locale.Message) {
	respondError(c, status, locale.Text(a.requestLocale(c).Language, key))
}

func (a *API) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// websiteIDParam 解析路径中的网站 id，失败时直接写回 400。
func (a *API) websiteIDParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil || id == 0 {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidID)
		return 0, false
	}
	return id, true
}

type errorMapping struct {
	target error
	status int
	key    locale.Message
}

var errorMappings = []errorMapping{
	{service.ErrWebsiteNotFound, http.StatusNotFound, locale.MsgWebsiteNotFound},
	{service.ErrUserNotFound, http.StatusUnauthorized, locale.MsgUnauthorized},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, locale.MsgLoginFailed},
	{service.ErrEmailRequired, http.StatusBadRequest, locale.MsgEmailRequired},
	{service.ErrEmailInvalid, http.StatusBadRequest, locale.MsgEmailInvalid},
	{service.ErrEmailTaken, http.StatusConflict, locale.MsgEmailTaken},
	{service.ErrPasswordTooShort, http.StatusBadRequest, locale.MsgPasswordTooShort},
	{service.ErrTemplateNotFound, http.StatusBadRequest, locale.MsgTemplateNotFound},
	{service.ErrNameRequired, http.StatusBadRequest, locale.MsgNameRequired},
	{service.ErrSlugTaken, http.StatusConflict, locale.MsgSlugTaken},
	{service.ErrSlugInvalid, http.StatusBadRequest, locale.MsgSlugInvalid},
	{service.ErrSiteNotPublished, http.StatusConflict, locale.MsgNotPublished},
	{section.ErrSectionNotFound, http.StatusNotFound, locale.MsgSectionNotFound},
	{section.ErrUnknownSectionType, http.StatusBadRequest, locale.MsgUnknownSectionType},
	{variant.ErrUnknownVariant, http.StatusBadRequest, locale.MsgUnknownVariant},
	{editor.ErrNoInsertPosition, http.StatusBadRequest, locale.MsgNoInsertPosition},
	{blob.ErrEmptyFile, http.StatusBadRequest, locale.MsgUploadMissing},
	{blob.ErrNotImage, http.StatusBadRequest, locale.MsgUploadNotImage},
	{blob.ErrFileTooBig, http.StatusRequestEntityTooLarge, locale.MsgUploadTooLarge},
}

// statusForError 把领域错误映射为 HTTP 状态码与文案。
func statusForError(err error) (int, locale.Message) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.key
		}
	}
	return http.StatusInternalServerError, locale.MsgInternal
}

// fail 写回与错误对应的响应，未识别的错误记录日志。
func (a *API) fail(c *gin.Context, err error) {
	status, key := statusForError(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.Error(err)
	}
	a.respondMessage(c, status, key)
}
