package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/blob"
	"github.com/sitecraft/internal/locale"
	"github.com/sitecraft/internal/section"
	"go.uber.org/zap"
)

// UploadImage 处理图片上传；带 section 与 field 时把地址写入对应区块
func (a *API) UploadImage(c *gin.Context) {
	ws, ok := a.workspace(c)
	if !ok {
		return
	}

	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgUploadMissing)
		return
	}
	if file.Size > blob.MaxImageBytes {
		a.respondMessage(c, http.StatusRequestEntityTooLarge, locale.MsgUploadTooLarge)
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgUploadNotImage)
		return
	}

	sectionID := strings.TrimSpace(c.PostForm("section"))
	field := strings.TrimSpace(c.PostForm("field"))
	if sectionID != "" {
		if _, found := ws.Section(sectionID); !found {
			a.fail(c, section.ErrSectionNotFound)
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgUploadMissing)
		return
	}
	defer src.Close()

	obj, err := blob.PutImage(c.Request.Context(), a.blobs, file.Filename, src)
	if err != nil {
		status, _ := statusForError(err)
		if status >= http.StatusInternalServerError || errors.Is(err, blob.ErrUnavailable) {
			a.logger.Error("image upload failed", zap.Error(err))
			a.respondMessage(c, http.StatusInternalServerError, locale.MsgUploadFailed)
			return
		}
		a.fail(c, err)
		return
	}

	payload := gin.H{
		"url":    obj.URL,
		"width":  obj.Width,
		"height": obj.Height,
	}
	if sectionID != "" && field != "" {
		sec, err := ws.PatchData(sectionID, section.Data{field: obj.URL})
		if err != nil {
			a.fail(c, err)
			return
		}
		payload["section"] = sec
	}

	a.logger.Info("image uploaded",
		zap.Uint("website_id", ws.Key().WebsiteID),
		zap.String("key", obj.Key),
		zap.Int("width", obj.Width),
		zap.Int("height", obj.Height),
	)
	c.JSON(http.StatusOK, payload)
}
