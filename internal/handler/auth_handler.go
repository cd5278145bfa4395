package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/locale"
	"go.uber.org/zap"
)

const (
	sessionUserIDKey    = "user_id"
	sessionEmailKey     = "email"
	userIDContextKey    = "__user_id"
	userEmailContextKey = "__user_email"
)

type credentialsRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"displayName" form:"displayName"`
}

func userPayload(user *db.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
	}
}

// Register 注册并直接登录
func (a *API) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	user, err := a.auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !a.startSession(c, user) {
		return
	}
	a.logger.Info("user registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{"user": userPayload(user)})
}

// Login 处理邮箱密码登录
func (a *API) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		a.respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	user, err := a.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !a.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	user, err := a.auth.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(user)})
}

func (a *API) startSession(c *gin.Context, user *db.User) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionEmailKey, user.Email)
	if err := session.Save(); err != nil {
		a.logger.Error("session save failed", zap.Error(err))
		a.respondMessage(c, http.StatusInternalServerError, locale.MsgSessionFailed)
		return false
	}
	return true
}

// AuthRequired 要求请求携带有效会话，未登录时返回 401
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserIDKey).(uint)
		if !ok || userID == 0 {
			a.respondMessage(c, http.StatusUnauthorized, locale.MsgUnauthorized)
			c.Abort()
			return
		}
		c.Set(userIDContextKey, userID)
		if email, ok := session.Get(sessionEmailKey).(string); ok {
			c.Set(userEmailContextKey, email)
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	if value, ok := c.Get(userIDContextKey); ok {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
