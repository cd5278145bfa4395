package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/blob"
	"github.com/sitecraft/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	api       *API
	db        *gorm.DB
	user      db.User
	uploadDir string
}

func setupTestAPI(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := db.User{Email: "owner@example.com", DisplayName: "owner", Password: "hashed"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	uploadDir := t.TempDir()
	api, err := NewAPI(gdb, Options{
		Blobs:       blob.NewLocalStore(uploadDir, "/static/uploads"),
		SiteBaseURL: "http://example.test",
	})
	if err != nil {
		t.Fatalf("NewAPI returned error: %v", err)
	}
	return &testEnv{api: api, db: gdb, user: user, uploadDir: uploadDir}
}

// newTestContext 构造一个已登录用户的请求上下文。
func newTestContext(method, target string, payload interface{}, userID uint, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if userID != 0 {
		c.Set(userIDContextKey, userID)
	}
	return c, w
}

func idParam(id uint) gin.Param {
	return gin.Param{Key: "id", Value: fmt.Sprint(id)}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, w.Body.String())
	}
}

func (env *testEnv) createWebsite(t *testing.T, name string) db.Website {
	t.Helper()
	c, w := newTestContext("POST", "/dashboard/websites", map[string]interface{}{"name": name}, env.user.ID)
	env.api.CreateWebsite(c)
	if w.Code != 201 {
		t.Fatalf("expected 201 creating website, got %d: %s", w.Code, w.Body.String())
	}
	var site db.Website
	if err := env.db.Where("name = ?", name).First(&site).Error; err != nil {
		t.Fatalf("failed to load created website: %v", err)
	}
	return site
}
