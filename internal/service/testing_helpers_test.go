package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/sitecraft/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return gdb
}

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *db.User {
	t.Helper()
	user := &db.User{Email: email, DisplayName: email, Password: "x"}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestWebsite(t *testing.T, gdb *gorm.DB, ownerID uint, slug string) *db.Website {
	t.Helper()
	site := &db.Website{
		Name:         "Site " + slug,
		Slug:         slug,
		TemplateType: db.DefaultTemplateType,
		UserID:       ownerID,
		Language:     "zh",
	}
	if err := gdb.Create(site).Error; err != nil {
		t.Fatalf("failed to create website: %v", err)
	}
	return site
}
