package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Options 描述数据库连接方式。
type Options struct {
	Driver string // sqlite 或 mysql
	Path   string // sqlite 文件路径
	DSN    string // mysql 连接串
	Silent bool
}

// Init 初始化数据库连接并执行自动迁移。
// sqlite 路径为空时回退到 sitecraft.db。
func Init(opts Options) error {
	gdb, err := Open(opts)
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open 按驱动打开连接，不做迁移。
func Open(opts Options) (*gorm.DB, error) {
	config := &gorm.Config{}
	if opts.Silent {
		config.Logger = logger.Default.LogMode(logger.Silent)
	}

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "sqlite", "sqlite3":
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = "sitecraft.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(path), config)
	case "mysql":
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, errors.New("mysql driver requires DATABASE_DSN")
		}
		return gorm.Open(mysql.Open(dsn), config)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// Migrate 创建或更新全部表结构，并回填旧数据。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&User{},
		&Website{},
		&WebsiteSection{},
	); err != nil {
		return err
	}

	// 早期版本只写 template_id
	if err := gdb.Model(&Website{}).
		Where("template_type = '' OR template_type IS NULL").
		Update("template_type", gorm.Expr("COALESCE(NULLIF(template_id, ''), ?)", DefaultTemplateType)).Error; err != nil {
		return err
	}
	if err := gdb.Model(&Website{}).
		Where("language = '' OR language IS NULL").
		Update("language", "zh").Error; err != nil {
		return err
	}

	return nil
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
