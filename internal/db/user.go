package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型，邮箱统一存为小写。
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;size:191;not null"`
	DisplayName string
	Password    string `gorm:"not null"`
}

// NormalizeEmail 去除首尾空白并转为小写。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureUser 存在性检查：若邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
// 返回是否新建了账号。
func EnsureUser(gdb *gorm.DB, email, password, displayName string) (bool, error) {
	normalized := NormalizeEmail(email)
	trimmedPassword := strings.TrimSpace(password)
	if normalized == "" || trimmedPassword == "" {
		return false, nil
	}

	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", normalized).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}

		name := strings.TrimSpace(displayName)
		if name == "" {
			name = normalized
		}
		if err := gdb.Create(&User{Email: normalized, DisplayName: name, Password: string(hashed)}).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
