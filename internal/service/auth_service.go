package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sitecraft/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordRunes = 6

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService 负责邮箱密码注册与登录。
type AuthService struct {
	db *gorm.DB
}

// NewAuthService returns a new AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// Register 创建新用户，密码以 bcrypt 哈希保存。
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*db.User, error) {
	normalized := db.NormalizeEmail(email)
	if normalized == "" {
		return nil, ErrEmailRequired
	}
	if at := strings.Index(normalized, "@"); at <= 0 || at == len(normalized)-1 {
		return nil, ErrEmailInvalid
	}
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return nil, ErrPasswordTooShort
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", normalized).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = normalized[:strings.Index(normalized, "@")]
	}

	user := &db.User{Email: normalized, DisplayName: name, Password: string(hashed)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate 校验邮箱与密码，失败时统一返回 ErrInvalidCredentials。
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	normalized := db.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get 按 id 读取用户。
func (s *AuthService) Get(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
