package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/locale"
	"gorm.io/gorm"
)

var (
	ErrWebsiteNotFound  = errors.New("website not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrSlugTaken        = errors.New("slug is already in use")
	ErrSlugInvalid      = errors.New("slug is invalid")
	ErrNameRequired     = errors.New("website name is required")
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// 与站点路由冲突的 slug
	reservedSlugs = map[string]struct{}{
		"auth": {}, "dashboard": {}, "editor": {}, "website-editor": {},
		"static": {}, "ping": {}, "uploads": {}, "api": {},
	}

	knownTemplates = []string{db.DefaultTemplateType}
)

// WebsiteInput 是创建或修改网站元信息时的参数。
type WebsiteInput struct {
	Name         string
	Description  string
	Slug         string
	TemplateType string
	Language     string
}

// WebsiteService 管理网站元信息。区块内容由 PersistenceService 负责。
type WebsiteService struct {
	db *gorm.DB
}

// NewWebsiteService returns a new WebsiteService instance.
func NewWebsiteService(gdb *gorm.DB) *WebsiteService {
	return &WebsiteService{db: gdb}
}

// KnownTemplates 返回可用于新建网站的模板。
func KnownTemplates() []string {
	return append([]string(nil), knownTemplates...)
}

// IsKnownTemplate 判断模板是否存在。
func IsKnownTemplate(templateType string) bool {
	for _, known := range knownTemplates {
		if known == templateType {
			return true
		}
	}
	return false
}

// ListByOwner 返回用户的全部网站，最近修改的在前。
func (s *WebsiteService) ListByOwner(ctx context.Context, ownerID uint) ([]db.Website, error) {
	var sites []db.Website
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at desc, id desc").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// Get 读取属于 ownerID 的网站。
func (s *WebsiteService) Get(ctx context.Context, ownerID, websiteID uint) (*db.Website, error) {
	return findOwnedWebsite(s.db.WithContext(ctx), ownerID, websiteID)
}

// Create 新建网站。slug 为空时由名称生成，并在冲突时追加序号。
func (s *WebsiteService) Create(ctx context.Context, ownerID uint, input WebsiteInput) (*db.Website, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	templateType := strings.TrimSpace(input.TemplateType)
	if templateType == "" {
		templateType = db.DefaultTemplateType
	}
	if !IsKnownTemplate(templateType) {
		return nil, ErrTemplateNotFound
	}

	site := &db.Website{
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		TemplateType: templateType,
		TemplateID:   templateType,
		UserID:       ownerID,
		Language:     websiteLanguage(input.Language),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := resolveSlug(tx, input.Slug, name, 0)
		if err != nil {
			return err
		}
		site.Slug = slug
		return tx.Create(site).Error
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

// UpdateMetadata 修改名称、描述、语言、模板与 slug。
// slug 为空且旧 slug 仍是由旧名称生成的值时，随新名称重新生成。
func (s *WebsiteService) UpdateMetadata(ctx context.Context, ownerID, websiteID uint, input WebsiteInput) (*db.Website, error) {
	var site *db.Website
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedWebsite(tx, ownerID, websiteID)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(input.Name)
		if name == "" {
			name = current.Name
		}

		requested := strings.TrimSpace(input.Slug)
		slug := current.Slug
		switch {
		case requested != "" && requested != current.Slug:
			slug, err = resolveSlug(tx, requested, name, current.ID)
		case requested == "" && name != current.Name && current.Slug == Slugify(current.Name):
			slug, err = resolveSlug(tx, "", name, current.ID)
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":        name,
			"slug":        slug,
			"description": strings.TrimSpace(input.Description),
		}
		if strings.TrimSpace(input.Language) != "" {
			updates["language"] = websiteLanguage(input.Language)
		}
		if templateType := strings.TrimSpace(input.TemplateType); templateType != "" {
			if !IsKnownTemplate(templateType) {
				return ErrTemplateNotFound
			}
			updates["template_type"] = templateType
			updates["template_id"] = templateType
		}
		if err := tx.Model(current).Updates(updates).Error; err != nil {
			return err
		}

		site, err = findOwnedWebsite(tx, ownerID, websiteID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

// Delete 删除网站及其全部区块。
func (s *WebsiteService) Delete(ctx context.Context, ownerID, websiteID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		site, err := findOwnedWebsite(tx, ownerID, websiteID)
		if err != nil {
			return err
		}
		if err := tx.Where("website_id = ?", site.ID).Delete(&db.WebsiteSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(site).Error
	})
}

// Slugify 把名称转换为 URL 安全的 slug，只保留小写字母、数字与连字符。
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// resolveSlug 校验显式 slug，或根据名称生成一个未被占用的 slug。
// excludeID 用于修改时排除网站自身。
func resolveSlug(tx *gorm.DB, requested, name string, excludeID uint) (string, error) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested != "" {
		if !validSlug(requested) {
			return "", ErrSlugInvalid
		}
		taken, err := slugTaken(tx, requested, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrSlugTaken
		}
		return requested, nil
	}

	base := Slugify(name)
	if base == "" || !validSlug(base) {
		base = "site-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := slugTaken(tx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func validSlug(slug string) bool {
	if _, reserved := reservedSlugs[slug]; reserved {
		return false
	}
	return len(slug) <= 96 && slugPattern.MatchString(slug)
}

func slugTaken(tx *gorm.DB, slug string, excludeID uint) (bool, error) {
	var count int64
	query := tx.Model(&db.Website{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func findOwnedWebsite(tx *gorm.DB, ownerID, websiteID uint) (*db.Website, error) {
	var site db.Website
	if err := tx.Where("id = ? AND user_id = ?", websiteID, ownerID).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

func websiteLanguage(raw string) string {
	if normalized := locale.NormalizeLanguage(raw); normalized != "" {
		return normalized
	}
	return locale.LanguageChinese
}
