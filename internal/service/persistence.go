package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSiteNotPublished = errors.New("website is not published")

// PersistenceService 在编辑中的文档与数据库之间搬运区块。
type PersistenceService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPersistenceService returns a new PersistenceService instance.
func NewPersistenceService(gdb *gorm.DB, logger *zap.Logger) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{db: gdb, logger: logger, now: time.Now}
}

// LoadForEditor 读取网站与区块用于编辑。还没有任何区块的网站会得到一套模板默认区块，
// 这些区块在第一次保存前只存在于内存中。
func (s *PersistenceService) LoadForEditor(ctx context.Context, ownerID, websiteID uint) (*db.Website, section.Document, error) {
	site, err := findOwnedWebsite(s.db.WithContext(ctx), ownerID, websiteID)
	if err != nil {
		return nil, section.Document{}, err
	}

	sections, err := s.loadSections(ctx, site)
	if err != nil {
		return nil, section.Document{}, err
	}
	if len(sections) == 0 {
		sections = section.FreshSections(nil)
	}

	return site, section.Document{
		WebsiteID:    site.ID,
		Name:         site.Name,
		TemplateType: site.TemplateType,
		Sections:     sections,
		LastUpdated:  site.UpdatedAt,
	}, nil
}

// LoadPublished 按 slug 读取已发布的网站。未发布或不存在时返回 ErrWebsiteNotFound。
func (s *PersistenceService) LoadPublished(ctx context.Context, slug string) (*db.Website, []section.Section, error) {
	trimmed := strings.ToLower(strings.TrimSpace(slug))
	if trimmed == "" {
		return nil, nil, ErrWebsiteNotFound
	}

	var site db.Website
	if err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", trimmed, true).
		First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrWebsiteNotFound
		}
		return nil, nil, err
	}

	sections, err := s.loadSections(ctx, &site)
	if err != nil {
		return nil, nil, err
	}
	return &site, sections, nil
}

// Save 把文档写回数据库：删除远端有而本地没有的区块，再整体覆盖本地区块。
// 全部写操作在同一个事务中完成。
func (s *PersistenceService) Save(ctx context.Context, ownerID uint, doc section.Document) (*db.Website, error) {
	var site *db.Website
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saved, err := s.saveTx(tx, ownerID, doc)
		site = saved
		return err
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

// Publish 先保存，再把网站标记为已发布。
func (s *PersistenceService) Publish(ctx context.Context, ownerID uint, doc section.Document) (*db.Website, error) {
	var site *db.Website
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saved, err := s.saveTx(tx, ownerID, doc)
		if err != nil {
			return err
		}

		now := s.now()
		if err := tx.Model(saved).Updates(map[string]interface{}{
			"is_published":      true,
			"last_published_at": now,
			"updated_at":        now,
		}).Error; err != nil {
			return err
		}

		site, err = findOwnedWebsite(tx, ownerID, saved.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("website published", zap.Uint("website_id", site.ID), zap.String("slug", site.Slug))
	return site, nil
}

// Unpublish 取消发布，区块内容保持不变。
func (s *PersistenceService) Unpublish(ctx context.Context, ownerID, websiteID uint) (*db.Website, error) {
	var site *db.Website
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedWebsite(tx, ownerID, websiteID)
		if err != nil {
			return err
		}
		if !current.IsPublished {
			return ErrSiteNotPublished
		}
		if err := tx.Model(current).Updates(map[string]interface{}{
			"is_published": false,
			"updated_at":   s.now(),
		}).Error; err != nil {
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

// DiffSectionIDs 返回 remote 中存在而 local 中没有的 id，保持 remote 的顺序。
func DiffSectionIDs(remote, local []string) []string {
	keep := make(map[string]struct{}, len(local))
	for _, id := range local {
		keep[id] = struct{}{}
	}
	var stale []string
	for _, id := range remote {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

func (s *PersistenceService) saveTx(tx *gorm.DB, ownerID uint, doc section.Document) (*db.Website, error) {
	site, err := findOwnedWebsite(tx, ownerID, doc.WebsiteID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{"updated_at": now}
	if name := strings.TrimSpace(doc.Name); name != "" {
		updates["name"] = name
	}
	if err := tx.Model(site).Updates(updates).Error; err != nil {
		return nil, err
	}

	sections := section.SortByOrder(doc.Sections)
	localIDs := make([]string, 0, len(sections))
	for _, sec := range sections {
		localIDs = append(localIDs, sec.ID)
	}

	var remoteIDs []string
	if err := tx.Model(&db.WebsiteSection{}).
		Where("website_id = ?", site.ID).
		Pluck("id", &remoteIDs).Error; err != nil {
		return nil, err
	}

	if stale := DiffSectionIDs(remoteIDs, localIDs); len(stale) > 0 {
		if err := tx.Where("website_id = ? AND id IN ?", site.ID, stale).
			Delete(&db.WebsiteSection{}).Error; err != nil {
			return nil, err
		}
	}

	if len(sections) > 0 {
		rows := make([]db.WebsiteSection, 0, len(sections))
		for _, sec := range sections {
			payload, err := json.Marshal(dataOrEmpty(sec.Data))
			if err != nil {
				return nil, err
			}
			rows = append(rows, db.WebsiteSection{
				ID:        sec.ID,
				WebsiteID: site.ID,
				Type:      string(sec.Type),
				Order:     sec.Order,
				Data:      datatypes.JSON(payload),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "sort_order", "data", "updated_at"}),
		}).Create(&rows).Error; err != nil {
			return nil, err
		}
	}

	if len(site.Info) > 0 {
		if err := tx.Model(site).Update("info", inlineSections(sections)).Error; err != nil {
			return nil, err
		}
	}

	s.logger.Debug("website saved",
		zap.Uint("website_id", site.ID),
		zap.Int("sections", len(sections)),
		zap.Int("remote_sections", len(remoteIDs)),
	)
	return findOwnedWebsite(tx, ownerID, site.ID)
}

// loadSections 优先读取内联的 info 快照，否则读取子记录。
func (s *PersistenceService) loadSections(ctx context.Context, site *db.Website) ([]section.Section, error) {
	if len(site.Info) > 0 {
		if sections := s.parseInline(site); len(sections) > 0 {
			return sections, nil
		}
	}

	var rows []db.WebsiteSection
	if err := s.db.WithContext(ctx).
		Where("website_id = ?", site.ID).
		Order("sort_order asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	sections := make([]section.Section, 0, len(rows))
	for _, row := range rows {
		data := section.Data{}
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &data); err != nil || data == nil {
				s.logger.Warn("discard unreadable section data",
					zap.String("section_id", row.ID),
					zap.Uint("website_id", site.ID),
					zap.Error(err),
				)
				data = section.Data{}
			}
		}
		section.NormalizeLegacy(data)
		sections = append(sections, section.Section{
			ID:    row.ID,
			Type:  section.Type(row.Type),
			Order: row.Order,
			Data:  data,
		})
	}
	return section.SortByOrder(sections), nil
}

func (s *PersistenceService) parseInline(site *db.Website) []section.Section {
	sections := make([]section.Section, 0, len(site.Info))
	for id, raw := range site.Info {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			s.logger.Warn("skip malformed inline section", zap.String("section_id", id), zap.Uint("website_id", site.ID))
			continue
		}
		typ, _ := entry["type"].(string)
		order, _ := entry["order"].(float64)
		data := section.Data{}
		if obj, ok := entry["data"].(map[string]interface{}); ok {
			data = section.Data(obj)
		}
		section.NormalizeLegacy(data)
		sections = append(sections, section.Section{
			ID:    id,
			Type:  section.Type(typ),
			Order: order,
			Data:  data,
		})
	}
	// map 迭代无序，order 相同时按 id 稳定排序
	sortByOrderThenID(sections)
	return sections
}

func inlineSections(sections []section.Section) datatypes.JSONMap {
	info := make(datatypes.JSONMap, len(sections))
	for _, sec := range sections {
		info[sec.ID] = map[string]interface{}{
			"type":  string(sec.Type),
			"order": sec.Order,
			"data":  map[string]interface{}(dataOrEmpty(sec.Data)),
		}
	}
	return info
}

func dataOrEmpty(data section.Data) section.Data {
	if data == nil {
		return section.Data{}
	}
	return data
}

func sortByOrderThenID(sections []section.Section) {
	slices.SortStableFunc(sections, func(a, b section.Section) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
