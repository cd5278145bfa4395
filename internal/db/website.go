package db

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultTemplateType 是新建网站默认的整页模板。
const DefaultTemplateType = "travel-tour"

// Website 是用户拥有的一个站点。
//
// Info 为可选的内联区块快照，键是区块 id，值为 {type, order, data}；
// 存在且非空时优先于 website_sections 中的子记录。
type Website struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Slug            string `gorm:"uniqueIndex;size:191;not null"`
	TemplateType    string `gorm:"size:64;not null;default:travel-tour"`
	TemplateID      string `gorm:"size:64"`
	Description     string `gorm:"type:text"`
	UserID          uint   `gorm:"index;not null"`
	User            User
	Language        string `gorm:"size:8;not null;default:zh"`
	IsPublished     bool   `gorm:"index;not null;default:false"`
	LastPublishedAt *time.Time
	Info            datatypes.JSONMap
	Sections        []WebsiteSection `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WebsiteSection 是网站下的一个区块记录。
type WebsiteSection struct {
	ID        string         `gorm:"primaryKey;size:64"`
	WebsiteID uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:32;not null"`
	Order     float64        `gorm:"column:sort_order;not null;default:0"`
	Data      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
