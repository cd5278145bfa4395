package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestPersistence(gdb *gorm.DB) *PersistenceService {
	svc := NewPersistenceService(gdb, nil)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc
}

func storedSectionIDs(t *testing.T, gdb *gorm.DB, websiteID uint) []string {
	t.Helper()
	var ids []string
	if err := gdb.Model(&db.WebsiteSection{}).Where("website_id = ?", websiteID).Pluck("id", &ids).Error; err != nil {
		t.Fatalf("failed to read section ids: %v", err)
	}
	sort.Strings(ids)
	return ids
}

func TestDiffSectionIDs(t *testing.T) {
	got := DiffSectionIDs([]string{"a", "b", "c", "d"}, []string{"b", "d", "e"})
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("unexpected diff: %v", got)
	}
	if got := DiffSectionIDs(nil, []string{"a"}); len(got) != 0 {
		t.Fatalf("expected empty diff, got %v", got)
	}
	if got := DiffSectionIDs([]string{"a"}, nil); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected everything stale, got %v", got)
	}
}

func TestLoadForEditorSeedsFreshTemplate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "fresh")

	_, doc, err := svc.LoadForEditor(context.Background(), owner.ID, site.ID)
	if err != nil {
		t.Fatalf("LoadForEditor returned error: %v", err)
	}
	if len(doc.Sections) != len(section.Types()) {
		t.Fatalf("expected %d fresh sections, got %d", len(section.Types()), len(doc.Sections))
	}
	if doc.Sections[0].Type != section.TypeNavbar || doc.Sections[5].Type != section.TypeFooter {
		t.Fatalf("unexpected fresh order: %v ... %v", doc.Sections[0].Type, doc.Sections[5].Type)
	}
	if ids := storedSectionIDs(t, gdb, site.ID); len(ids) != 0 {
		t.Fatalf("fresh template must not be persisted before save, found %v", ids)
	}

	if _, _, err := svc.LoadForEditor(context.Background(), owner.ID+1, site.ID); !errors.Is(err, ErrWebsiteNotFound) {
		t.Fatalf("expected ErrWebsiteNotFound for non-owner, got %v", err)
	}
}

func TestSaveDeletesOnlyRemovedSections(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "diff")
	ctx := context.Background()

	_, doc, err := svc.LoadForEditor(ctx, owner.ID, site.ID)
	if err != nil {
		t.Fatalf("LoadForEditor returned error: %v", err)
	}
	if _, err := svc.Save(ctx, owner.ID, doc); err != nil {
		t.Fatalf("initial Save returned error: %v", err)
	}

	store := section.NewStore(doc)
	removed := doc.Sections[2].ID
	store.Delete(removed)
	store.PatchData(doc.Sections[1].ID, section.Data{"title": "Updated hero"})
	inserted, err := store.InsertAfter(section.TypeServices, doc.Sections[0].ID)
	if err != nil {
		t.Fatalf("InsertAfter returned error: %v", err)
	}
	store.SetName("Renamed site")

	saved, err := svc.Save(ctx, owner.ID, store.Document())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.Name != "Renamed site" {
		t.Fatalf("expected renamed website, got %q", saved.Name)
	}

	ids := storedSectionIDs(t, gdb, site.ID)
	if len(ids) != 6 {
		t.Fatalf("expected 6 stored sections, got %d (%v)", len(ids), ids)
	}
	for _, id := range ids {
		if id == removed {
			t.Fatalf("removed section %s still stored", removed)
		}
	}

	_, reloaded, err := svc.LoadForEditor(ctx, owner.ID, site.ID)
	if err != nil {
		t.Fatalf("LoadForEditor returned error: %v", err)
	}
	if reloaded.Sections[1].ID != inserted.ID {
		t.Fatalf("expected inserted section at index 1, got %s", reloaded.Sections[1].ID)
	}
	for i, sec := range reloaded.Sections {
		if sec.Order != float64(i) {
			t.Fatalf("expected dense order at %d, got %v", i, sec.Order)
		}
	}
	hero := reloaded.Sections[2]
	if hero.Data["title"] != "Updated hero" {
		t.Fatalf("expected patched hero title, got %v", hero.Data["title"])
	}
}

func TestSaveRejectsForeignWebsiteWithoutWriting(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	intruder := createTestUser(t, gdb, "intruder@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "guarded")

	doc := section.Document{WebsiteID: site.ID, Name: "hijack", Sections: section.FreshSections(nil)}
	if _, err := svc.Save(context.Background(), intruder.ID, doc); !errors.Is(err, ErrWebsiteNotFound) {
		t.Fatalf("expected ErrWebsiteNotFound, got %v", err)
	}
	if ids := storedSectionIDs(t, gdb, site.ID); len(ids) != 0 {
		t.Fatalf("expected no sections written, got %v", ids)
	}
}

func TestPublishSavesThenFlags(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "launch")
	ctx := context.Background()

	if _, _, err := svc.LoadPublished(ctx, "launch"); !errors.Is(err, ErrWebsiteNotFound) {
		t.Fatalf("unpublished site must not resolve, got %v", err)
	}

	_, doc, err := svc.LoadForEditor(ctx, owner.ID, site.ID)
	if err != nil {
		t.Fatalf("LoadForEditor returned error: %v", err)
	}
	published, err := svc.Publish(ctx, owner.ID, doc)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !published.IsPublished || published.LastPublishedAt == nil {
		t.Fatalf("expected published flags, got %+v", published)
	}

	public, sections, err := svc.LoadPublished(ctx, " LAUNCH ")
	if err != nil {
		t.Fatalf("LoadPublished returned error: %v", err)
	}
	if public.ID != site.ID || len(sections) != len(doc.Sections) {
		t.Fatalf("unexpected public load: site=%d sections=%d", public.ID, len(sections))
	}

	if _, err := svc.Unpublish(ctx, owner.ID, site.ID); err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	if _, _, err := svc.LoadPublished(ctx, "launch"); !errors.Is(err, ErrWebsiteNotFound) {
		t.Fatalf("unpublished site must not resolve, got %v", err)
	}
	if _, err := svc.Unpublish(ctx, owner.ID, site.ID); !errors.Is(err, ErrSiteNotPublished) {
		t.Fatalf("expected ErrSiteNotPublished, got %v", err)
	}
}

func TestLoadPublishedWithoutSectionsRendersEmpty(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "empty")
	gdb.Model(site).Update("is_published", true)

	_, sections, err := svc.LoadPublished(context.Background(), "empty")
	if err != nil {
		t.Fatalf("LoadPublished returned error: %v", err)
	}
	if len(sections) != 0 {
		t.Fatalf("public route must not seed a fresh template, got %d sections", len(sections))
	}
}

func TestInlineInfoIsPreferredAndRewritten(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := newTestPersistence(gdb)
	owner := createTestUser(t, gdb, "owner@example.com")
	site := createTestWebsite(t, gdb, owner.ID, "inline")
	ctx := context.Background()

	if err := gdb.Create(&db.WebsiteSection{ID: "row-only", WebsiteID: site.ID, Type: "footer", Data: datatypes.JSON(`{}`)}).Error; err != nil {
		t.Fatalf("failed to seed row: %v", err)
	}
	info := datatypes.JSONMap{
		"b-hero": map[string]interface{}{"type": "hero", "order": 1, "data": map[string]interface{}{"title": "Inline hero"}},
		"a-nav":  map[string]interface{}{"type": "navbar", "order": 0, "data": map[string]interface{}{"title": "Inline nav"}},
		"legacy": map[string]interface{}{"type": "about", "order": 2, "data": map[string]interface{}{
			"paragraphs": []interface{}{map[string]interface{}{"0": "H", "1": "i"}},
		}},
	}
	if err := gdb.Model(site).Update("info", info).Error; err != nil {
		t.Fatalf("failed to seed info: %v", err)
	}

	_, doc, err := svc.LoadForEditor(ctx, owner.ID, site.ID)
	if err != nil {
		t.Fatalf("LoadForEditor returned error: %v", err)
	}
	if len(doc.Sections) != 3 || doc.Sections[0].ID != "a-nav" || doc.Sections[1].ID != "b-hero" {
		t.Fatalf("expected inline sections in order, got %+v", doc.Sections)
	}
	paragraphs, _ := doc.Sections[2].Data["paragraphs"].([]interface{})
	if len(paragraphs) != 1 || paragraphs[0] != "Hi" {
		t.Fatalf("expected legacy paragraph normalized, got %v", doc.Sections[2].Data["paragraphs"])
	}

	store := section.NewStore(doc)
	store.Delete("b-hero")
	if _, err := svc.Save(ctx, owner.ID, store.Document()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	var reloaded db.Website
	if err := gdb.First(&reloaded, site.ID).Error; err != nil {
		t.Fatalf("failed to reload website: %v", err)
	}
	if _, ok := reloaded.Info["b-hero"]; ok {
		t.Fatalf("deleted section must be removed from inline info")
	}
	if len(reloaded.Info) != 2 {
		t.Fatalf("expected 2 inline sections, got %d", len(reloaded.Info))
	}
	ids := storedSectionIDs(t, gdb, site.ID)
	if !reflect.DeepEqual(ids, []string{"a-nav", "legacy"}) {
		t.Fatalf("expected child rows to mirror inline info, got %v", ids)
	}
}
