package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotOwner = errors.New("not owner")

type fakePersister struct {
	mu        sync.Mutex
	ownerID   uint
	site      db.Website
	sections  []section.Section
	loads     int
	saved     []section.Document
	published bool
}

func newFakePersister() *fakePersister {
	return &fakePersister{
		ownerID: 1,
		site:    db.Website{ID: 10, Name: "Demo", Slug: "demo", TemplateType: db.DefaultTemplateType, UserID: 1},
		sections: []section.Section{
			{ID: "nav", Type: section.TypeNavbar, Order: 0, Data: section.Data{"title": "Demo"}},
			{ID: "hero", Type: section.TypeHero, Order: 1, Data: section.Data{"title": "Hello"}},
			{ID: "foot", Type: section.TypeFooter, Order: 2, Data: section.Data{}},
		},
	}
}

func (f *fakePersister) LoadForEditor(_ context.Context, ownerID, websiteID uint) (*db.Website, section.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ownerID != f.ownerID || websiteID != f.site.ID {
		return nil, section.Document{}, errNotOwner
	}
	f.loads++
	site := f.site
	doc := section.Document{WebsiteID: site.ID, Name: site.Name, TemplateType: site.TemplateType, Sections: f.sections}
	return &site, doc.Clone(), nil
}

func (f *fakePersister) Save(_ context.Context, ownerID uint, doc section.Document) (*db.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ownerID != f.ownerID {
		return nil, errNotOwner
	}
	f.saved = append(f.saved, doc)
	f.sections = doc.Sections
	f.site.Name = doc.Name
	site := f.site
	return &site, nil
}

func (f *fakePersister) Publish(ctx context.Context, ownerID uint, doc section.Document) (*db.Website, error) {
	site, err := f.Save(ctx, ownerID, doc)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.site.IsPublished = true
	f.published = true
	site.IsPublished = true
	return site, nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func newTestRegistry(p *fakePersister) *Registry {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewRegistry(p, nil,
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(sequentialIDs()),
	)
}

func TestOpenReusesWorkspace(t *testing.T) {
	p := newFakePersister()
	reg := newTestRegistry(p)
	ctx := context.Background()

	first, err := reg.Open(ctx, 1, 10)
	require.NoError(t, err)
	second, err := reg.Open(ctx, 1, 10)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, p.loads)
	assert.Equal(t, 1, reg.Len())

	_, err = reg.Open(ctx, 2, 10)
	assert.ErrorIs(t, err, errNotOwner)
	assert.Equal(t, 1, reg.Len())
}

func TestConcurrentOpenKeepsSingleWorkspace(t *testing.T) {
	reg := newTestRegistry(newFakePersister())

	var wg sync.WaitGroup
	results := make([]*Workspace, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws, err := reg.Open(context.Background(), 1, 10)
			if err == nil {
				results[i] = ws
			}
		}(i)
	}
	wg.Wait()

	for _, ws := range results {
		require.NotNil(t, ws)
		assert.Same(t, results[0], ws)
	}
}

func TestDeleteForgetsSelection(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = ws.OpenEdit("hero")
	require.NoError(t, err)
	state := ws.Delete("hero")

	assert.Empty(t, state.Session.EditingSectionID)
	assert.Equal(t, section.PanelNone, state.Session.ActivePanel)
	assert.Len(t, state.Sections, 2)
	assert.True(t, state.Dirty)
}

func TestInsertUsesAddSectionContext(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = ws.InsertAfter(section.TypeAbout, "")
	assert.ErrorIs(t, err, ErrNoInsertPosition)

	session, err := ws.OpenAddSection("nav")
	require.NoError(t, err)
	assert.Equal(t, section.PanelAddSection, session.ActivePanel)

	created, err := ws.InsertAfter(section.TypeAbout, "")
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, float64(1), created.Order)

	state := ws.State()
	assert.Equal(t, section.PanelNone, state.Session.ActivePanel)
	assert.Equal(t, []string{"nav", "new-1", "hero", "foot"}, sectionIDs(state.Sections))

	_, err = ws.OpenAddSection("missing")
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
}

func TestSelectVariantMarksDirty(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	sec, err := ws.SelectVariant("hero", "video")
	require.NoError(t, err)
	assert.Equal(t, "video", sec.VariantID())
	assert.True(t, ws.State().Dirty)

	_, err = ws.SelectVariant("missing", variant.OriginalID)
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
}

func TestPatchRequiresExistingSection(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = ws.PatchData("missing", section.Data{"title": "x"})
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
	assert.False(t, ws.State().Dirty)

	sec, err := ws.PatchArrayField("hero", "paragraphs", section.ArrayAdd, 0, "first")
	require.NoError(t, err)
	assert.Equal(t, []any{"first"}, sec.Data["paragraphs"])
}

func TestSaveClearsDirtyAndPublishUpdatesSite(t *testing.T) {
	p := newFakePersister()
	reg := newTestRegistry(p)
	ctx := context.Background()
	ws, err := reg.Open(ctx, 1, 10)
	require.NoError(t, err)

	ws.Rename("Renamed")
	ws.MoveDown("nav")
	state, err := reg.Save(ctx, ws)
	require.NoError(t, err)
	assert.False(t, state.Dirty)
	assert.Equal(t, "Renamed", state.Name)
	require.Len(t, p.saved, 1)
	assert.Equal(t, []string{"hero", "nav", "foot"}, sectionIDs(p.saved[0].Sections))

	state, err = reg.Publish(ctx, ws)
	require.NoError(t, err)
	assert.True(t, state.IsPublished)
	assert.True(t, p.published)
}

func TestDiscardDropsUnsavedChanges(t *testing.T) {
	p := newFakePersister()
	reg := newTestRegistry(p)
	ctx := context.Background()

	ws, err := reg.Open(ctx, 1, 10)
	require.NoError(t, err)
	ws.Delete("hero")

	assert.True(t, reg.Discard(1, 10))
	assert.False(t, reg.Discard(1, 10))

	reopened, err := reg.Open(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reopened.Sections(), 3)
	assert.Equal(t, 2, p.loads)
}

func TestSyncSiteAndDiscardWebsite(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	reg.SyncSite(1, &db.Website{ID: 10, Name: "From metadata", Slug: "new-slug"})
	state := ws.State()
	assert.Equal(t, "From metadata", state.Name)
	assert.Equal(t, "new-slug", state.Slug)

	assert.Equal(t, 1, reg.DiscardWebsite(10))
	assert.Equal(t, 0, reg.Len())
}

func TestPruneIdleWorkspaces(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := NewRegistry(newFakePersister(), nil, WithClock(func() time.Time { return now }))
	_, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, reg.Prune(time.Hour))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, reg.Prune(time.Hour))
	assert.Equal(t, 0, reg.Len())
}

func TestSessionTransitions(t *testing.T) {
	reg := newTestRegistry(newFakePersister())
	ws, err := reg.Open(context.Background(), 1, 10)
	require.NoError(t, err)

	session, err := ws.OpenEdit("hero")
	require.NoError(t, err)
	assert.Equal(t, section.PanelEdit, session.ActivePanel)

	session = ws.SetTab(section.TabTemplates)
	assert.Equal(t, section.TabTemplates, session.ActiveTab)

	session = ws.SetPreview(true)
	assert.True(t, session.PreviewMode)
	assert.Equal(t, section.PanelNone, session.ActivePanel)
	assert.Equal(t, "hero", session.EditingSectionID)

	_, err = ws.OpenEdit("missing")
	assert.ErrorIs(t, err, section.ErrSectionNotFound)
	assert.False(t, ws.State().Dirty)
}

func sectionIDs(sections []section.Section) []string {
	ids := make([]string, 0, len(sections))
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	return ids
}
