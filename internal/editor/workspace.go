package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"github.com/sitecraft/internal/variant"
)

var ErrNoInsertPosition = errors.New("no section selected to insert after")

// Key identifies a workspace.
type Key struct {
	OwnerID   uint
	WebsiteID uint
}

// State 是工作区对外的只读快照。
type State struct {
	WebsiteID    uint              `json:"websiteId"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	TemplateType string            `json:"templateType"`
	Language     string            `json:"language"`
	IsPublished  bool              `json:"isPublished"`
	Sections     []section.Section `json:"sections"`
	Session      section.Session   `json:"session"`
	LastUpdated  time.Time         `json:"lastUpdated"`
	Dirty        bool              `json:"dirty"`
}

// Workspace 持有一个网站的编辑中文档与界面状态。所有方法都在 mu 保护下执行。
type Workspace struct {
	mu       sync.Mutex
	key      Key
	site     db.Website
	store    *section.Store
	session  section.Session
	dirty    bool
	revision uint64
	lastUsed time.Time
	now      func() time.Time
}

func newWorkspace(key Key, site db.Website, doc section.Document, now func() time.Time, opts ...section.Option) *Workspace {
	return &Workspace{
		key:      key,
		site:     site,
		store:    section.NewStore(doc, opts...),
		session:  section.NewSession(),
		lastUsed: now(),
		now:      now,
	}
}

// Key returns the owner and website the workspace belongs to.
func (w *Workspace) Key() Key {
	return w.key
}

func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workspace) stateLocked() State {
	return State{
		WebsiteID:    w.site.ID,
		Name:         w.store.Name(),
		Slug:         w.site.Slug,
		TemplateType: w.site.TemplateType,
		Language:     w.site.Language,
		IsPublished:  w.site.IsPublished,
		Sections:     w.store.Sections(),
		Session:      w.session,
		LastUpdated:  w.store.LastUpdated(),
		Dirty:        w.dirty,
	}
}

// Sections returns a sorted deep copy of the current sections.
func (w *Workspace) Sections() []section.Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Sections()
}

// Section 返回单个区块的副本。
func (w *Workspace) Section(id string) (section.Section, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Section(id)
}

func (w *Workspace) Session() section.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// Document 返回用于保存的文档快照。
func (w *Workspace) Document() section.Document {
	doc, _ := w.snapshot()
	return doc
}

func (w *Workspace) snapshot() (section.Document, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Document(), w.revision
}

// Rename 修改网站名称，保存时写回。
func (w *Workspace) Rename(name string) State {
	return w.mutate(func() {
		w.store.SetName(name)
	})
}

// InsertAfter 在 afterID 之后插入新区块；afterID 为空时使用添加面板记录的位置。
// 插入后关闭所有面板。
func (w *Workspace) InsertAfter(t section.Type, afterID string) (section.Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if afterID == "" {
		afterID = w.session.AfterSectionID
	}
	if afterID == "" && len(w.store.Sections()) > 0 {
		return section.Section{}, ErrNoInsertPosition
	}

	created, err := w.store.InsertAfter(t, afterID)
	if err != nil {
		return section.Section{}, err
	}
	w.session = w.session.CloseAll()
	w.touchLocked()
	return created, nil
}

// Delete 删除区块并清理会话中对它的引用。
func (w *Workspace) Delete(id string) State {
	return w.mutate(func() {
		w.store.Delete(id)
		w.session = w.session.Forget(id)
	})
}

func (w *Workspace) Reorder(sourceID, destinationID string) State {
	return w.mutate(func() {
		w.store.Reorder(sourceID, destinationID)
	})
}

func (w *Workspace) MoveUp(id string) State {
	return w.mutate(func() {
		w.store.MoveUp(id)
	})
}

func (w *Workspace) MoveDown(id string) State {
	return w.mutate(func() {
		w.store.MoveDown(id)
	})
}

// PatchData 浅合并字段到区块数据。
func (w *Workspace) PatchData(id string, partial section.Data) (section.Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.store.Section(id); !ok {
		return section.Section{}, section.ErrSectionNotFound
	}
	w.store.PatchData(id, partial)
	w.touchLocked()
	sec, _ := w.store.Section(id)
	return sec, nil
}

// PatchArrayField 修改区块数据中的数组字段。
func (w *Workspace) PatchArrayField(id, field string, op section.ArrayOp, index int, item any) (section.Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.store.Section(id); !ok {
		return section.Section{}, section.ErrSectionNotFound
	}
	w.store.PatchArrayField(id, field, op, index, item)
	w.touchLocked()
	sec, _ := w.store.Section(id)
	return sec, nil
}

// SelectVariant 用变体默认数据替换区块数据。
func (w *Workspace) SelectVariant(id, variantID string) (section.Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sec, err := variant.Select(w.store, id, variantID)
	if err != nil {
		return section.Section{}, err
	}
	w.touchLocked()
	return sec, nil
}

// OpenEdit 选中区块并打开编辑面板。
func (w *Workspace) OpenEdit(id string) (section.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.store.Section(id); !ok {
		return w.session, section.ErrSectionNotFound
	}
	w.session = w.session.OpenEdit(id)
	w.lastUsed = w.now()
	return w.session, nil
}

// OpenAddSection 打开添加区块面板。
func (w *Workspace) OpenAddSection(afterID string) (section.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.store.Section(afterID); !ok {
		return w.session, section.ErrSectionNotFound
	}
	w.session = w.session.OpenAddSection(afterID)
	w.lastUsed = w.now()
	return w.session, nil
}

func (w *Workspace) CloseAll() section.Session {
	return w.transition(func(s section.Session) section.Session { return s.CloseAll() })
}

func (w *Workspace) SetTab(tab section.Tab) section.Session {
	return w.transition(func(s section.Session) section.Session { return s.WithTab(tab) })
}

func (w *Workspace) SetPreview(enabled bool) section.Session {
	return w.transition(func(s section.Session) section.Session { return s.WithPreview(enabled) })
}

// markSaved 在持久化成功后更新网站快照并清除脏标记。
func (w *Workspace) markSaved(site *db.Website, revision uint64) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	if site != nil {
		w.site = *site
	}
	// 保存期间若有新的修改，保持脏标记
	if w.revision == revision {
		w.dirty = false
	}
	return w.stateLocked()
}

// syncSite 在网站元数据被修改后刷新快照，名称以数据库为准。
func (w *Workspace) syncSite(site db.Website) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.site = site
	if w.store.Name() != site.Name {
		w.store.SetName(site.Name)
	}
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Workspace) mutate(fn func()) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
	w.touchLocked()
	return w.stateLocked()
}

func (w *Workspace) transition(fn func(section.Session) section.Session) section.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = fn(w.session)
	w.lastUsed = w.now()
	return w.session
}

func (w *Workspace) touchLocked() {
	w.dirty = true
	w.revision++
	w.lastUsed = w.now()
}
