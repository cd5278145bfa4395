package editor

import (
	"context"
	"sync"
	"time"

	"github.com/sitecraft/internal/db"
	"github.com/sitecraft/internal/section"
	"go.uber.org/zap"
)

// Persister loads and writes editing documents.
type Persister interface {
	LoadForEditor(ctx context.Context, ownerID, websiteID uint) (*db.Website, section.Document, error)
	Save(ctx context.Context, ownerID uint, doc section.Document) (*db.Website, error)
	Publish(ctx context.Context, ownerID uint, doc section.Document) (*db.Website, error)
}

// Registry 管理所有打开中的编辑工作区，每个 (用户, 网站) 至多一个。
type Registry struct {
	mu        sync.Mutex
	items     map[Key]*Workspace
	persist   Persister
	logger    *zap.Logger
	now       func() time.Time
	storeOpts []section.Option
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the registry clock; the same clock drives each section store.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
			r.storeOpts = append(r.storeOpts, section.WithClock(now))
		}
	}
}

// WithIDGenerator sets the id generator for inserted sections.
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) {
		if newID != nil {
			r.storeOpts = append(r.storeOpts, section.WithIDGenerator(newID))
		}
	}
}

// NewRegistry returns an empty registry backed by persist.
func NewRegistry(persist Persister, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		items:   make(map[Key]*Workspace),
		persist: persist,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open 返回已有工作区，或从数据库加载一个新的。
func (r *Registry) Open(ctx context.Context, ownerID, websiteID uint) (*Workspace, error) {
	key := Key{OwnerID: ownerID, WebsiteID: websiteID}
	if ws, ok := r.Get(ownerID, websiteID); ok {
		return ws, nil
	}

	site, doc, err := r.persist.LoadForEditor(ctx, ownerID, websiteID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// 并发打开时保留先到者
	if ws, ok := r.items[key]; ok {
		return ws, nil
	}
	ws := newWorkspace(key, *site, doc, r.now, r.storeOpts...)
	r.items[key] = ws
	r.logger.Debug("workspace opened",
		zap.Uint("owner_id", ownerID),
		zap.Uint("website_id", websiteID),
		zap.Int("sections", len(doc.Sections)),
	)
	return ws, nil
}

// Get returns an open workspace without loading.
func (r *Registry) Get(ownerID, websiteID uint) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.items[Key{OwnerID: ownerID, WebsiteID: websiteID}]
	return ws, ok
}

// Discard 丢弃工作区中未保存的修改。
func (r *Registry) Discard(ownerID, websiteID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key{OwnerID: ownerID, WebsiteID: websiteID}
	if _, ok := r.items[key]; !ok {
		return false
	}
	delete(r.items, key)
	return true
}

// DiscardWebsite 移除某个网站的全部工作区，网站被删除时调用。
func (r *Registry) DiscardWebsite(websiteID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.items {
		if key.WebsiteID == websiteID {
			delete(r.items, key)
			removed++
		}
	}
	return removed
}

// SyncSite 把元数据修改同步到已打开的工作区。
func (r *Registry) SyncSite(ownerID uint, site *db.Website) {
	if site == nil {
		return
	}
	if ws, ok := r.Get(ownerID, site.ID); ok {
		ws.syncSite(*site)
	}
}

// Save 把工作区文档写回数据库。
func (r *Registry) Save(ctx context.Context, ws *Workspace) (State, error) {
	doc, revision := ws.snapshot()
	site, err := r.persist.Save(ctx, ws.key.OwnerID, doc)
	if err != nil {
		r.logger.Warn("workspace save failed",
			zap.Uint("website_id", ws.key.WebsiteID),
			zap.Error(err),
		)
		return State{}, err
	}
	return ws.markSaved(site, revision), nil
}

// Publish 保存并发布。
func (r *Registry) Publish(ctx context.Context, ws *Workspace) (State, error) {
	doc, revision := ws.snapshot()
	site, err := r.persist.Publish(ctx, ws.key.OwnerID, doc)
	if err != nil {
		r.logger.Warn("workspace publish failed",
			zap.Uint("website_id", ws.key.WebsiteID),
			zap.Error(err),
		)
		return State{}, err
	}
	return ws.markSaved(site, revision), nil
}

// Prune 关闭闲置超过 maxIdle 的工作区，返回关闭的数量。
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for key, ws := range r.items {
		if ws.idleSince().Before(cutoff) {
			delete(r.items, key)
			pruned++
		}
	}
	if pruned > 0 {
		r.logger.Info("idle workspaces pruned", zap.Int("count", pruned))
	}
	return pruned
}

// Len reports the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// RunJanitor 定期清理闲置工作区，直到 ctx 结束。
func (r *Registry) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(maxIdle)
		}
	}
}
