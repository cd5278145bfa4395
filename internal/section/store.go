package section

import "time"

// ArrayOp 描述对数组字段中单个元素的操作。
type ArrayOp string

const (
	ArrayAdd    ArrayOp = "add"
	ArrayRemove ArrayOp = "remove"
	ArrayUpdate ArrayOp = "update"
)

// Valid 判断操作是否受支持。
func (op ArrayOp) Valid() bool {
	switch op {
	case ArrayAdd, ArrayRemove, ArrayUpdate:
		return true
	default:
		return false
	}
}

// Store 持有一个网站编辑期间的区块列表。
// Store 不是并发安全的，由调用方保证同一时刻只有一个写者。
type Store struct {
	doc   Document
	now   func() time.Time
	newID func() string
}

// Option 用于定制 Store 的时间与 id 来源。
type Option func(*Store)

// WithClock 替换时间来源。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator 替换区块 id 生成器。
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore 基于已加载的文档创建 Store，区块顺序会立即被规范化。
func NewStore(doc Document, opts ...Option) *Store {
	s := &Store{
		doc:   doc.Clone(),
		now:   time.Now,
		newID: NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc.Sections = SortByOrder(s.doc.Sections)
	s.renormalize()
	if s.doc.LastUpdated.IsZero() {
		s.doc.LastUpdated = s.now()
	}
	return s
}

// Document 返回当前状态的深拷贝。
func (s *Store) Document() Document {
	return s.doc.Clone()
}

// Sections 返回按顺序排列的区块副本。
func (s *Store) Sections() []Section {
	return s.doc.Clone().Sections
}

// Section 按 id 查找区块。
func (s *Store) Section(id string) (Section, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Section{}, false
	}
	return s.doc.Sections[idx].Clone(), true
}

// LastUpdated 返回最后一次变更时间。
func (s *Store) LastUpdated() time.Time {
	return s.doc.LastUpdated
}

// Name 返回网站名称。
func (s *Store) Name() string {
	return s.doc.Name
}

// SetName 修改网站名称。
func (s *Store) SetName(name string) {
	s.doc.Name = name
	s.touch()
}

// InsertAfter 在 afterID 之后插入一个带默认数据的新区块；找不到 afterID 时追加到末尾。
func (s *Store) InsertAfter(t Type, afterID string) (Section, error) {
	data, err := DefaultData(t)
	if err != nil {
		return Section{}, err
	}

	order := float64(len(s.doc.Sections))
	if idx := s.indexOf(afterID); idx >= 0 {
		order = s.doc.Sections[idx].Order + 0.5
	}

	created := Section{ID: s.newID(), Type: t, Order: order, Data: data}
	s.doc.Sections = SortByOrder(append(s.doc.Sections, created))
	s.renormalize()
	s.touch()

	inserted, _ := s.Section(created.ID)
	return inserted, nil
}

// Delete 删除区块，id 不存在时不做任何事。
func (s *Store) Delete(id string) {
	if idx := s.indexOf(id); idx >= 0 {
		s.doc.Sections = append(s.doc.Sections[:idx], s.doc.Sections[idx+1:]...)
		s.renormalize()
	}
	s.touch()
}

// Reorder 把 sourceID 移动到 destinationID 当前所在的位置（取出后插入，而不是交换）。
func (s *Store) Reorder(sourceID, destinationID string) {
	src := s.indexOf(sourceID)
	dst := s.indexOf(destinationID)
	if src >= 0 && dst >= 0 && src != dst {
		moved := s.doc.Sections[src]
		rest := append(s.doc.Sections[:src:src], s.doc.Sections[src+1:]...)
		reordered := make([]Section, 0, len(s.doc.Sections))
		reordered = append(reordered, rest[:dst]...)
		reordered = append(reordered, moved)
		reordered = append(reordered, rest[dst:]...)
		s.doc.Sections = reordered
		s.renormalize()
	}
	s.touch()
}

// MoveUp 与前一个区块交换位置。
func (s *Store) MoveUp(id string) {
	idx := s.indexOf(id)
	if idx <= 0 {
		s.touch()
		return
	}
	s.Reorder(id, s.doc.Sections[idx-1].ID)
}

// MoveDown 与后一个区块交换位置。
func (s *Store) MoveDown(id string) {
	idx := s.indexOf(id)
	if idx < 0 || idx >= len(s.doc.Sections)-1 {
		s.touch()
		return
	}
	s.Reorder(id, s.doc.Sections[idx+1].ID)
}

// PatchData 把 partial 浅合并到区块数据，不做任何结构校验。
func (s *Store) PatchData(id string, partial Data) {
	if idx := s.indexOf(id); idx >= 0 {
		sec := &s.doc.Sections[idx]
		if sec.Data == nil {
			sec.Data = Data{}
		}
		for key, value := range partial {
			sec.Data[key] = cloneValue(value)
		}
	}
	s.touch()
}

// ReplaceData 整体替换区块数据，返回区块是否存在。
func (s *Store) ReplaceData(id string, data Data) bool {
	idx := s.indexOf(id)
	if idx >= 0 {
		s.doc.Sections[idx].Data = CloneData(data)
	}
	s.touch()
	return idx >= 0
}

// PatchArrayField 修改区块数据中某个数组字段的单个元素。
// 字段缺失或不是数组时视为空数组；越界的 remove/update 不做任何事。
func (s *Store) PatchArrayField(id, field string, op ArrayOp, index int, item any) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.touch()
		return
	}

	sec := &s.doc.Sections[idx]
	items := arrayValue(sec.Data[field])

	switch op {
	case ArrayAdd:
		items = append(items, cloneValue(item))
	case ArrayRemove:
		if index < 0 || index >= len(items) {
			s.touch()
			return
		}
		items = append(items[:index], items[index+1:]...)
	case ArrayUpdate:
		if index < 0 || index >= len(items) {
			s.touch()
			return
		}
		items[index] = mergeArrayItem(items[index], item)
	default:
		s.touch()
		return
	}

	if sec.Data == nil {
		sec.Data = Data{}
	}
	sec.Data[field] = items
	s.touch()
}

func mergeArrayItem(existing, patch any) any {
	switch p := patch.(type) {
	case string:
		if current, ok := asObject(existing); ok {
			if _, has := current["text"]; has {
				merged := cloneValue(current).(map[string]any)
				merged["text"] = p
				return merged
			}
			if _, has := current["content"]; has {
				merged := cloneValue(current).(map[string]any)
				merged["content"] = p
				return merged
			}
		}
		return p
	case map[string]any, Data:
		patchObj, _ := asObject(p)
		merged := map[string]any{}
		if current, ok := asObject(existing); ok {
			for key, value := range current {
				merged[key] = cloneValue(value)
			}
		}
		for key, value := range patchObj {
			merged[key] = cloneValue(value)
		}
		return merged
	default:
		return cloneValue(p)
	}
}

func arrayValue(value any) []any {
	switch v := value.(type) {
	case []any:
		return cloneValue(v).([]any)
	case []string, []map[string]any:
		return cloneValue(v).([]any)
	default:
		return []any{}
	}
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Data:
		return map[string]any(v), true
	default:
		return nil, false
	}
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, sec := range s.doc.Sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) renormalize() {
	for i := range s.doc.Sections {
		s.doc.Sections[i].Order = float64(i)
	}
}

func (s *Store) touch() {
	s.doc.LastUpdated = s.now()
}
