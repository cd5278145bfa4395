package section

// Panel 表示当前打开的编辑面板。
type Panel string

const (
	PanelNone       Panel = "none"
	PanelEdit       Panel = "edit"
	PanelAddSection Panel = "addSection"
)

// Tab 表示编辑面板中的标签页。
type Tab string

const (
	TabEdit      Tab = "edit"
	TabTemplates Tab = "templates"
)

// Valid 判断标签页取值是否合法。
func (t Tab) Valid() bool {
	return t == TabEdit || t == TabTemplates
}

// Session 记录编辑器的界面状态。所有转换均返回新值，不修改接收者。
type Session struct {
	EditingSectionID string `json:"editingSectionId,omitempty"`
	ActivePanel      Panel  `json:"activePanel"`
	ActiveTab        Tab    `json:"activeTab"`
	AfterSectionID   string `json:"afterSectionId,omitempty"`
	PreviewMode      bool   `json:"previewMode"`
}

// NewSession 返回初始的编辑会话。
func NewSession() Session {
	return Session{ActivePanel: PanelNone, ActiveTab: TabEdit}
}

// OpenEdit 选中区块并打开编辑面板，同时关闭添加区块面板。
func (s Session) OpenEdit(sectionID string) Session {
	s.EditingSectionID = sectionID
	s.ActivePanel = PanelEdit
	s.ActiveTab = TabEdit
	s.AfterSectionID = ""
	s.PreviewMode = false
	return s
}

// OpenAddSection 打开添加区块面板，记录插入位置，同时关闭编辑面板。
func (s Session) OpenAddSection(afterSectionID string) Session {
	s.ActivePanel = PanelAddSection
	s.AfterSectionID = afterSectionID
	s.PreviewMode = false
	return s
}

// CloseAll 关闭所有面板，保留当前选中的区块。
func (s Session) CloseAll() Session {
	s.ActivePanel = PanelNone
	s.AfterSectionID = ""
	return s
}

// WithTab 切换编辑面板的标签页，非法取值被忽略。
func (s Session) WithTab(tab Tab) Session {
	if tab.Valid() {
		s.ActiveTab = tab
	}
	return s
}

// WithPreview 切换预览模式，进入预览时关闭全部面板。
func (s Session) WithPreview(enabled bool) Session {
	s.PreviewMode = enabled
	if enabled {
		return s.CloseAll()
	}
	return s
}

// Forget 在区块被删除后清理对它的引用。
func (s Session) Forget(sectionID string) Session {
	if sectionID == "" {
		return s
	}
	if s.EditingSectionID == sectionID {
		s.EditingSectionID = ""
		if s.ActivePanel == PanelEdit {
			s.ActivePanel = PanelNone
		}
	}
	if s.AfterSectionID == sectionID {
		s.AfterSectionID = ""
	}
	return s
}
