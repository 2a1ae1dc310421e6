package service

import (
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/util"
	"fmt"
	"strings"
)

// SectionState 分区管理器状态：有序分区列表、标题编辑草稿、
// 当前激活的分区页签以及本次会话删除的分区 id 日志。
type SectionState struct {
	Sections          []model.Section `json:"sections"`
	CurrentSectionTab int             `json:"currentSectionTab"`
	IsEditingTitle    bool            `json:"isEditingTitle"`
	EditedTitle       string          `json:"editedTitle"`
	DeletedSectionIDs []string        `json:"deletedSectionIds"`
}

// SectionService 分区管理器。无内部状态，所有操作作用于传入的 SectionState，
// 由 DocumentService 统一持有并加锁。
type SectionService struct{}

func NewSectionService() *SectionService {
	return &SectionService{}
}

// DefaultSection 新建考试时的初始分区
func (s *SectionService) DefaultSection() model.Section {
	return model.Section{
		ID:           util.GenerateNumericID(4),
		Title:        "Section 1",
		Questions:    []model.Question{},
		IsExpanded:   true,
		IsSectionNew: true,
	}
}

// AddSection 追加新分区并把激活页签移到新分区
func (s *SectionService) AddSection(st *SectionState) *model.Section {
	section := model.Section{
		ID:           util.GenerateNumericID(4),
		Title:        fmt.Sprintf("Section %d", len(st.Sections)+1),
		Questions:    []model.Question{},
		IsExpanded:   true,
		IsSectionNew: true,
	}
	st.Sections = append(st.Sections, section)
	st.CurrentSectionTab = len(st.Sections) - 1
	return &st.Sections[len(st.Sections)-1]
}

// DeleteSection 从列表移除分区并记录删除 id；激活页签越界时向下收敛，最小为 0
func (s *SectionService) DeleteSection(st *SectionState, sectionID string) error {
	idx := -1
	for i, sec := range st.Sections {
		if sec.ID == sectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return util.ErrSectionNotFound
	}

	st.Sections = append(st.Sections[:idx], st.Sections[idx+1:]...)
	st.DeletedSectionIDs = append(st.DeletedSectionIDs, sectionID)

	if st.CurrentSectionTab >= len(st.Sections) {
		st.CurrentSectionTab = len(st.Sections) - 1
	}
	if st.CurrentSectionTab < 0 {
		st.CurrentSectionTab = 0
	}
	return nil
}

// UpdateSection 按 id 整体替换分区。本方法不打 isSectionEdited 标记：
// 改标题的调用方在替换载荷里显式设置，而展开/收起不算编辑。
func (s *SectionService) UpdateSection(st *SectionState, updated model.Section) error {
	for i, sec := range st.Sections {
		if sec.ID == updated.ID {
			st.Sections[i] = updated
			return nil
		}
	}
	return util.ErrSectionNotFound
}

// ToggleSectionExpand 只切换展示状态，不触发脏标记
func (s *SectionService) ToggleSectionExpand(st *SectionState, sectionID string) error {
	for i, sec := range st.Sections {
		if sec.ID == sectionID {
			st.Sections[i].IsExpanded = !sec.IsExpanded
			return nil
		}
	}
	return util.ErrSectionNotFound
}

// StartEditingTitle 进入标题编辑态，草稿初始化为当前标题
func (s *SectionService) StartEditingTitle(st *SectionState, sectionID string) error {
	sec := s.findSection(st, sectionID)
	if sec == nil {
		return util.ErrSectionNotFound
	}
	st.IsEditingTitle = true
	st.EditedTitle = sec.Title
	return nil
}

// ChangeTitleDraft 修改标题草稿
func (s *SectionService) ChangeTitleDraft(st *SectionState, value string) {
	st.EditedTitle = value
}

// SaveTitle 提交标题草稿。空白标题静默放弃保存（编辑态保持打开），
// 这是有意的宽松校验策略，不作为错误上报。
func (s *SectionService) SaveTitle(st *SectionState, sectionID string) (bool, error) {
	sec := s.findSection(st, sectionID)
	if sec == nil {
		return false, util.ErrSectionNotFound
	}
	if strings.TrimSpace(st.EditedTitle) == "" {
		return false, nil
	}

	updated := *sec
	updated.Title = st.EditedTitle
	updated.IsSectionEdited = true
	if err := s.UpdateSection(st, updated); err != nil {
		return false, err
	}
	st.IsEditingTitle = false
	return true, nil
}

// CancelEditTitle 放弃标题编辑，草稿回退为当前标题
func (s *SectionService) CancelEditTitle(st *SectionState, sectionID string) error {
	sec := s.findSection(st, sectionID)
	if sec == nil {
		return util.ErrSectionNotFound
	}
	st.EditedTitle = sec.Title
	st.IsEditingTitle = false
	return nil
}

// SetActiveTab 切换激活分区页签，越界视为参数错误
func (s *SectionService) SetActiveTab(st *SectionState, index int) error {
	if index < 0 || index >= len(st.Sections) {
		return util.ErrSectionNotFound
	}
	st.CurrentSectionTab = index
	return nil
}

func (s *SectionService) findSection(st *SectionState, sectionID string) *model.Section {
	for i := range st.Sections {
		if st.Sections[i].ID == sectionID {
			return &st.Sections[i]
		}
	}
	return nil
}
