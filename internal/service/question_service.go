package service

import (
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/util"
	"strings"
)

// EditorPhase 出题对话框工作流的阶段。
// 用显式状态机取代一组互相独立的布尔开关，杜绝"两个对话框同时打开"这类不一致。
type EditorPhase string

const (
	PhaseIdle             EditorPhase = "idle"
	PhaseChoosingLanguage EditorPhase = "choosing_language"
	PhaseEditingQuestion  EditorPhase = "editing_question"
)

// QuestionDraft 出题草稿
type QuestionDraft struct {
	TargetSectionID string                 `json:"targetSectionId"`
	QuestionID      string                 `json:"questionId,omitempty"` // 编辑模式下复用原题 id
	Language        model.QuestionLanguage `json:"language,omitempty"`
	Text            string                 `json:"text"`
	Description     string                 `json:"description"`
	Marks           int                    `json:"marks"`
	Options         []model.Option         `json:"options"`
	IsEditing       bool                   `json:"isEditing"`
	wasQuestionNew  bool                   // 编辑已有题目时保留原 New 标记
}

// EditorState 题目/选项编辑器状态与本会话的删除日志
type EditorState struct {
	Phase              EditorPhase   `json:"phase"`
	Draft              QuestionDraft `json:"draft"`
	DeletedQuestionIDs []string      `json:"deletedQuestionIds"`
	DeletedOptionIDs   []string      `json:"deletedOptionIds"`
}

// ValidationResult 草稿提交的结构化校验结果。
// 原实现静默丢弃非法提交；这里保留"失败即重置草稿"的行为，
// 但把原因暴露出去，上层 UI 可以选择展示。
type ValidationResult struct {
	OK      bool     `json:"ok"`
	Reasons []string `json:"reasons,omitempty"`
}

// QuestionService 题目编辑器，管理出题工作流和选项列表
type QuestionService struct{}

func NewQuestionService() *QuestionService {
	return &QuestionService{}
}

func defaultOption() model.Option {
	return model.Option{
		ID:          util.GenerateNumericID(4),
		Text:        "",
		IsCorrect:   false,
		IsOptionNew: true,
	}
}

// OpenForCreate 开始为指定分区出题：进入语言选择阶段
func (s *QuestionService) OpenForCreate(ed *EditorState, sectionID string) {
	ed.Phase = PhaseChoosingLanguage
	ed.Draft = QuestionDraft{
		TargetSectionID: sectionID,
		Marks:           util.DefaultQuestionMarks,
	}
}

// SelectLanguage 记录语言并进入题目编辑阶段，草稿预置两个空白选项
func (s *QuestionService) SelectLanguage(ed *EditorState, language model.QuestionLanguage) error {
	if ed.Phase != PhaseChoosingLanguage {
		return util.ErrWrongEditorState
	}
	if !language.Valid() {
		return util.ErrInvalidLanguage
	}
	ed.Draft.Language = language
	ed.Draft.Options = []model.Option{defaultOption(), defaultOption()}
	ed.Phase = PhaseEditingQuestion
	return nil
}

// OpenForEdit 编辑已有题目：语言固定，跳过语言选择，直接进入编辑阶段
func (s *QuestionService) OpenForEdit(ed *EditorState, sectionID string, question model.Question) {
	options := make([]model.Option, len(question.Options))
	copy(options, question.Options)

	ed.Phase = PhaseEditingQuestion
	ed.Draft = QuestionDraft{
		TargetSectionID: sectionID,
		QuestionID:      question.ID,
		Language:        question.Language,
		Text:            question.Text,
		Description:     question.Description,
		Marks:           question.Marks,
		Options:         options,
		IsEditing:       true,
		wasQuestionNew:  question.IsQuestionNew,
	}
}

// UpdateDraft 修改题干、说明与分值
func (s *QuestionService) UpdateDraft(ed *EditorState, text, description string, marks int) error {
	if ed.Phase != PhaseEditingQuestion {
		return util.ErrNoActiveDraft
	}
	ed.Draft.Text = text
	ed.Draft.Description = description
	if marks > 0 {
		ed.Draft.Marks = marks
	}
	return nil
}

// AddOption 追加空白选项，上限 6 个
func (s *QuestionService) AddOption(ed *EditorState) error {
	if ed.Phase != PhaseEditingQuestion {
		return util.ErrNoActiveDraft
	}
	if len(ed.Draft.Options) >= util.MaxOptionsPerQuestion {
		return util.ErrMaxOptions
	}
	ed.Draft.Options = append(ed.Draft.Options, defaultOption())
	return nil
}

// RemoveOption 按 id 删除选项并记录删除日志，仅剩 2 个时拒绝
func (s *QuestionService) RemoveOption(ed *EditorState, optionID string) error {
	if ed.Phase != PhaseEditingQuestion {
		return util.ErrNoActiveDraft
	}
	if len(ed.Draft.Options) <= util.MinOptionsPerQuestion {
		return util.ErrMinOptions
	}

	idx := -1
	for i, o := range ed.Draft.Options {
		if o.ID == optionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return util.ErrOptionNotFound
	}

	ed.DeletedOptionIDs = append(ed.DeletedOptionIDs, optionID)
	ed.Draft.Options = append(ed.Draft.Options[:idx], ed.Draft.Options[idx+1:]...)
	return nil
}

// ChangeOptionText 修改选项文本并打编辑标记
func (s *QuestionService) ChangeOptionText(ed *EditorState, optionID, text string) error {
	if ed.Phase != PhaseEditingQuestion {
		return util.ErrNoActiveDraft
	}
	for i, o := range ed.Draft.Options {
		if o.ID == optionID {
			ed.Draft.Options[i].Text = text
			ed.Draft.Options[i].IsOptionEdited = true
			return nil
		}
	}
	return util.ErrOptionNotFound
}

// SetCorrectOption 单选语义：设置某项为正确时，原子地把其它所有项置为不正确
func (s *QuestionService) SetCorrectOption(ed *EditorState, optionID string) error {
	if ed.Phase != PhaseEditingQuestion {
		return util.ErrNoActiveDraft
	}
	found := false
	for i := range ed.Draft.Options {
		if ed.Draft.Options[i].ID == optionID {
			ed.Draft.Options[i].IsCorrect = true
			found = true
		} else {
			ed.Draft.Options[i].IsCorrect = false
		}
	}
	if !found {
		return util.ErrOptionNotFound
	}
	return nil
}

// Submit 校验并组装题目。校验失败时草稿被重置（与原行为一致），
// 但结构化原因会返回给调用方。成功时返回组装好的 Question，
// 由 DocumentService 决定是追加还是按 id 替换。
func (s *QuestionService) Submit(ed *EditorState) (ValidationResult, *model.Question) {
	if ed.Phase != PhaseEditingQuestion {
		return ValidationResult{OK: false, Reasons: []string{"no question draft in progress"}}, nil
	}

	var reasons []string
	if strings.TrimSpace(ed.Draft.Text) == "" {
		reasons = append(reasons, "question text must not be empty")
	}
	correctCount := 0
	emptyOption := false
	for _, o := range ed.Draft.Options {
		if o.IsCorrect {
			correctCount++
		}
		if strings.TrimSpace(o.Text) == "" {
			emptyOption = true
		}
	}
	if emptyOption {
		reasons = append(reasons, "option text must not be empty")
	}
	if correctCount != 1 {
		reasons = append(reasons, "exactly one option must be marked correct")
	}

	if len(reasons) > 0 {
		s.Reset(ed)
		return ValidationResult{OK: false, Reasons: reasons}, nil
	}

	question := model.Question{
		SectionID:   ed.Draft.TargetSectionID,
		Language:    ed.Draft.Language,
		Text:        ed.Draft.Text,
		Description: ed.Draft.Description,
		Marks:       ed.Draft.Marks,
		Options:     ed.Draft.Options,
	}

	if ed.Draft.IsEditing {
		question.ID = ed.Draft.QuestionID
		question.IsQuestionNew = ed.Draft.wasQuestionNew
		question.IsQuestionEdited = true
	} else {
		question.ID = util.GenerateNumericID(4)
		question.IsQuestionNew = true
	}

	for i := range question.Options {
		question.Options[i].QuestionID = question.ID
	}

	s.Reset(ed)
	return ValidationResult{OK: true}, &question
}

// DeleteQuestion 记录删除 id；从分区移除由 DocumentService 经 UpdateSection 完成
func (s *QuestionService) DeleteQuestion(ed *EditorState, questionID string) {
	ed.DeletedQuestionIDs = append(ed.DeletedQuestionIDs, questionID)
}

// Reset 清空草稿，回到空闲态。删除日志保留整个会话
func (s *QuestionService) Reset(ed *EditorState) {
	ed.Phase = PhaseIdle
	ed.Draft = QuestionDraft{}
}
