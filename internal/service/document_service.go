package service

import (
	"context"
	"encoding/json"
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/repository"
	"exam_architect_backend/internal/util"
	"exam_architect_backend/pkg/logger"
	"exam_architect_backend/pkg/monitoring"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Document 一次考试编辑会话的全部内存状态：
// 考试元数据 + 分区管理器 + 题目编辑器 + 脏标记。
// 同一时刻每个考试 id 只有一个活动文档。
type Document struct {
	mu           sync.Mutex
	Exam         model.ExamDescription
	SectionState SectionState
	EditorState  EditorState
	IsExamNew    bool
	dirty        bool
	publishing   bool
}

// DocumentView 返回给客户端的文档快照
type DocumentView struct {
	Exam              model.ExamDescription `json:"exam"`
	Sections          []model.Section       `json:"sections"`
	CurrentSectionTab int                   `json:"currentSectionTab"`
	IsEditingTitle    bool                  `json:"isEditingTitle"`
	EditedTitle       string                `json:"editedTitle"`
	EditorPhase       EditorPhase           `json:"editorPhase"`
	Draft             *QuestionDraft        `json:"draft,omitempty"`
	IsExamNew         bool                  `json:"isExamNew"`
	Restored          bool                  `json:"restored"`
	TotalQuestions    int                   `json:"totalQuestions"`
	TotalMarks        int                   `json:"totalMarks"`
}

// CreateExamRequest 新建考试的表单
type CreateExamRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Duration     string `json:"duration" binding:"required"`
	PassingScore string `json:"passingScore" binding:"required"`
}

// DocumentService 文档控制器：组合考试元数据、分区管理器与题目编辑器，
// 是内存文档的唯一持有者。自身不做业务规则，只做组合、初始化
// 和集中的脏标记管理，并把快照镜像到会话存储。
type DocumentService struct {
	mu   sync.RWMutex
	docs map[string]*Document

	Sections  *SectionService
	Questions *QuestionService
	Converter *ConverterService
	Publisher *PublishService
	SessRepo  repository.SessionRepository
	ExamRepo  *repository.ExamRepository
	Storage   *StorageService

	autosaveInterval time.Duration
	stopC            chan struct{}
	stopOnce         sync.Once
}

func NewDocumentService(
	sections *SectionService,
	questions *QuestionService,
	converter *ConverterService,
	publisher *PublishService,
	sessRepo repository.SessionRepository,
	examRepo *repository.ExamRepository,
	storage *StorageService,
	autosaveInterval time.Duration,
) *DocumentService {
	return &DocumentService{
		docs:             map[string]*Document{},
		Sections:         sections,
		Questions:        questions,
		Converter:        converter,
		Publisher:        publisher,
		SessRepo:         sessRepo,
		ExamRepo:         examRepo,
		Storage:          storage,
		autosaveInterval: autosaveInterval,
		stopC:            make(chan struct{}),
	}
}

// StartAutosave 启动后台刷盘循环：变更只打脏标记，
// 由固定间隔的循环把脏文档写入会话存储，限制写放大同时约束丢数据窗口。
func (s *DocumentService) StartAutosave() {
	go func() {
		ticker := time.NewTicker(s.autosaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.FlushDirty(context.Background())
			case <-s.stopC:
				return
			}
		}
	}()
}

// StopAutosave 停止刷盘循环并做最后一次全量刷盘
func (s *DocumentService) StopAutosave() {
	s.stopOnce.Do(func() {
		close(s.stopC)
	})
	s.FlushDirty(context.Background())
}

// FlushDirty 把所有脏文档写入会话存储
func (s *DocumentService) FlushDirty(ctx context.Context) {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	for _, d := range docs {
		d.mu.Lock()
		if !d.dirty {
			d.mu.Unlock()
			continue
		}
		state := &model.ExamSessionState{
			ExamDetails: cloneExam(d.Exam),
			Sections:    cloneSections(d.SectionState.Sections),
			LastEdited:  time.Now().Format(time.RFC3339),
		}
		examID := d.Exam.ID
		d.dirty = false
		d.mu.Unlock()

		if err := s.SessRepo.SaveSession(ctx, examID, state); err != nil {
			logger.Log.Error("Failed to autosave exam session",
				zap.String("examId", examID), zap.Error(err))
			// 保存失败要留到下一轮重试，否则这次变更就丢了
			d.mu.Lock()
			d.dirty = true
			d.mu.Unlock()
			continue
		}
		monitoring.AutosaveCounter.Inc()
	}
}

// validateExamForm 考试表单校验：标题和描述非空，时长为数字，
// 及格分为 0-100 的数字。新建和修改元数据共用。
func validateExamForm(req CreateExamRequest) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" ||
		req.Duration == "" || req.PassingScore == "" {
		return util.ErrInvalidExamData
	}
	if _, err := strconv.Atoi(req.Duration); err != nil {
		return util.ErrInvalidExamData
	}
	score, err := strconv.Atoi(req.PassingScore)
	if err != nil || score < 0 || score > 100 {
		return util.ErrInvalidExamData
	}
	return nil
}

// CreateExam 新建考试：校验表单、生成会话 id、挂默认 Section 1，
// 写入考试目录并立即落一次会话快照。
func (s *DocumentService) CreateExam(ctx context.Context, req CreateExamRequest) (*DocumentView, error) {
	if err := validateExamForm(req); err != nil {
		return nil, err
	}

	exam := model.ExamDescription{
		ID:           util.GenerateNumericID(4),
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		PassingScore: req.PassingScore,
	}

	doc := &Document{
		Exam: exam,
		SectionState: SectionState{
			Sections:          []model.Section{s.Sections.DefaultSection()},
			DeletedSectionIDs: []string{},
		},
		EditorState: EditorState{Phase: PhaseIdle},
		IsExamNew:   true,
		dirty:       true,
	}

	s.mu.Lock()
	s.docs[exam.ID] = doc
	s.mu.Unlock()

	if s.ExamRepo != nil {
		record := &model.ExamRecord{
			ExamID:       exam.ID,
			Title:        exam.Title,
			Description:  exam.Description,
			Duration:     exam.Duration,
			PassingScore: exam.PassingScore,
		}
		if err := s.ExamRepo.CreateExam(record); err != nil {
			logger.Log.Error("Failed to persist exam record",
				zap.String("examId", exam.ID), zap.Error(err))
		}
	}

	s.FlushDirty(ctx)
	return s.viewOf(doc, false), nil
}

// OpenExam 打开一个考试的编辑文档。
// 恢复/重新开始启发式：上次 beforeunload 信号把 windowWasClosed 置位的话，
// 视为用户关过窗口——清掉残留草稿、从头开始；否则有匹配的会话快照就恢复。
// 标记在判定后即复位（best-effort，强制终止时信号可能根本没发出）。
func (s *DocumentService) OpenExam(ctx context.Context, examID string) (*DocumentView, error) {
	s.mu.RLock()
	doc, live := s.docs[examID]
	s.mu.RUnlock()
	if live {
		doc.mu.Lock()
		defer doc.mu.Unlock()
		return s.viewOf(doc, false), nil
	}

	wasClosed, err := s.SessRepo.WasWindowClosed(ctx)
	if err != nil {
		logger.Log.Error("Failed to read window closed flag", zap.Error(err))
		wasClosed = false
	}
	if wasClosed {
		if err := s.SessRepo.SetWindowClosed(ctx, false); err != nil {
			logger.Log.Error("Failed to reset window closed flag", zap.Error(err))
		}
		if err := s.SessRepo.ClearSession(ctx, examID); err != nil {
			logger.Log.Error("Failed to clear stale session", zap.String("examId", examID), zap.Error(err))
		}
	}

	restored := false
	var exam model.ExamDescription
	var sections []model.Section

	if !wasClosed {
		state, err := s.SessRepo.GetSession(ctx, examID)
		if err != nil {
			return nil, err
		}
		if state != nil && state.ExamDetails != nil && state.ExamDetails.ID == examID {
			exam = *state.ExamDetails
			sections = state.Sections
			restored = true
		}
	}

	isExamNew := true
	if s.ExamRepo != nil {
		record, err := s.ExamRepo.FindByExamID(examID)
		if err == nil {
			isExamNew = !record.IsImported
			if !restored {
				exam = model.ExamDescription{
					ID:           record.ExamID,
					Title:        record.Title,
					Description:  record.Description,
					Duration:     record.Duration,
					PassingScore: record.PassingScore,
				}
				sections = []model.Section{s.Sections.DefaultSection()}
			}
		} else if !restored {
			return nil, util.ErrExamNotFound
		}
	} else if !restored {
		return nil, util.ErrExamNotFound
	}

	doc = &Document{
		Exam: exam,
		SectionState: SectionState{
			Sections:          sections,
			DeletedSectionIDs: []string{},
		},
		EditorState: EditorState{Phase: PhaseIdle},
		IsExamNew:   isExamNew,
	}

	s.mu.Lock()
	s.docs[examID] = doc
	s.mu.Unlock()

	outcome := "fresh"
	if restored {
		outcome = "resume"
	}
	monitoring.SessionRestoreCounter.WithLabelValues(outcome).Inc()

	doc.mu.Lock()
	defer doc.mu.Unlock()
	return s.viewOf(doc, restored), nil
}

// UpdateExamMetadata 修改考试元数据并同步考试目录
func (s *DocumentService) UpdateExamMetadata(ctx context.Context, examID string, req CreateExamRequest) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if verr := validateExamForm(req); verr != nil {
			return verr
		}
		d.Exam.Title = req.Title
		d.Exam.Description = req.Description
		d.Exam.Duration = req.Duration
		d.Exam.PassingScore = req.PassingScore
		d.dirty = true
		view = s.viewOf(d, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.ExamRepo != nil {
		if record, ferr := s.ExamRepo.FindByExamID(examID); ferr == nil {
			record.Title = req.Title
			record.Description = req.Description
			record.Duration = req.Duration
			record.PassingScore = req.PassingScore
			if uerr := s.ExamRepo.UpdateExam(record); uerr != nil {
				logger.Log.Error("Failed to update exam record",
					zap.String("examId", examID), zap.Error(uerr))
			}
		}
	}
	return view, nil
}

// WindowClosed beforeunload 信标：置位"窗口已关闭"标记
func (s *DocumentService) WindowClosed(ctx context.Context) error {
	return s.SessRepo.SetWindowClosed(ctx, true)
}

// AbandonSession 用户选择不恢复：清掉草稿并释放内存文档
func (s *DocumentService) AbandonSession(ctx context.Context, examID string) error {
	s.mu.Lock()
	delete(s.docs, examID)
	s.mu.Unlock()
	return s.SessRepo.ClearSession(ctx, examID)
}

// ---- 分区操作（全部经由文档控制器，脏标记集中在这里打）----

func (s *DocumentService) AddSection(ctx context.Context, examID string) (*DocumentView, error) {
	return s.mutate(examID, func(d *Document) error {
		s.Sections.AddSection(&d.SectionState)
		return nil
	})
}

func (s *DocumentService) DeleteSection(ctx context.Context, examID, sectionID string) (*DocumentView, error) {
	return s.mutate(examID, func(d *Document) error {
		return s.Sections.DeleteSection(&d.SectionState, sectionID)
	})
}

// SaveSectionTitle 提交标题修改。空白标题静默放弃（不报错、不打脏标记）。
func (s *DocumentService) SaveSectionTitle(ctx context.Context, examID, sectionID, title string) (*DocumentView, error) {
	return s.mutate(examID, func(d *Document) error {
		if err := s.Sections.StartEditingTitle(&d.SectionState, sectionID); err != nil {
			return err
		}
		s.Sections.ChangeTitleDraft(&d.SectionState, title)
		saved, err := s.Sections.SaveTitle(&d.SectionState, sectionID)
		if err != nil {
			return err
		}
		if !saved {
			// 放弃保存也退出编辑态，草稿回退
			return s.Sections.CancelEditTitle(&d.SectionState, sectionID)
		}
		return nil
	})
}

func (s *DocumentService) ToggleSection(ctx context.Context, examID, sectionID string) (*DocumentView, error) {
	// 展开/收起是纯展示状态：不打脏标记，不触发刷盘
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Sections.ToggleSectionExpand(&d.SectionState, sectionID); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) SetActiveTab(ctx context.Context, examID string, index int) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Sections.SetActiveTab(&d.SectionState, index); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

// ---- 题目编辑器操作 ----

func (s *DocumentService) OpenQuestionEditor(ctx context.Context, examID, sectionID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if s.Sections.findSection(&d.SectionState, sectionID) == nil {
			return util.ErrSectionNotFound
		}
		s.Questions.OpenForCreate(&d.EditorState, sectionID)
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) SelectQuestionLanguage(ctx context.Context, examID string, language model.QuestionLanguage) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.SelectLanguage(&d.EditorState, language); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) OpenQuestionForEdit(ctx context.Context, examID, sectionID, questionID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		sec := s.Sections.findSection(&d.SectionState, sectionID)
		if sec == nil {
			return util.ErrSectionNotFound
		}
		for _, q := range sec.Questions {
			if q.ID == questionID {
				s.Questions.OpenForEdit(&d.EditorState, sectionID, q)
				view = s.viewOf(d, false)
				return nil
			}
		}
		return util.ErrQuestionNotFound
	})
	return view, err
}

func (s *DocumentService) UpdateQuestionDraft(ctx context.Context, examID, text, description string, marks int) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.UpdateDraft(&d.EditorState, text, description, marks); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) AddDraftOption(ctx context.Context, examID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.AddOption(&d.EditorState); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) RemoveDraftOption(ctx context.Context, examID, optionID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.RemoveOption(&d.EditorState, optionID); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) ChangeDraftOptionText(ctx context.Context, examID, optionID, text string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.ChangeOptionText(&d.EditorState, optionID, text); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

func (s *DocumentService) SetDraftCorrectOption(ctx context.Context, examID, optionID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := s.Questions.SetCorrectOption(&d.EditorState, optionID); err != nil {
			return err
		}
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

// SubmitQuestionDraft 提交草稿。校验通过时：编辑模式按 id 替换，
// 新建模式追加到目标分区；失败时草稿已被编辑器重置，原因返回给上层。
func (s *DocumentService) SubmitQuestionDraft(ctx context.Context, examID string) (ValidationResult, *DocumentView, error) {
	var result ValidationResult
	view, err := s.mutate(examID, func(d *Document) error {
		targetSectionID := d.EditorState.Draft.TargetSectionID
		isEditing := d.EditorState.Draft.IsEditing

		res, question := s.Questions.Submit(&d.EditorState)
		result = res
		if !res.OK {
			return nil
		}

		sec := s.Sections.findSection(&d.SectionState, targetSectionID)
		if sec == nil {
			return util.ErrSectionNotFound
		}

		updated := *sec
		if isEditing {
			replaced := false
			questions := make([]model.Question, len(sec.Questions))
			copy(questions, sec.Questions)
			for i, q := range questions {
				if q.ID == question.ID {
					questions[i] = *question
					replaced = true
					break
				}
			}
			if !replaced {
				return util.ErrQuestionNotFound
			}
			updated.Questions = questions
		} else {
			updated.Questions = append(append([]model.Question{}, sec.Questions...), *question)
		}
		return s.Sections.UpdateSection(&d.SectionState, updated)
	})
	if err != nil {
		return ValidationResult{}, nil, err
	}
	return result, view, nil
}

func (s *DocumentService) CancelQuestionDraft(ctx context.Context, examID string) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		s.Questions.Reset(&d.EditorState)
		view = s.viewOf(d, false)
		return nil
	})
	return view, err
}

// DeleteQuestion 把题目移出分区并记录删除 id
func (s *DocumentService) DeleteQuestion(ctx context.Context, examID, sectionID, questionID string) (*DocumentView, error) {
	return s.mutate(examID, func(d *Document) error {
		sec := s.Sections.findSection(&d.SectionState, sectionID)
		if sec == nil {
			return util.ErrSectionNotFound
		}

		questions := make([]model.Question, 0, len(sec.Questions))
		found := false
		for _, q := range sec.Questions {
			if q.ID == questionID {
				found = true
				continue
			}
			questions = append(questions, q)
		}
		if !found {
			return util.ErrQuestionNotFound
		}

		s.Questions.DeleteQuestion(&d.EditorState, questionID)
		updated := *sec
		updated.Questions = questions
		return s.Sections.UpdateSection(&d.SectionState, updated)
	})
}

// ---- 导入/导出/发布 ----

// ImportExam 导入线上格式文件。失败时返回提示文案且不动任何已有状态。
func (s *DocumentService) ImportExam(ctx context.Context, data []byte) (*DocumentView, string) {
	raw, errMsg := s.Converter.ParseImportedExam(data)
	if errMsg != "" {
		return nil, errMsg
	}

	exam, sections := s.Converter.ConvertImportedExamToAppFormat(raw)

	doc := &Document{
		Exam: exam,
		SectionState: SectionState{
			Sections:          sections,
			DeletedSectionIDs: []string{},
		},
		EditorState: EditorState{Phase: PhaseIdle},
		IsExamNew:   false,
		dirty:       true,
	}

	s.mu.Lock()
	s.docs[exam.ID] = doc
	s.mu.Unlock()

	if s.ExamRepo != nil {
		// 同名考试不在目录里重复建档
		exists, err := s.ExamRepo.ExistsByTitle(exam.Title)
		if err == nil && !exists {
			record := &model.ExamRecord{
				ExamID:       exam.ID,
				Title:        exam.Title,
				Description:  exam.Description,
				Duration:     exam.Duration,
				PassingScore: exam.PassingScore,
				IsImported:   true,
			}
			if cerr := s.ExamRepo.CreateExam(record); cerr != nil {
				logger.Log.Error("Failed to persist imported exam record",
					zap.String("examId", exam.ID), zap.Error(cerr))
			}
		}
	}

	if s.Storage != nil {
		if _, err := s.Storage.ArchiveExamJSON(ctx, exam.ID, "import", data); err != nil {
			logger.Log.Warn("Failed to archive imported exam",
				zap.String("examId", exam.ID), zap.Error(err))
		}
	}

	s.FlushDirty(ctx)

	doc.mu.Lock()
	defer doc.mu.Unlock()
	return s.viewOf(doc, false), ""
}

// ListExams 已保存考试摘要
func (s *DocumentService) ListExams() ([]model.ExamRecord, error) {
	if s.ExamRepo == nil {
		return []model.ExamRecord{}, nil
	}
	return s.ExamRepo.ListExams()
}

// ExportFull 全量导出当前文档
func (s *DocumentService) ExportFull(ctx context.Context, examID string) (*model.ExportableExam, error) {
	var export *model.ExportableExam
	err := s.withDoc(examID, func(d *Document) error {
		export = s.Converter.ConvertAppDataToExportFormat(d.Exam, cloneSections(d.SectionState.Sections))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Storage != nil {
		if payload, merr := json.Marshal(export); merr == nil {
			if _, aerr := s.Storage.ArchiveExamJSON(ctx, examID, "export", payload); aerr != nil {
				logger.Log.Warn("Failed to archive export",
					zap.String("examId", examID), zap.Error(aerr))
			}
		}
	}
	return export, nil
}

// ExportEdit 增量导出当前文档
func (s *DocumentService) ExportEdit(ctx context.Context, examID string) (*model.ExportableEditExam, error) {
	var export *model.ExportableEditExam
	err := s.withDoc(examID, func(d *Document) error {
		export = s.Converter.ConvertAppDataToExportEditFormat(
			d.Exam,
			cloneSections(d.SectionState.Sections),
			d.SectionState.DeletedSectionIDs,
			d.EditorState.DeletedQuestionIDs,
			d.EditorState.DeletedOptionIDs,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return export, nil
}

// Publish 发布当前文档。同一文档同一时刻只允许一个发布在途，
// 发布期间释放文档锁（网络调用不持锁），结束后清除在途标记。
func (s *DocumentService) Publish(ctx context.Context, examID string, isExamNew *bool) (bool, error) {
	s.mu.RLock()
	doc, ok := s.docs[examID]
	s.mu.RUnlock()
	if !ok {
		return false, util.ErrExamNotFound
	}

	doc.mu.Lock()
	if doc.publishing {
		doc.mu.Unlock()
		return false, util.ErrPublishInFlight
	}
	doc.publishing = true

	snapshot := PublishSnapshot{
		Exam:               doc.Exam,
		Sections:           cloneSections(doc.SectionState.Sections),
		DeletedSectionIDs:  append([]string{}, doc.SectionState.DeletedSectionIDs...),
		DeletedQuestionIDs: append([]string{}, doc.EditorState.DeletedQuestionIDs...),
		DeletedOptionIDs:   append([]string{}, doc.EditorState.DeletedOptionIDs...),
	}
	asNew := doc.IsExamNew
	if isExamNew != nil {
		asNew = *isExamNew
	}
	doc.mu.Unlock()

	success := s.Publisher.Publish(ctx, snapshot, asNew)

	doc.mu.Lock()
	doc.publishing = false
	doc.mu.Unlock()

	return success, nil
}

// ---- 内部辅助 ----

func (s *DocumentService) withDoc(examID string, fn func(d *Document) error) error {
	s.mu.RLock()
	doc, ok := s.docs[examID]
	s.mu.RUnlock()
	if !ok {
		return util.ErrExamNotFound
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return fn(doc)
}

// mutate 执行变更并统一打脏标记，返回最新快照
func (s *DocumentService) mutate(examID string, fn func(d *Document) error) (*DocumentView, error) {
	var view *DocumentView
	err := s.withDoc(examID, func(d *Document) error {
		if err := fn(d); err != nil {
			return err
		}
		d.dirty = true
		view = s.viewOf(d, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// viewOf 调用方必须已持有 doc.mu
func (s *DocumentService) viewOf(d *Document, restored bool) *DocumentView {
	totalQuestions := 0
	totalMarks := 0
	for i := range d.SectionState.Sections {
		totalQuestions += d.SectionState.Sections[i].QuestionCount()
		totalMarks += d.SectionState.Sections[i].TotalMarks()
	}

	view := &DocumentView{
		Exam:              d.Exam,
		Sections:          cloneSections(d.SectionState.Sections),
		CurrentSectionTab: d.SectionState.CurrentSectionTab,
		IsEditingTitle:    d.SectionState.IsEditingTitle,
		EditedTitle:       d.SectionState.EditedTitle,
		EditorPhase:       d.EditorState.Phase,
		IsExamNew:         d.IsExamNew,
		Restored:          restored,
		TotalQuestions:    totalQuestions,
		TotalMarks:        totalMarks,
	}
	if d.EditorState.Phase != PhaseIdle {
		draft := d.EditorState.Draft
		draft.Options = append([]model.Option{}, d.EditorState.Draft.Options...)
		view.Draft = &draft
	}
	return view
}

func cloneExam(exam model.ExamDescription) *model.ExamDescription {
	clone := exam
	return &clone
}

func cloneSections(sections []model.Section) []model.Section {
	out := make([]model.Section, len(sections))
	for i, sec := range sections {
		clone := sec
		clone.Questions = make([]model.Question, len(sec.Questions))
		for j, q := range sec.Questions {
			qc := q
			qc.Options = append([]model.Option{}, q.Options...)
			clone.Questions[j] = qc
		}
		out[i] = clone
	}
	return out
}
