package service

import (
	"context"
	"errors"
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/repository"
	"exam_architect_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newDocumentService(sessions repository.SessionRepository, publishURL string) *DocumentService {
	converter := NewConverterService()
	var publisher *PublishService
	if publishURL != "" {
		publisher = NewPublishService(converter, nil, nil, publishURL, 5*time.Second)
	}
	return NewDocumentService(
		NewSectionService(),
		NewQuestionService(),
		converter,
		publisher,
		sessions,
		nil,
		nil,
		time.Hour,
	)
}

func validCreateRequest() CreateExamRequest {
	return CreateExamRequest{
		Title:        "Networks 101",
		Description:  "Intro networking exam",
		Duration:     "90",
		PassingScore: "60",
	}
}

func TestCreateExam(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a document with one default section", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Exam.ID) != 4 {
			t.Fatalf("expected 4-digit exam id, got %q", view.Exam.ID)
		}
		if len(view.Sections) != 1 || view.Sections[0].Title != "Section 1" {
			t.Fatalf("expected default Section 1, got %+v", view.Sections)
		}
		if !view.IsExamNew {
			t.Fatal("created exam must be flagged new")
		}
		if view.EditorPhase != PhaseIdle {
			t.Fatalf("editor must start idle, got %s", view.EditorPhase)
		}
	})

	t.Run("session snapshot is written immediately", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		svc := newDocumentService(sessions, "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		state, err := sessions.GetSession(ctx, view.Exam.ID)
		if err != nil || state == nil {
			t.Fatalf("expected a persisted session, got %v %v", state, err)
		}
		if state.ExamDetails.Title != "Networks 101" {
			t.Fatalf("snapshot mismatch: %+v", state.ExamDetails)
		}
		if state.LastEdited == "" {
			t.Fatal("snapshot must carry a timestamp")
		}
	})

	t.Run("rejects invalid forms", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		cases := []struct {
			name   string
			mutate func(r *CreateExamRequest)
		}{
			{"blank title", func(r *CreateExamRequest) { r.Title = "   " }},
			{"non numeric duration", func(r *CreateExamRequest) { r.Duration = "ninety" }},
			{"score above 100", func(r *CreateExamRequest) { r.PassingScore = "120" }},
			{"negative score", func(r *CreateExamRequest) { r.PassingScore = "-1" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateRequest()
				tc.mutate(&req)
				if _, err := svc.CreateExam(ctx, req); err != util.ErrInvalidExamData {
					t.Fatalf("expected ErrInvalidExamData, got %v", err)
				}
			})
		}
	})
}

func TestUpdateExamMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the document", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		req := validCreateRequest()
		req.Title = "Networks 102"
		req.Duration = "120"
		updated, err := svc.UpdateExamMetadata(ctx, view.Exam.ID, req)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Exam.Title != "Networks 102" || updated.Exam.Duration != "120" {
			t.Fatalf("metadata not applied: %+v", updated.Exam)
		}
	})

	t.Run("rejects the same invalid forms as creation", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		cases := []struct {
			name   string
			mutate func(r *CreateExamRequest)
		}{
			{"blank title", func(r *CreateExamRequest) { r.Title = "   " }},
			{"non numeric duration", func(r *CreateExamRequest) { r.Duration = "ninety" }},
			{"score above 100", func(r *CreateExamRequest) { r.PassingScore = "250" }},
			{"negative score", func(r *CreateExamRequest) { r.PassingScore = "-5" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateRequest()
				tc.mutate(&req)
				if _, uerr := svc.UpdateExamMetadata(ctx, view.Exam.ID, req); uerr != util.ErrInvalidExamData {
					t.Fatalf("expected ErrInvalidExamData, got %v", uerr)
				}
			})
		}

		// 失败的更新不能留下痕迹
		current, err := svc.OpenExam(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		if current.Exam.Duration != "90" || current.Exam.PassingScore != "60" {
			t.Fatalf("rejected update leaked into the document: %+v", current.Exam)
		}
	})
}

// flakySessionRepository 模拟一次性会话存储故障
type flakySessionRepository struct {
	*repository.MemorySessionRepository
	failNext bool
}

func (f *flakySessionRepository) SaveSession(ctx context.Context, examID string, state *model.ExamSessionState) error {
	if f.failNext {
		f.failNext = false
		return errors.New("session store unavailable")
	}
	return f.MemorySessionRepository.SaveSession(ctx, examID, state)
}

func TestFlushDirtyRetriesAfterStoreFailure(t *testing.T) {
	ctx := context.Background()
	sessions := &flakySessionRepository{MemorySessionRepository: repository.NewMemorySessionRepository()}
	svc := newDocumentService(sessions, "")

	view, err := svc.CreateExam(ctx, validCreateRequest())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddSection(ctx, view.Exam.ID); err != nil {
		t.Fatal(err)
	}

	// 第一次刷盘撞上存储故障，变更必须保留到下一轮
	sessions.failNext = true
	svc.FlushDirty(ctx)

	state, err := sessions.GetSession(ctx, view.Exam.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Sections) != 1 {
		t.Fatalf("failed flush must not write, store has %d sections", len(state.Sections))
	}

	svc.FlushDirty(ctx)

	state, err = sessions.GetSession(ctx, view.Exam.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Sections) != 2 {
		t.Fatalf("recovered flush must persist the change, store has %d sections", len(state.Sections))
	}
}

func TestSessionRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("unfinished session is restored", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		first := newDocumentService(sessions, "")
		view, err := first.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := first.AddSection(ctx, view.Exam.ID); err != nil {
			t.Fatal(err)
		}
		first.FlushDirty(ctx)

		// 新进程：内存文档丢失，只剩会话存储
		second := newDocumentService(sessions, "")
		restored, err := second.OpenExam(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Restored {
			t.Fatal("expected the session to be restored")
		}
		if len(restored.Sections) != 2 {
			t.Fatalf("restored document lost edits: %d sections", len(restored.Sections))
		}
	})

	t.Run("closed window starts fresh", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		first := newDocumentService(sessions, "")
		view, err := first.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		if err := first.WindowClosed(ctx); err != nil {
			t.Fatal(err)
		}

		// 没有考试目录的话，丢弃会话后无从重建文档
		second := newDocumentService(sessions, "")
		if _, err := second.OpenExam(ctx, view.Exam.ID); err != util.ErrExamNotFound {
			t.Fatalf("expected ErrExamNotFound after discarding the session, got %v", err)
		}

		// 残留会话被清掉，标记被复位
		if state, _ := sessions.GetSession(ctx, view.Exam.ID); state != nil {
			t.Fatal("stale session must be cleared")
		}
		if closed, _ := sessions.WasWindowClosed(ctx); closed {
			t.Fatal("window closed flag must reset after it is honored")
		}
	})

	t.Run("corrupt session falls back to not found", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		first := newDocumentService(sessions, "")
		view, err := first.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		sessions.CorruptSession(view.Exam.ID)

		second := newDocumentService(sessions, "")
		if _, err := second.OpenExam(ctx, view.Exam.ID); err != util.ErrExamNotFound {
			t.Fatalf("corrupt session must behave like a missing one, got %v", err)
		}
	})

	t.Run("live document wins over the stored session", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		svc := newDocumentService(sessions, "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		reopened, err := svc.OpenExam(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		if reopened.Restored {
			t.Fatal("an in-memory document is not a restore")
		}
	})

	t.Run("abandon clears everything", func(t *testing.T) {
		sessions := repository.NewMemorySessionRepository()
		svc := newDocumentService(sessions, "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.AbandonSession(ctx, view.Exam.ID); err != nil {
			t.Fatal(err)
		}
		if state, _ := sessions.GetSession(ctx, view.Exam.ID); state != nil {
			t.Fatal("abandoned session must be cleared")
		}
		if _, err := svc.OpenExam(ctx, view.Exam.ID); err != util.ErrExamNotFound {
			t.Fatalf("abandoned document must be gone, got %v", err)
		}
	})
}

// addQuestion 走完整的编辑器流程给当前文档添一道题
func addQuestion(t *testing.T, svc *DocumentService, examID, sectionID, text string) *DocumentView {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.OpenQuestionEditor(ctx, examID, sectionID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SelectQuestionLanguage(ctx, examID, model.LanguageEnglish); err != nil {
		t.Fatal(err)
	}
	view, err := svc.UpdateQuestionDraft(ctx, examID, text, "", 2)
	if err != nil {
		t.Fatal(err)
	}
	opts := view.Draft.Options
	if _, err := svc.ChangeDraftOptionText(ctx, examID, opts[0].ID, "right"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ChangeDraftOptionText(ctx, examID, opts[1].ID, "wrong"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetDraftCorrectOption(ctx, examID, opts[0].ID); err != nil {
		t.Fatal(err)
	}

	result, after, err := svc.SubmitQuestionDraft(ctx, examID)
	if err != nil {
		t.Fatal(err)
	}
	if !result.OK {
		t.Fatalf("expected submit to pass, reasons: %v", result.Reasons)
	}
	return after
}

func TestDocumentEditing(t *testing.T) {
	ctx := context.Background()

	t.Run("full question workflow lands in the section", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		sectionID := view.Sections[0].ID

		after := addQuestion(t, svc, view.Exam.ID, sectionID, "What does TCP stand for?")
		if len(after.Sections[0].Questions) != 1 {
			t.Fatalf("question not added: %+v", after.Sections[0])
		}
		if after.TotalQuestions != 1 || after.TotalMarks != 2 {
			t.Fatalf("derived totals wrong: %d questions, %d marks",
				after.TotalQuestions, after.TotalMarks)
		}
		if after.EditorPhase != PhaseIdle {
			t.Fatal("editor must reset after submit")
		}
	})

	t.Run("editing replaces the question in place", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		sectionID := view.Sections[0].ID
		after := addQuestion(t, svc, view.Exam.ID, sectionID, "original")
		questionID := after.Sections[0].Questions[0].ID

		if _, err := svc.OpenQuestionForEdit(ctx, view.Exam.ID, sectionID, questionID); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.UpdateQuestionDraft(ctx, view.Exam.ID, "revised", "", 5); err != nil {
			t.Fatal(err)
		}
		result, final, err := svc.SubmitQuestionDraft(ctx, view.Exam.ID)
		if err != nil || !result.OK {
			t.Fatalf("edit submit failed: %v %v", result.Reasons, err)
		}

		questions := final.Sections[0].Questions
		if len(questions) != 1 {
			t.Fatalf("edit must replace, not append: %d questions", len(questions))
		}
		if questions[0].ID != questionID || questions[0].Text != "revised" || questions[0].Marks != 5 {
			t.Fatalf("edit not applied: %+v", questions[0])
		}
		if !questions[0].IsQuestionEdited {
			t.Fatal("edited question must be stamped")
		}
	})

	t.Run("failed submit resets the editor but keeps the section intact", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		sectionID := view.Sections[0].ID
		if _, err := svc.OpenQuestionEditor(ctx, view.Exam.ID, sectionID); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.SelectQuestionLanguage(ctx, view.Exam.ID, model.LanguageEnglish); err != nil {
			t.Fatal(err)
		}

		result, after, err := svc.SubmitQuestionDraft(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		if result.OK {
			t.Fatal("blank draft must fail validation")
		}
		if after.EditorPhase != PhaseIdle {
			t.Fatal("failed submit must reset the editor")
		}
		if len(after.Sections[0].Questions) != 0 {
			t.Fatal("failed submit must not touch the section")
		}
	})

	t.Run("deleting a question records its id for the diff", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		sectionID := view.Sections[0].ID
		after := addQuestion(t, svc, view.Exam.ID, sectionID, "doomed")
		questionID := after.Sections[0].Questions[0].ID

		final, err := svc.DeleteQuestion(ctx, view.Exam.ID, sectionID, questionID)
		if err != nil {
			t.Fatal(err)
		}
		if len(final.Sections[0].Questions) != 0 {
			t.Fatal("question must be removed")
		}

		diff, err := svc.ExportEdit(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, id := range diff.DeletedQuestion {
			if id == questionID {
				found = true
			}
		}
		if !found {
			t.Fatalf("deleted question id missing from diff: %v", diff.DeletedQuestion)
		}
	})

	t.Run("operations on unknown exams fail", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		if _, err := svc.AddSection(ctx, "0000"); err != util.ErrExamNotFound {
			t.Fatalf("expected ErrExamNotFound, got %v", err)
		}
	})
}

func TestImportExam(t *testing.T) {
	ctx := context.Background()

	t.Run("valid file becomes an open document", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		payload := []byte(`{
			"exam_description": {"title": "Imported", "description": "x", "duration": 45, "passing_score": 50},
			"sections": [{"id": 1, "title": "Only"}],
			"questions": [{"id": 10, "section_id": 1, "text": "q", "marks": 1}],
			"options": [
				{"id": 100, "question_id": 10, "text": "a", "is_correct": true},
				{"id": 101, "question_id": 10, "text": "b", "is_correct": false}
			]
		}`)

		view, errMsg := svc.ImportExam(ctx, payload)
		if errMsg != "" {
			t.Fatalf("unexpected import error: %s", errMsg)
		}
		if view.IsExamNew {
			t.Fatal("imported exams publish as updates, not creates")
		}
		if len(view.Sections) != 1 || len(view.Sections[0].Questions) != 1 {
			t.Fatalf("imported tree wrong: %+v", view.Sections)
		}

		// 导入后可以直接继续编辑
		reopened, err := svc.OpenExam(ctx, view.Exam.ID)
		if err != nil {
			t.Fatal(err)
		}
		if reopened.Exam.Title != "Imported" {
			t.Fatalf("imported document not open: %+v", reopened.Exam)
		}
	})

	t.Run("invalid file leaves no document behind", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "")
		view, errMsg := svc.ImportExam(ctx, []byte(`{"foo": 1}`))
		if errMsg != ImportInvalidFormatMessage {
			t.Fatalf("expected format error, got %q", errMsg)
		}
		if view != nil {
			t.Fatal("failed import must not create a document")
		}
	})
}

func TestDocumentPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("new document publishes as a create", func(t *testing.T) {
		srv, captured := publishTarget(t, http.StatusOK)
		svc := newDocumentService(repository.NewMemorySessionRepository(), srv.URL)

		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		ok, err := svc.Publish(ctx, view.Exam.ID, nil)
		if err != nil || !ok {
			t.Fatalf("publish failed: ok=%v err=%v", ok, err)
		}
		if captured.Method != http.MethodPost || captured.Path != "/submit" {
			t.Fatalf("new exam must POST /submit, got %s %s", captured.Method, captured.Path)
		}
	})

	t.Run("explicit flag overrides the document", func(t *testing.T) {
		srv, captured := publishTarget(t, http.StatusOK)
		svc := newDocumentService(repository.NewMemorySessionRepository(), srv.URL)

		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}
		asUpdate := false
		if _, err := svc.Publish(ctx, view.Exam.ID, &asUpdate); err != nil {
			t.Fatal(err)
		}
		if captured.Method != http.MethodPut || captured.Path != "/update" {
			t.Fatalf("override must PUT /update, got %s %s", captured.Method, captured.Path)
		}
	})

	t.Run("only one publish in flight per document", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		svc := newDocumentService(repository.NewMemorySessionRepository(), srv.URL)
		view, err := svc.CreateExam(ctx, validCreateRequest())
		if err != nil {
			t.Fatal(err)
		}

		started := make(chan struct{})
		done := make(chan struct{})
		go func() {
			close(started)
			svc.Publish(ctx, view.Exam.ID, nil)
			close(done)
		}()
		<-started
		time.Sleep(50 * time.Millisecond) // 等第一个发布拿到在途标记

		if _, err := svc.Publish(ctx, view.Exam.ID, nil); err != util.ErrPublishInFlight {
			t.Fatalf("expected ErrPublishInFlight, got %v", err)
		}

		release <- struct{}{}
		<-done
	})

	t.Run("unknown exam", func(t *testing.T) {
		svc := newDocumentService(repository.NewMemorySessionRepository(), "http://127.0.0.1:1")
		if _, err := svc.Publish(ctx, "0000", nil); err != util.ErrExamNotFound {
			t.Fatalf("expected ErrExamNotFound, got %v", err)
		}
	})
}
