package controller

import (
	"errors"
	"exam_architect_backend/internal/service"
	"exam_architect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.DocumentService
}

func NewExamController(svc *service.DocumentService) *ExamController {
	return &ExamController{Service: svc}
}

// respondError 把领域错误映射到 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrOptionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNoActiveDraft),
		errors.Is(err, util.ErrWrongEditorState),
		errors.Is(err, util.ErrMaxOptions),
		errors.Is(err, util.ErrMinOptions),
		errors.Is(err, util.ErrInvalidLanguage),
		errors.Is(err, util.ErrInvalidExamData):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPublishInFlight):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建考试
// @Tags 考试
// @Accept json
// @Produce json
// @Param body body service.CreateExamRequest true "考试信息"
// @Success 201 {object} util.Response
// @Router /api/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req service.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// @Summary 获取已保存考试列表
// @Tags 考试
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	records, err := c.Service.ListExams()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": records, "total": len(records)})
}

// @Summary 打开考试编辑文档（有未完成会话时自动恢复）
// @Tags 考试
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId} [get]
func (c *ExamController) OpenExam(ctx *gin.Context) {
	view, err := c.Service.OpenExam(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 修改考试元数据
// @Tags 考试
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body service.CreateExamRequest true "考试信息"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	var req service.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.UpdateExamMetadata(ctx.Request.Context(), ctx.Param("examId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 放弃未完成的编辑会话
// @Tags 考试
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/session [delete]
func (c *ExamController) AbandonSession(ctx *gin.Context) {
	if err := c.Service.AbandonSession(ctx.Request.Context(), ctx.Param("examId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, "会话已清除")
}

// @Summary 窗口关闭信标（客户端 beforeunload 时调用）
// @Tags 考试
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/window-closed [post]
func (c *ExamController) WindowClosed(ctx *gin.Context) {
	if err := c.Service.WindowClosed(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
