package controller

import (
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/service"
	"exam_architect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 题目编辑器接口。编辑器是每个文档一个的状态机：
// 空闲 → 选择语言 → 编辑中，所有操作都作用于当前文档的活动草稿。
type QuestionController struct {
	Service *service.DocumentService
}

func NewQuestionController(svc *service.DocumentService) *QuestionController {
	return &QuestionController{Service: svc}
}

type OpenEditorRequest struct {
	SectionID string `json:"sectionId" binding:"required"`
}

// @Summary 打开题目编辑器（新建题目，进入语言选择）
// @Tags 题目编辑器
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body OpenEditorRequest true "目标分区"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/open [post]
func (c *QuestionController) Open(ctx *gin.Context) {
	var req OpenEditorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.OpenQuestionEditor(ctx.Request.Context(), ctx.Param("examId"), req.SectionID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SelectLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// @Summary 选择题目语言，进入编辑态
// @Tags 题目编辑器
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body SelectLanguageRequest true "语言 english|arabic"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/language [post]
func (c *QuestionController) SelectLanguage(ctx *gin.Context) {
	var req SelectLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.SelectQuestionLanguage(ctx.Request.Context(), ctx.Param("examId"), model.QuestionLanguage(req.Language))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type EditQuestionRequest struct {
	SectionID  string `json:"sectionId" binding:"required"`
	QuestionID string `json:"questionId" binding:"required"`
}

// @Summary 编辑已有题目（跳过语言选择直接进入编辑态）
// @Tags 题目编辑器
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body EditQuestionRequest true "目标题目"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/edit [post]
func (c *QuestionController) Edit(ctx *gin.Context) {
	var req EditQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.OpenQuestionForEdit(ctx.Request.Context(), ctx.Param("examId"), req.SectionID, req.QuestionID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type DraftRequest struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Marks       int    `json:"marks"`
}

// @Summary 更新草稿的题干、描述和分值
// @Tags 题目编辑器
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body DraftRequest true "草稿内容"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/draft [put]
func (c *QuestionController) UpdateDraft(ctx *gin.Context) {
	var req DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.UpdateQuestionDraft(ctx.Request.Context(), ctx.Param("examId"), req.Text, req.Description, req.Marks)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 添加选项（上限 6 个）
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/options [post]
func (c *QuestionController) AddOption(ctx *gin.Context) {
	view, err := c.Service.AddDraftOption(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 删除选项（至少保留 2 个）
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Param optionId path string true "选项ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/options/{optionId} [delete]
func (c *QuestionController) RemoveOption(ctx *gin.Context) {
	view, err := c.Service.RemoveDraftOption(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("optionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type OptionTextRequest struct {
	Text string `json:"text"`
}

// @Summary 修改选项文本
// @Tags 题目编辑器
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param optionId path string true "选项ID"
// @Param body body OptionTextRequest true "选项文本"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/options/{optionId}/text [put]
func (c *QuestionController) ChangeOptionText(ctx *gin.Context) {
	var req OptionTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.ChangeDraftOptionText(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("optionId"), req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 设为正确答案（单选语义，原正确项自动取消）
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Param optionId path string true "选项ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/options/{optionId}/correct [put]
func (c *QuestionController) SetCorrectOption(ctx *gin.Context) {
	view, err := c.Service.SetDraftCorrectOption(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("optionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 提交草稿。校验失败返回 422 和原因列表，草稿同时被重置
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/exams/{examId}/editor/submit [post]
func (c *QuestionController) Submit(ctx *gin.Context) {
	result, view, err := c.Service.SubmitQuestionDraft(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !result.OK {
		util.ValidationFailed(ctx, result.Reasons)
		return
	}

	util.Success(ctx, view)
}

// @Summary 取消编辑，重置编辑器
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/editor/cancel [post]
func (c *QuestionController) Cancel(ctx *gin.Context) {
	view, err := c.Service.CancelQuestionDraft(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 删除题目
// @Tags 题目编辑器
// @Produce json
// @Param examId path string true "考试ID"
// @Param sectionId path string true "分区ID"
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/sections/{sectionId}/questions/{questionId} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	view, err := c.Service.DeleteQuestion(ctx.Request.Context(),
		ctx.Param("examId"), ctx.Param("sectionId"), ctx.Param("questionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
