package controller

import (
	"exam_architect_backend/internal/service"
	"exam_architect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SectionController struct {
	Service *service.DocumentService
}

func NewSectionController(svc *service.DocumentService) *SectionController {
	return &SectionController{Service: svc}
}

// @Summary 新增分区
// @Tags 分区
// @Produce json
// @Param examId path string true "考试ID"
// @Success 201 {object} util.Response
// @Router /api/exams/{examId}/sections [post]
func (c *SectionController) AddSection(ctx *gin.Context) {
	view, err := c.Service.AddSection(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// @Summary 删除分区
// @Tags 分区
// @Produce json
// @Param examId path string true "考试ID"
// @Param sectionId path string true "分区ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/sections/{sectionId} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	view, err := c.Service.DeleteSection(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("sectionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SectionTitleRequest struct {
	Title string `json:"title"`
}

// @Summary 修改分区标题（空白标题静默忽略）
// @Tags 分区
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param sectionId path string true "分区ID"
// @Param body body SectionTitleRequest true "标题"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/sections/{sectionId}/title [put]
func (c *SectionController) SaveTitle(ctx *gin.Context) {
	var req SectionTitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.SaveSectionTitle(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("sectionId"), req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 展开/收起分区
// @Tags 分区
// @Produce json
// @Param examId path string true "考试ID"
// @Param sectionId path string true "分区ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/sections/{sectionId}/toggle [post]
func (c *SectionController) ToggleSection(ctx *gin.Context) {
	view, err := c.Service.ToggleSection(ctx.Request.Context(), ctx.Param("examId"), ctx.Param("sectionId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type ActiveTabRequest struct {
	Index *int `json:"index" binding:"required"`
}

// @Summary 切换激活分区页签
// @Tags 分区
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body ActiveTabRequest true "页签下标"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/sections/active-tab [put]
func (c *SectionController) SetActiveTab(ctx *gin.Context) {
	var req ActiveTabRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.SetActiveTab(ctx.Request.Context(), ctx.Param("examId"), *req.Index)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
