package controller

import (
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/service"
	"exam_architect_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 单次最多返回的发布记录条数
const publishRecordLimit = 50

// PublishRecordLister 发布记录查询，由 repository.ExamRepository 实现
type PublishRecordLister interface {
	ListPublishRecords(examID string, limit int) ([]model.PublishRecord, error)
}

type PublishController struct {
	Service  *service.DocumentService
	ExamRepo PublishRecordLister
}

func NewPublishController(svc *service.DocumentService, examRepo PublishRecordLister) *PublishController {
	return &PublishController{Service: svc, ExamRepo: examRepo}
}

type PublishRequest struct {
	// 不传时沿用文档自身的新建/已有判定
	IsExamNew *bool `json:"isExamNew"`
}

// @Summary 发布考试。新考试全量提交，已有考试只提交增量
// @Tags 发布
// @Accept json
// @Produce json
// @Param examId path string true "考试ID"
// @Param body body PublishRequest false "发布参数"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/exams/{examId}/publish [post]
func (c *PublishController) Publish(ctx *gin.Context) {
	var req PublishRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	success, err := c.Service.Publish(ctx.Request.Context(), ctx.Param("examId"), req.IsExamNew)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !success {
		util.Error(ctx, 502, "发布失败，请稍后重试")
		return
	}

	util.Success(ctx, gin.H{"published": true})
}

// @Summary 获取考试的发布记录
// @Tags 发布
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{examId}/publish/records [get]
func (c *PublishController) ListRecords(ctx *gin.Context) {
	records, err := c.ExamRepo.ListPublishRecords(ctx.Param("examId"), publishRecordLimit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": records, "total": len(records)})
}
