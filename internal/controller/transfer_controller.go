package controller

import (
	"exam_architect_backend/internal/service"
	"exam_architect_backend/internal/util"
	"io"

	"github.com/gin-gonic/gin"
)

// TransferController 考试文件的导入导出
type TransferController struct {
	Service *service.DocumentService
}

func NewTransferController(svc *service.DocumentService) *TransferController {
	return &TransferController{Service: svc}
}

// 导入文件大小上限 5MB
const maxImportSize = 5 << 20

// @Summary 导入考试 JSON 文件
// @Tags 导入导出
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "考试 JSON 文件"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/exams/import [post]
func (c *TransferController) Import(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}
	defer file.Close()

	if header.Size > maxImportSize {
		util.BadRequest(ctx, "文件过大")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	view, errMsg := c.Service.ImportExam(ctx.Request.Context(), data)
	if errMsg != "" {
		util.BadRequest(ctx, errMsg)
		return
	}

	util.Created(ctx, view)
}

// @Summary 全量导出考试
// @Tags 导入导出
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} model.ExportableExam
// @Router /api/exams/{examId}/export [get]
func (c *TransferController) ExportFull(ctx *gin.Context) {
	export, err := c.Service.ExportFull(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	// 导出直接返回线上格式本体，不套统一响应壳，便于下载后原样再导入
	ctx.Header("Content-Disposition", `attachment; filename="exam_`+ctx.Param("examId")+`.json"`)
	ctx.JSON(200, export)
}

// @Summary 增量导出考试（仅含编辑过/新增的实体和删除 id 清单）
// @Tags 导入导出
// @Produce json
// @Param examId path string true "考试ID"
// @Success 200 {object} model.ExportableEditExam
// @Router /api/exams/{examId}/export/edit [get]
func (c *TransferController) ExportEdit(ctx *gin.Context) {
	export, err := c.Service.ExportEdit(ctx.Request.Context(), ctx.Param("examId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="exam_`+ctx.Param("examId")+`_edit.json"`)
	ctx.JSON(200, export)
}
