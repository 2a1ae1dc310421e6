package app

import (
	"exam_architect_backend/docs"
	"exam_architect_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/window-closed", c.exam.WindowClosed)

		// 考试目录与文档生命周期
		api.POST("/exams", c.exam.CreateExam)
		api.GET("/exams", c.exam.ListExams)
		api.POST("/exams/import", c.transfer.Import)
		api.GET("/exams/:examId", c.exam.OpenExam)
		api.PUT("/exams/:examId", c.exam.UpdateExam)
		api.DELETE("/exams/:examId/session", c.exam.AbandonSession)

		// 分区
		api.POST("/exams/:examId/sections", c.section.AddSection)
		api.PUT("/exams/:examId/sections/active-tab", c.section.SetActiveTab)
		api.DELETE("/exams/:examId/sections/:sectionId", c.section.DeleteSection)
		api.PUT("/exams/:examId/sections/:sectionId/title", c.section.SaveTitle)
		api.POST("/exams/:examId/sections/:sectionId/toggle", c.section.ToggleSection)
		api.DELETE("/exams/:examId/sections/:sectionId/questions/:questionId", c.question.DeleteQuestion)

		// 题目编辑器
		editor := api.Group("/exams/:examId/editor")
		{
			editor.POST("/open", c.question.Open)
			editor.POST("/language", c.question.SelectLanguage)
			editor.POST("/edit", c.question.Edit)
			editor.PUT("/draft", c.question.UpdateDraft)
			editor.POST("/options", c.question.AddOption)
			editor.DELETE("/options/:optionId", c.question.RemoveOption)
			editor.PUT("/options/:optionId/text", c.question.ChangeOptionText)
			editor.PUT("/options/:optionId/correct", c.question.SetCorrectOption)
			editor.POST("/submit", c.question.Submit)
			editor.POST("/cancel", c.question.Cancel)
		}

		// 导出与发布
		api.GET("/exams/:examId/export", c.transfer.ExportFull)
		api.GET("/exams/:examId/export/edit", c.transfer.ExportEdit)
		api.POST("/exams/:examId/publish", c.publish.Publish)
		api.GET("/exams/:examId/publish/records", c.publish.ListRecords)
	}
}
