package service

import (
	"bytes"
	"context"
	"encoding/json"
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/repository"
	"exam_architect_backend/pkg/logger"
	"exam_architect_backend/pkg/monitoring"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PublishSnapshot 发布时刻的文档快照
type PublishSnapshot struct {
	Exam               model.ExamDescription
	Sections           []model.Section
	DeletedSectionIDs  []string
	DeletedQuestionIDs []string
	DeletedOptionIDs   []string
}

// PublishService 把当前文档提交到上游端点：
// 新考试走 POST {base}/submit 全量，已有考试走 PUT {base}/update 增量。
// 对调用方只暴露成功/失败一个布尔值，网络异常与非 2xx 状态一视同仁。
type PublishService struct {
	Converter *ConverterService
	Repo      *repository.ExamRepository
	Storage   *StorageService
	Client    *http.Client
	BaseURL   string
}

func NewPublishService(converter *ConverterService, repo *repository.ExamRepository, storage *StorageService, baseURL string, timeout time.Duration) *PublishService {
	return &PublishService{
		Converter: converter,
		Repo:      repo,
		Storage:   storage,
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   baseURL,
	}
}

// Publish 按 isExamNew 选择创建或更新路径，返回是否成功
func (s *PublishService) Publish(ctx context.Context, snapshot PublishSnapshot, isExamNew bool) bool {
	var (
		payload []byte
		method  string
		url     string
		mode    string
		err     error
	)

	if isExamNew {
		export := s.Converter.ConvertAppDataToExportFormat(snapshot.Exam, snapshot.Sections)
		payload, err = json.Marshal(export)
		method = http.MethodPost
		url = s.BaseURL + "/submit"
		mode = "create"
	} else {
		export := s.Converter.ConvertAppDataToExportEditFormat(
			snapshot.Exam, snapshot.Sections,
			snapshot.DeletedSectionIDs, snapshot.DeletedQuestionIDs, snapshot.DeletedOptionIDs,
		)
		payload, err = json.Marshal(export)
		method = http.MethodPut
		url = s.BaseURL + "/update"
		mode = "update"
	}

	if err != nil {
		logger.Log.Error("Failed to serialize publish payload",
			zap.String("examId", snapshot.Exam.ID), zap.Error(err))
		s.record(snapshot.Exam.ID, mode, false, 0, 0)
		return false
	}

	statusCode := 0
	success := false

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		logger.Log.Error("Failed to build publish request",
			zap.String("examId", snapshot.Exam.ID), zap.Error(err))
		s.record(snapshot.Exam.ID, mode, false, 0, len(payload))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		logger.Log.Error("Publish request failed",
			zap.String("examId", snapshot.Exam.ID), zap.String("mode", mode), zap.Error(err))
	} else {
		defer resp.Body.Close()
		statusCode = resp.StatusCode
		success = resp.StatusCode >= 200 && resp.StatusCode < 300
		if !success {
			logger.Log.Error("Publish rejected by upstream",
				zap.String("examId", snapshot.Exam.ID),
				zap.String("mode", mode),
				zap.Int("status", resp.StatusCode))
		}
	}

	if success && s.Storage != nil {
		kind := "export"
		if mode == "update" {
			kind = "export_edit"
		}
		if _, err := s.Storage.ArchiveExamJSON(ctx, snapshot.Exam.ID, kind, payload); err != nil {
			logger.Log.Warn("Failed to archive published payload",
				zap.String("examId", snapshot.Exam.ID), zap.Error(err))
		}
	}

	s.record(snapshot.Exam.ID, mode, success, statusCode, len(payload))
	return success
}

func (s *PublishService) record(examID, mode string, success bool, statusCode, payloadSize int) {
	result := "failure"
	if success {
		result = "success"
	}
	monitoring.PublishCounter.WithLabelValues(mode, result).Inc()

	if s.Repo == nil {
		return
	}
	now := time.Now()
	record := &model.PublishRecord{
		ExamID:      examID,
		Mode:        mode,
		Success:     success,
		StatusCode:  statusCode,
		PayloadSize: payloadSize,
		PublishedAt: &now,
	}
	if err := s.Repo.CreatePublishRecord(record); err != nil {
		logger.Log.Warn("Failed to persist publish record", zap.String("examId", examID), zap.Error(err))
	}
}
