package repository

import (
	"exam_architect_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) CreateExam(record *model.ExamRecord) error {
	return r.DB.Create(record).Error
}

func (r *ExamRepository) FindByExamID(examID string) (*model.ExamRecord, error) {
	var record model.ExamRecord
	err := r.DB.Where("exam_id = ?", examID).First(&record).Error
	return &record, err
}

func (r *ExamRepository) ExistsByTitle(title string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExamRecord{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

func (r *ExamRepository) UpdateExam(record *model.ExamRecord) error {
	return r.DB.Save(record).Error
}

func (r *ExamRepository) ListExams() ([]model.ExamRecord, error) {
	var records []model.ExamRecord
	err := r.DB.Order("created_at desc").Find(&records).Error
	return records, err
}

func (r *ExamRepository) DeleteExam(examID string) error {
	return r.DB.Where("exam_id = ?", examID).Delete(&model.ExamRecord{}).Error
}

// Publish records

func (r *ExamRepository) CreatePublishRecord(record *model.PublishRecord) error {
	return r.DB.Create(record).Error
}

func (r *ExamRepository) ListPublishRecords(examID string, limit int) ([]model.PublishRecord, error) {
	var records []model.PublishRecord
	query := r.DB.Model(&model.PublishRecord{}).Order("created_at desc").Limit(limit)
	if examID != "" {
		query = query.Where("exam_id = ?", examID)
	}
	err := query.Find(&records).Error
	return records, err
}
