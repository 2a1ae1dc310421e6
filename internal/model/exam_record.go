package model

import "time"

// ExamRecord 已保存考试的摘要记录（MySQL 持久化，相当于原 savedExams 列表）
// swagger:model ExamRecord
type ExamRecord struct {
	BaseModel
	ExamID       string `gorm:"size:36;uniqueIndex;not null" json:"examId"`
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Duration     string `gorm:"size:20" json:"duration"`
	PassingScore string `gorm:"size:20" json:"passingScore"`
	IsImported   bool   `gorm:"default:false" json:"isImported"`
}

func (ExamRecord) TableName() string {
	return "exam_records"
}

// PublishRecord 发布审计记录：每次 create/update 发布的结果
type PublishRecord struct {
	BaseModel
	ExamID      string     `gorm:"size:36;index" json:"examId"`
	Mode        string     `gorm:"size:10;not null" json:"mode"` // create | update
	Success     bool       `gorm:"default:false" json:"success"`
	StatusCode  int        `gorm:"default:0" json:"statusCode"`
	PayloadSize int        `gorm:"default:0" json:"payloadSize"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (PublishRecord) TableName() string {
	return "publish_records"
}
