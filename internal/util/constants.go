package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 题目选项数量限制
const (
	MinOptionsPerQuestion = 2
	MaxOptionsPerQuestion = 6
)

// 默认题目分值
const DefaultQuestionMarks = 1
