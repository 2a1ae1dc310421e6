package model

// 导入/导出使用的扁平化线上格式：sections/questions/options 三个数组
// 通过数字外键互相引用，与内部嵌套树结构互相转换。

// WireExamDescription 线上格式的考试元数据
type WireExamDescription struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	PassingScore int    `json:"passing_score"`
}

// WireSection 线上格式的分区行
type WireSection struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// WireQuestion 线上格式的题目行，language 缺省时按 english 处理
type WireQuestion struct {
	ID          int              `json:"id"`
	SectionID   int              `json:"section_id"`
	Text        string           `json:"text"`
	Description string           `json:"description"`
	Marks       int              `json:"marks"`
	Language    QuestionLanguage `json:"language,omitempty"`
}

// WireOption 线上格式的选项行
type WireOption struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// ExportableExam 完整导出格式，同时也是导入的输入格式
// swagger:model ExportableExam
type ExportableExam struct {
	ExamDescription WireExamDescription `json:"exam_description"`
	Sections        []WireSection       `json:"sections"`
	Questions       []WireQuestion      `json:"questions"`
	Options         []WireOption        `json:"options"`
}

// ExportableEditExam 增量导出格式：只包含新增/已编辑的行，外加三份删除 id 列表
// swagger:model ExportableEditExam
type ExportableEditExam struct {
	ExamDescription WireExamDescription `json:"exam_description"`
	Sections        []WireSection       `json:"sections"`
	Questions       []WireQuestion      `json:"questions"`
	Options         []WireOption        `json:"options"`
	DeletedSections []string            `json:"deletedSectionsIds"`
	DeletedQuestion []string            `json:"deletedQuestionsIds"`
	DeletedOptions  []string            `json:"deletedOptionsIds"`
}
