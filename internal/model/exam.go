package model

// QuestionLanguage 题目语言，决定前端的排版方向（阿拉伯语为 RTL）
type QuestionLanguage string

const (
	LanguageEnglish QuestionLanguage = "english"
	LanguageArabic  QuestionLanguage = "arabic"
)

// Valid 仅允许 english / arabic 两种语言
func (l QuestionLanguage) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

// ExamDescription 考试元数据
// duration 和 passingScore 按原始表单语义保存为字符串（数字约束在创建时校验）
// swagger:model ExamDescription
type ExamDescription struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     string `json:"duration"`
	PassingScore string `json:"passingScore"`
}

// Option 题目的单个选项
// swagger:model Option
type Option struct {
	ID             string `json:"id"`
	QuestionID     string `json:"question_id"`
	Text           string `json:"text"`
	IsCorrect      bool   `json:"isCorrect"`
	IsOptionEdited bool   `json:"isOptionEdited"`
	IsOptionNew    bool   `json:"isOptionNew"`
}

// Question 题目，language 创建后不可变更
// swagger:model Question
type Question struct {
	ID               string           `json:"id"`
	SectionID        string           `json:"section_id"`
	Language         QuestionLanguage `json:"language"`
	Text             string           `json:"text"`
	Description      string           `json:"description"`
	Options          []Option         `json:"options"`
	Marks            int              `json:"marks"`
	IsQuestionEdited bool             `json:"isQuestionEdited"`
	IsQuestionNew    bool             `json:"isQuestionNew"`
}

// Section 考试的一个分区
// IsExpanded 只是展示状态，不参与持久化正确性，也不触发脏标记
// swagger:model Section
type Section struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Questions       []Question `json:"questions"`
	IsExpanded      bool       `json:"isExpanded"`
	IsSectionEdited bool       `json:"isSectionEdited"`
	IsSectionNew    bool       `json:"isSectionNew"`
}

// TotalMarks 分区内所有题目的分值合计
func (s *Section) TotalMarks() int {
	total := 0
	for _, q := range s.Questions {
		total += q.Marks
	}
	return total
}

// QuestionCount 分区内的题目数量
func (s *Section) QuestionCount() int {
	return len(s.Questions)
}

// ExamSessionState 会话持久化快照，对应 Redis 中 examSession_<examId> 键
type ExamSessionState struct {
	ExamDetails *ExamDescription `json:"examDetails"`
	Sections    []Section        `json:"sections"`
	LastEdited  string           `json:"lastEdited"` // ISO 8601
}
