package service

import (
	"encoding/json"
	"exam_architect_backend/internal/model"
	"exam_architect_backend/internal/util"
	"strconv"
)

// ConverterService 内部嵌套树结构与扁平线上格式之间的双向转换
type ConverterService struct{}

func NewConverterService() *ConverterService {
	return &ConverterService{}
}

// 导入失败时暴露给 UI 层的提示文案
const (
	ImportParseErrorMessage    = "Failed to parse the JSON file. Please check the file format."
	ImportInvalidFormatMessage = "Invalid exam format. Please check your JSON file structure."
)

// ValidateExamData 对导入数据做结构校验，任何一项不满足都直接拒绝，
// 不做部分导入。校验项：exam_description 存在且 title 为非空字符串、
// duration 与 passing_score 为数字、sections 为非空数组、
// questions 与 options 为数组。
func (s *ConverterService) ValidateExamData(data interface{}) bool {
	root, ok := data.(map[string]interface{})
	if !ok {
		return false
	}

	examDesc, ok := root["exam_description"].(map[string]interface{})
	if !ok {
		return false
	}
	title, ok := examDesc["title"].(string)
	if !ok || title == "" {
		return false
	}
	if _, ok := examDesc["duration"].(float64); !ok {
		return false
	}
	if _, ok := examDesc["passing_score"].(float64); !ok {
		return false
	}

	sections, ok := root["sections"].([]interface{})
	if !ok || len(sections) == 0 {
		return false
	}
	if _, ok := root["questions"].([]interface{}); !ok {
		return false
	}
	if _, ok := root["options"].([]interface{}); !ok {
		return false
	}

	return true
}

// ParseImportedExam 解析并校验导入文件。
// 解析失败与结构非法是两类错误，分别返回对应的提示文案；
// 两者都不会改动任何已有文档状态。
func (s *ConverterService) ParseImportedExam(data []byte) (*model.ExportableExam, string) {
	var loose interface{}
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil, ImportParseErrorMessage
	}
	if !s.ValidateExamData(loose) {
		return nil, ImportInvalidFormatMessage
	}

	var raw model.ExportableExam
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ImportInvalidFormatMessage
	}
	return &raw, ""
}

// ConvertImportedExamToAppFormat 线上格式 → 内部树结构。
// 题目按 section_id 分组，选项按 question_id 归属；language 缺省为 english。
// 考试 id 不沿用导入文件，重新分配会话本地 id；
// 分区/题目/选项保留原数字 id（转为字符串）。导入的实体全部视为干净：
// New 与 Edited 均为 false，后续任何修改才会打 Edited 标记。
func (s *ConverterService) ConvertImportedExamToAppFormat(raw *model.ExportableExam) (model.ExamDescription, []model.Section) {
	exam := model.ExamDescription{
		ID:           util.GenerateTimestampID(""),
		Title:        raw.ExamDescription.Title,
		Description:  raw.ExamDescription.Description,
		Duration:     strconv.Itoa(raw.ExamDescription.Duration),
		PassingScore: strconv.Itoa(raw.ExamDescription.PassingScore),
	}

	questionsBySection := make(map[int][]model.Question)
	for _, q := range raw.Questions {
		options := make([]model.Option, 0)
		for _, o := range raw.Options {
			if o.QuestionID == q.ID {
				options = append(options, model.Option{
					ID:         strconv.Itoa(o.ID),
					QuestionID: strconv.Itoa(o.QuestionID),
					Text:       o.Text,
					IsCorrect:  o.IsCorrect,
				})
			}
		}

		language := q.Language
		if language == "" {
			language = model.LanguageEnglish
		}

		questionsBySection[q.SectionID] = append(questionsBySection[q.SectionID], model.Question{
			ID:          strconv.Itoa(q.ID),
			SectionID:   strconv.Itoa(q.SectionID),
			Language:    language,
			Text:        q.Text,
			Description: q.Description,
			Marks:       q.Marks,
			Options:     options,
		})
	}

	sections := make([]model.Section, 0, len(raw.Sections))
	for _, sec := range raw.Sections {
		questions := questionsBySection[sec.ID]
		if questions == nil {
			questions = []model.Question{}
		}
		sections = append(sections, model.Section{
			ID:         strconv.Itoa(sec.ID),
			Title:      sec.Title,
			Questions:  questions,
			IsExpanded: true,
		})
	}

	return exam, sections
}

// ConvertAppDataToExportFormat 完整导出：不看任何编辑/新建标记，整树拍平。
// 新建考试发布走这条路径（没有可比对的基线）。
func (s *ConverterService) ConvertAppDataToExportFormat(exam model.ExamDescription, sections []model.Section) *model.ExportableExam {
	export := &model.ExportableExam{
		ExamDescription: model.WireExamDescription{
			Title:        exam.Title,
			Description:  exam.Description,
			Duration:     atoiSafe(exam.Duration),
			PassingScore: atoiSafe(exam.PassingScore),
		},
		Sections:  []model.WireSection{},
		Questions: []model.WireQuestion{},
		Options:   []model.WireOption{},
	}

	for _, section := range sections {
		sectionID := atoiSafe(section.ID)
		export.Sections = append(export.Sections, model.WireSection{
			ID:    sectionID,
			Title: section.Title,
		})

		for _, question := range section.Questions {
			questionID := atoiSafe(question.ID)
			export.Questions = append(export.Questions, model.WireQuestion{
				ID:          questionID,
				SectionID:   sectionID,
				Text:        question.Text,
				Description: question.Description,
				Marks:       question.Marks,
				Language:    question.Language,
			})

			for _, option := range question.Options {
				export.Options = append(export.Options, model.WireOption{
					ID:         atoiSafe(option.ID),
					QuestionID: questionID,
					Text:       option.Text,
					IsCorrect:  option.IsCorrect,
				})
			}
		}
	}

	return export
}

// ConvertAppDataToExportEditFormat 增量导出：只包含 isXEdited || isXNew 的行，
// 外加三份删除 id 列表，让服务端做最小变更而不是整体替换。
func (s *ConverterService) ConvertAppDataToExportEditFormat(
	exam model.ExamDescription,
	sections []model.Section,
	deletedSectionIDs, deletedQuestionIDs, deletedOptionIDs []string,
) *model.ExportableEditExam {
	export := &model.ExportableEditExam{
		ExamDescription: model.WireExamDescription{
			Title:        exam.Title,
			Description:  exam.Description,
			Duration:     atoiSafe(exam.Duration),
			PassingScore: atoiSafe(exam.PassingScore),
		},
		Sections:        []model.WireSection{},
		Questions:       []model.WireQuestion{},
		Options:         []model.WireOption{},
		DeletedSections: emptyIfNil(deletedSectionIDs),
		DeletedQuestion: emptyIfNil(deletedQuestionIDs),
		DeletedOptions:  emptyIfNil(deletedOptionIDs),
	}

	for _, section := range sections {
		sectionID := atoiSafe(section.ID)

		if section.IsSectionEdited || section.IsSectionNew {
			export.Sections = append(export.Sections, model.WireSection{
				ID:    sectionID,
				Title: section.Title,
			})
		}

		for _, question := range section.Questions {
			questionID := atoiSafe(question.ID)

			if question.IsQuestionEdited || question.IsQuestionNew {
				export.Questions = append(export.Questions, model.WireQuestion{
					ID:          questionID,
					SectionID:   sectionID,
					Text:        question.Text,
					Description: question.Description,
					Marks:       question.Marks,
					Language:    question.Language,
				})
			}

			for _, option := range question.Options {
				if option.IsOptionEdited || option.IsOptionNew {
					export.Options = append(export.Options, model.WireOption{
						ID:         atoiSafe(option.ID),
						QuestionID: questionID,
						Text:       option.Text,
						IsCorrect:  option.IsCorrect,
					})
				}
			}
		}
	}

	return export
}

// atoiSafe 内部 id 都是数字字符串（ID 生成器只产数字），这里的回退只是兜底
func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
