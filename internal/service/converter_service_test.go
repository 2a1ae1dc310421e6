package service

import (
	"encoding/json"
	"exam_architect_backend/internal/model"
	"testing"
)

func sampleExam() (model.ExamDescription, []model.Section) {
	exam := model.ExamDescription{
		ID:           "4821",
		Title:        "Networks 101",
		Description:  "Intro networking exam",
		Duration:     "90",
		PassingScore: "60",
	}
	sections := []model.Section{
		{
			ID:    "1001",
			Title: "Protocols",
			Questions: []model.Question{
				{
					ID:        "2001",
					SectionID: "1001",
					Language:  model.LanguageEnglish,
					Text:      "What does TCP stand for?",
					Marks:     2,
					Options: []model.Option{
						{ID: "3001", QuestionID: "2001", Text: "Transmission Control Protocol", IsCorrect: true},
						{ID: "3002", QuestionID: "2001", Text: "Transfer Control Protocol"},
					},
				},
			},
			IsExpanded: true,
		},
		{
			ID:         "1002",
			Title:      "Routing",
			Questions:  []model.Question{},
			IsExpanded: true,
		},
	}
	return exam, sections
}

func TestValidateExamData(t *testing.T) {
	svc := NewConverterService()

	valid := map[string]interface{}{
		"exam_description": map[string]interface{}{
			"title":         "Networks 101",
			"description":   "x",
			"duration":      float64(90),
			"passing_score": float64(60),
		},
		"sections":  []interface{}{map[string]interface{}{"id": float64(1), "title": "s"}},
		"questions": []interface{}{},
		"options":   []interface{}{},
	}

	cases := []struct {
		name   string
		mutate func(m map[string]interface{})
		want   bool
	}{
		{"valid payload", func(m map[string]interface{}) {}, true},
		{"missing exam description", func(m map[string]interface{}) { delete(m, "exam_description") }, false},
		{"empty title", func(m map[string]interface{}) {
			m["exam_description"].(map[string]interface{})["title"] = ""
		}, false},
		{"duration as string", func(m map[string]interface{}) {
			m["exam_description"].(map[string]interface{})["duration"] = "90"
		}, false},
		{"no sections", func(m map[string]interface{}) { m["sections"] = []interface{}{} }, false},
		{"questions not an array", func(m map[string]interface{}) { m["questions"] = "nope" }, false},
		{"missing options", func(m map[string]interface{}) { delete(m, "options") }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, _ := json.Marshal(valid)
			var clone map[string]interface{}
			json.Unmarshal(data, &clone)
			tc.mutate(clone)
			if got := svc.ValidateExamData(clone); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseImportedExam(t *testing.T) {
	svc := NewConverterService()

	t.Run("malformed json reports a parse error", func(t *testing.T) {
		_, errMsg := svc.ParseImportedExam([]byte("{not json"))
		if errMsg != ImportParseErrorMessage {
			t.Fatalf("expected parse error message, got %q", errMsg)
		}
	})

	t.Run("structurally invalid json reports a format error", func(t *testing.T) {
		_, errMsg := svc.ParseImportedExam([]byte(`{"foo": 1}`))
		if errMsg != ImportInvalidFormatMessage {
			t.Fatalf("expected format error message, got %q", errMsg)
		}
	})
}

func TestImportConversion(t *testing.T) {
	svc := NewConverterService()

	raw := &model.ExportableExam{
		ExamDescription: model.WireExamDescription{Title: "Networks 101", Duration: 90, PassingScore: 60},
		Sections:        []model.WireSection{{ID: 1001, Title: "Protocols"}, {ID: 1002, Title: "Routing"}},
		Questions: []model.WireQuestion{
			{ID: 2001, SectionID: 1001, Text: "Q1", Marks: 2},
			{ID: 2002, SectionID: 1001, Text: "Q2", Marks: 1, Language: model.LanguageArabic},
		},
		Options: []model.WireOption{
			{ID: 3001, QuestionID: 2001, Text: "a", IsCorrect: true},
			{ID: 3002, QuestionID: 2001, Text: "b"},
			{ID: 3003, QuestionID: 2002, Text: "c", IsCorrect: true},
		},
	}

	exam, sections := svc.ConvertImportedExamToAppFormat(raw)

	t.Run("exam gets a fresh session id", func(t *testing.T) {
		if exam.ID == "" || exam.ID == "0" {
			t.Fatalf("expected generated exam id, got %q", exam.ID)
		}
		if exam.Duration != "90" || exam.PassingScore != "60" {
			t.Fatalf("numbers must become strings: %+v", exam)
		}
	})

	t.Run("questions group under their sections", func(t *testing.T) {
		if len(sections) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(sections))
		}
		if len(sections[0].Questions) != 2 {
			t.Fatalf("expected 2 questions in Protocols, got %d", len(sections[0].Questions))
		}
		if len(sections[1].Questions) != 0 {
			t.Fatal("empty section must keep an empty question list")
		}
		if len(sections[0].Questions[0].Options) != 2 {
			t.Fatalf("options not matched to their question: %+v", sections[0].Questions[0])
		}
	})

	t.Run("language defaults to english", func(t *testing.T) {
		if sections[0].Questions[0].Language != model.LanguageEnglish {
			t.Fatalf("missing language must default to english, got %q", sections[0].Questions[0].Language)
		}
		if sections[0].Questions[1].Language != model.LanguageArabic {
			t.Fatalf("explicit language must survive, got %q", sections[0].Questions[1].Language)
		}
	})

	t.Run("imported entities start clean", func(t *testing.T) {
		for _, sec := range sections {
			if sec.IsSectionNew || sec.IsSectionEdited {
				t.Fatalf("imported section must be clean: %+v", sec)
			}
			if !sec.IsExpanded {
				t.Fatal("imported sections start expanded")
			}
			for _, q := range sec.Questions {
				if q.IsQuestionNew || q.IsQuestionEdited {
					t.Fatalf("imported question must be clean: %+v", q)
				}
			}
		}
	})
}

func TestExportRoundTrip(t *testing.T) {
	svc := NewConverterService()
	exam, sections := sampleExam()

	export := svc.ConvertAppDataToExportFormat(exam, sections)

	if export.ExamDescription.Duration != 90 || export.ExamDescription.PassingScore != 60 {
		t.Fatalf("string fields must export as numbers: %+v", export.ExamDescription)
	}
	if len(export.Sections) != 2 || len(export.Questions) != 1 || len(export.Options) != 2 {
		t.Fatalf("flattened counts wrong: %d/%d/%d",
			len(export.Sections), len(export.Questions), len(export.Options))
	}

	// 导出的文件必须能原样再导入
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	reimported, errMsg := svc.ParseImportedExam(data)
	if errMsg != "" {
		t.Fatalf("exported file failed to re-import: %s", errMsg)
	}

	_, roundSections := svc.ConvertImportedExamToAppFormat(reimported)
	if len(roundSections) != len(sections) {
		t.Fatalf("section count changed across the round trip: %d", len(roundSections))
	}
	if roundSections[0].Questions[0].Text != sections[0].Questions[0].Text {
		t.Fatal("question text lost in round trip")
	}
	if !roundSections[0].Questions[0].Options[0].IsCorrect {
		t.Fatal("correct flag lost in round trip")
	}
}

func TestExportEditFormat(t *testing.T) {
	svc := NewConverterService()

	t.Run("clean document exports nothing but empty lists", func(t *testing.T) {
		exam, sections := sampleExam()
		export := svc.ConvertAppDataToExportEditFormat(exam, sections, nil, nil, nil)
		if len(export.Sections) != 0 || len(export.Questions) != 0 || len(export.Options) != 0 {
			t.Fatalf("clean entities must be filtered out: %d/%d/%d",
				len(export.Sections), len(export.Questions), len(export.Options))
		}
		// nil 删除清单序列化成空数组而不是 null
		if export.DeletedSections == nil || export.DeletedQuestion == nil || export.DeletedOptions == nil {
			t.Fatal("deleted id lists must never be nil")
		}
	})

	t.Run("filters are independent per entity", func(t *testing.T) {
		exam, sections := sampleExam()
		// 只有一个选项被编辑：题目和分区保持干净
		sections[0].Questions[0].Options[1].IsOptionEdited = true

		export := svc.ConvertAppDataToExportEditFormat(exam, sections, nil, nil, nil)
		if len(export.Sections) != 0 {
			t.Fatal("untouched section must not export")
		}
		if len(export.Questions) != 0 {
			t.Fatal("untouched question must not export")
		}
		if len(export.Options) != 1 || export.Options[0].ID != 3002 {
			t.Fatalf("only the edited option must export: %+v", export.Options)
		}
	})

	t.Run("new question exports with its new options", func(t *testing.T) {
		exam, sections := sampleExam()
		sections[0].Questions[0].IsQuestionNew = true
		sections[0].Questions[0].Options[0].IsOptionNew = true
		sections[0].Questions[0].Options[1].IsOptionNew = true

		export := svc.ConvertAppDataToExportEditFormat(exam, sections, nil, nil, nil)
		if len(export.Questions) != 1 {
			t.Fatalf("new question must export: %+v", export.Questions)
		}
		if len(export.Options) != 2 {
			t.Fatalf("new options must export: %+v", export.Options)
		}
	})

	t.Run("deleted ids pass through", func(t *testing.T) {
		exam, sections := sampleExam()
		export := svc.ConvertAppDataToExportEditFormat(exam, sections,
			[]string{"1002"}, []string{"2001"}, []string{"3001", "3002"})
		if len(export.DeletedSections) != 1 || export.DeletedSections[0] != "1002" {
			t.Fatalf("deleted sections wrong: %v", export.DeletedSections)
		}
		if len(export.DeletedQuestion) != 1 || len(export.DeletedOptions) != 2 {
			t.Fatalf("deleted lists wrong: %v %v", export.DeletedQuestion, export.DeletedOptions)
		}
	})

	t.Run("json keys match the upstream contract", func(t *testing.T) {
		exam, sections := sampleExam()
		export := svc.ConvertAppDataToExportEditFormat(exam, sections, nil, nil, nil)
		data, err := json.Marshal(export)
		if err != nil {
			t.Fatal(err)
		}
		var raw map[string]interface{}
		json.Unmarshal(data, &raw)
		for _, key := range []string{"deletedSectionsIds", "deletedQuestionsIds", "deletedOptionsIds"} {
			if _, ok := raw[key]; !ok {
				t.Fatalf("missing key %q in %s", key, data)
			}
		}
	})
}
