package util

import "errors"

var (
	ErrExamNotFound     = errors.New("考试不存在")
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrNoActiveDraft    = errors.New("no question draft in progress")
	ErrWrongEditorState = errors.New("editor is not in the expected state")
	ErrMaxOptions       = errors.New("question already has the maximum number of options")
	ErrMinOptions       = errors.New("question must keep at least two options")
	ErrInvalidLanguage  = errors.New("language must be english or arabic")
	ErrPublishInFlight  = errors.New("发布正在进行中，请稍候")
	ErrInvalidExamData  = errors.New("invalid exam format")
)
