package service

import "errors"

var (
	ErrRubricNotFound     = errors.New("rubric not found")
	ErrRubricInUse        = errors.New("rubric is referenced by existing grades")
	ErrGradeNotFound      = errors.New("grade not found")
	ErrInvalidEvaluatorID = errors.New("evaluator id must contain digits")
	ErrEvaluatorNotLinked = errors.New("evaluator is not linked to this project")
	ErrTooManyEvaluators  = errors.New("project already has the maximum number of evaluators")
	ErrLinkNotFound       = errors.New("project evaluator link not found")
	ErrLinkHasGrade       = errors.New("evaluator already graded this project")
	ErrBackupDisabled     = errors.New("backups are not configured")
)
