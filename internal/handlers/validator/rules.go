package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewModerationValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("reason", reasonValidator),
		},
	}
}

func NewAppealValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("appeal_type", appealTypeValidator),
		},
		{
			Rule: registerFn("reason", reasonValidator),
		},
		{
			Rule: registerFn("evidence", evidenceValidator),
		},
		{
			Rule: registerFn("decision", decisionValidator),
		},
	}
}

func NewReportValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("report_target", reportTargetValidator),
		},
		{
			Rule: registerFn("target_id", uuidValidator),
		},
		{
			Rule: registerFn("report_type", reportTypeValidator),
		},
		{
			Rule: registerFn("evidence", evidenceValidator),
		},
	}
}

// NewValidationRules registers every moderation rule.
func NewValidationRules() []ValidationRule {
	rules := NewModerationValidationRules()
	rules = append(rules, NewAppealValidationRules()...)
	return append(rules, NewReportValidationRules()...)
}
