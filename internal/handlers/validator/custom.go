package validator

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"
)

const (
	maxReasonLength   = 2000
	maxEvidenceLength = 2048
)

var (
	appealTypes  = []moderation.AppealType{moderation.AppealJobRejection, moderation.AppealReportSuspension}
	reportTypes  = []moderation.ReportType{moderation.ReportTypeSpam, moderation.ReportTypeFraud, moderation.ReportTypeInappropriate, moderation.ReportTypeDiscrimination, moderation.ReportTypeOther}
	reportTarget = []moderation.TargetType{moderation.TargetJob, moderation.TargetEmployer}
	decisions    = []moderation.Decision{moderation.DecisionAccept, moderation.DecisionReject}
)

func stringField(fl validator.FieldLevel) (string, bool) {
	val, ok := fl.Field().Interface().(string)
	return val, ok
}

func reasonValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok {
		return false
	}
	val = strings.TrimSpace(val)
	return val != "" && utf8.RuneCountInString(val) <= maxReasonLength
}

// evidenceValidator accepts absolute http(s) or object storage urls.
func evidenceValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok || val == "" || len(val) > maxEvidenceLength {
		return false
	}

	u, err := url.ParseRequestURI(val)
	if err != nil || u.Host == "" {
		return false
	}
	return funk.ContainsString([]string{"http", "https", "s3"}, u.Scheme)
}

func appealTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	return ok && funk.Contains(appealTypes, moderation.AppealType(val))
}

func reportTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	return ok && funk.Contains(reportTypes, moderation.ReportType(val))
}

func reportTargetValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	return ok && funk.Contains(reportTarget, moderation.TargetType(val))
}

func decisionValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	return ok && funk.Contains(decisions, moderation.Decision(val))
}

func uuidValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(uuid.UUID)
	if !ok {
		return false
	}
	return val != uuid.UUID{}
}
