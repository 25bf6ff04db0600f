package moderation

type ApprovalStatus string

const (
	ApprovalPending       ApprovalStatus = "PENDING"
	ApprovalApproved      ApprovalStatus = "APPROVED"
	ApprovalRejectedAI    ApprovalStatus = "REJECTED_AI"
	ApprovalRejectedFinal ApprovalStatus = "REJECTED_FINAL"
	ApprovalAppealed      ApprovalStatus = "APPEALED"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

func (s ReportStatus) IsTerminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

type ReportType string

const (
	ReportTypeSpam           ReportType = "SPAM"
	ReportTypeFraud          ReportType = "FRAUD"
	ReportTypeInappropriate  ReportType = "INAPPROPRIATE"
	ReportTypeDiscrimination ReportType = "DISCRIMINATION"
	ReportTypeOther          ReportType = "OTHER"
)

type AppealType string

const (
	AppealJobRejection     AppealType = "JOB_REJECTION"
	AppealReportSuspension AppealType = "REPORT_SUSPENSION"
)

type AppealStatus string

const (
	AppealPending     AppealStatus = "PENDING"
	AppealUnderReview AppealStatus = "UNDER_REVIEW"
	AppealAccepted    AppealStatus = "ACCEPTED"
	AppealRejected    AppealStatus = "REJECTED"
)

// OpenAppealStatuses are the non-terminal appeal statuses. A job has at most one appeal in them.
var OpenAppealStatuses = []AppealStatus{AppealPending, AppealUnderReview}

func (s AppealStatus) IsTerminal() bool {
	return s == AppealAccepted || s == AppealRejected
}

type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
	VerificationDisabled VerificationStatus = "DISABLED"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type TargetType string

const (
	TargetJob      TargetType = "JOB"
	TargetEmployer TargetType = "EMPLOYER"
	TargetAppeal   TargetType = "APPEAL"
	TargetReport   TargetType = "REPORT"
	TargetCompany  TargetType = "COMPANY"
)

type ActionType string

const (
	ActionApproveJob        ActionType = "APPROVE_JOB"
	ActionRejectJob         ActionType = "REJECT_JOB"
	ActionSuspendJob        ActionType = "SUSPEND_JOB"
	ActionDeleteJob         ActionType = "DELETE_JOB"
	ActionApproveAppeal     ActionType = "APPROVE_APPEAL"
	ActionRejectAppeal      ActionType = "REJECT_APPEAL"
	ActionStartAppealReview ActionType = "START_APPEAL_REVIEW"
	ActionDisableCompany    ActionType = "DISABLE_COMPANY"
	ActionEnableCompany     ActionType = "ENABLE_COMPANY"
	ActionVerifyCompany     ActionType = "VERIFY_COMPANY"
	ActionRejectCompany     ActionType = "REJECT_COMPANY"
	ActionDismissReport     ActionType = "DISMISS_REPORT"
)
