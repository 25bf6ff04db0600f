package model

import "github.com/blue-collar-job-portal/moderation/internal/moderation"

// ModerationStats is a snapshot of the moderation queues.
type ModerationStats struct {
	JobsByStatus   map[moderation.ApprovalStatus]int
	SuspendedJobs  int
	DeletedJobs    int
	PendingReports int
	OpenAppeals    int
}
