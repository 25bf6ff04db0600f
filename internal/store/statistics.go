package store

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
)

func (s *DataStore) Statistics(ctx context.Context) (model.ModerationStats, error) {
	stats := model.ModerationStats{JobsByStatus: map[moderation.ApprovalStatus]int{}}
	db := s.db.WithContext(ctx)

	var rows []struct {
		ApprovalStatus moderation.ApprovalStatus
		Total          int
	}
	if err := db.Model(&model.Job{}).
		Select("approval_status, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("approval_status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.JobsByStatus[r.ApprovalStatus] = r.Total
	}

	counts := []struct {
		dest  *int
		model any
		where string
		args  []any
	}{
		{&stats.SuspendedJobs, &model.Job{}, "is_active = ? AND is_suspended = ?", []any{true, true}},
		{&stats.DeletedJobs, &model.Job{}, "is_active = ?", []any{false}},
		{&stats.PendingReports, &model.Report{}, "status = ?", []any{moderation.ReportPending}},
		{&stats.OpenAppeals, &model.Appeal{}, "status IN ?", []any{moderation.OpenAppealStatuses}},
	}
	for _, c := range counts {
		var n int64
		if err := db.Model(c.model).Where(c.where, c.args...).Count(&n).Error; err != nil {
			return stats, err
		}
		*c.dest = int(n)
	}

	return stats, nil
}
