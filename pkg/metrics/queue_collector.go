package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type StatsReader interface {
	Statistics(ctx context.Context) (model.ModerationStats, error)
}

type queueCollector struct {
	store          StatsReader
	jobsByStatus   *prometheus.Desc
	suspendedJobs  *prometheus.Desc
	deletedJobs    *prometheus.Desc
	pendingReports *prometheus.Desc
	openAppeals    *prometheus.Desc
}

// RegisterQueueCollector exposes the moderation queue sizes, read from the store at scrape time.
func RegisterQueueCollector(s StatsReader) {
	prometheus.MustRegister(newQueueCollector(s))
}

func newQueueCollector(s StatsReader) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_queue_%s", moderationSubsystem, name)
	}

	return &queueCollector{
		store:          s,
		jobsByStatus:   prometheus.NewDesc(fqName("jobs"), "Live jobs by approval status.", []string{"approval_status"}, nil),
		suspendedJobs:  prometheus.NewDesc(fqName("suspended_jobs"), "Live jobs currently suspended.", nil, nil),
		deletedJobs:    prometheus.NewDesc(fqName("deleted_jobs"), "Permanently deleted jobs.", nil, nil),
		pendingReports: prometheus.NewDesc(fqName("pending_reports"), "Reports waiting for an admin.", nil, nil),
		openAppeals:    prometheus.NewDesc(fqName("open_appeals"), "Appeals pending or under review.", nil, nil),
	}
}

func (c *queueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.jobsByStatus
	ch <- c.suspendedJobs
	ch <- c.deletedJobs
	ch <- c.pendingReports
	ch <- c.openAppeals
}

func (c *queueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.store.Statistics(ctx)
	if err != nil {
		zap.S().Named("queue_collector").Errorf("failed to collect moderation statistics: %s", err)
		return
	}

	for status, total := range stats.JobsByStatus {
		ch <- prometheus.MustNewConstMetric(c.jobsByStatus, prometheus.GaugeValue, float64(total), string(status))
	}
	ch <- prometheus.MustNewConstMetric(c.suspendedJobs, prometheus.GaugeValue, float64(stats.SuspendedJobs))
	ch <- prometheus.MustNewConstMetric(c.deletedJobs, prometheus.GaugeValue, float64(stats.DeletedJobs))
	ch <- prometheus.MustNewConstMetric(c.pendingReports, prometheus.GaugeValue, float64(stats.PendingReports))
	ch <- prometheus.MustNewConstMetric(c.openAppeals, prometheus.GaugeValue, float64(stats.OpenAppeals))
}
