package service_test

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/events"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/service"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("report service", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		publisher *recordingPublisher
		reports   *service.ReportService
		jobs      *service.JobModerationService
		company   *model.Company
		reporter  moderation.Operator
	)

	BeforeAll(func() {
		s, gormdb = newTestStore()
		publisher = &recordingPublisher{}
		reports = service.NewReportService(s, publisher)
		jobs = service.NewJobModerationService(s, publisher)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		company, _ = seedCompany(s, moderation.VerificationApproved)
		reporter = moderation.Operator{Identity: "carol@worker.test", UserID: uuid.New(), Role: moderation.RoleUser}
	})

	AfterEach(func() {
		cleanTables(gormdb)
		publisher.Reset()
	})

	Context("submit", func() {
		It("files a pending report against a job", func() {
			job := seedJob(s, company.ID, moderation.Approved{})

			report, err := reports.Submit(context.TODO(), reporter, service.ReportForm{
				TargetType:  moderation.TargetJob,
				TargetID:    job.ID,
				ReportType:  moderation.ReportTypeSpam,
				Description: "  posted ten times  ",
				Evidence:    []string{"s3://evidence/screenshot.png"},
			})
			Expect(err).To(BeNil())
			Expect(report.Status).To(Equal(moderation.ReportPending))
			Expect(report.ReporterID).To(Equal(reporter.UserID))
			Expect(report.Description).To(Equal("posted ten times"))
			Expect(auditCount(gormdb)).To(BeZero())
		})

		It("files a report against an employer", func() {
			report, err := reports.Submit(context.TODO(), reporter, service.ReportForm{
				TargetType: moderation.TargetEmployer,
				TargetID:   company.ID,
				ReportType: moderation.ReportTypeFraud,
			})
			Expect(err).To(BeNil())
			Expect(report.TargetType).To(Equal(moderation.TargetEmployer))
		})

		It("needs an existing target", func() {
			_, err := reports.Submit(context.TODO(), reporter, service.ReportForm{
				TargetType: moderation.TargetJob,
				TargetID:   uuid.New(),
				ReportType: moderation.ReportTypeSpam,
			})
			var notFound *service.ErrResourceNotFound
			Expect(err).To(BeAssignableToTypeOf(notFound))
		})

		It("validates the form", func() {
			var invalid *service.ErrInvalidArgument

			_, err := reports.Submit(context.TODO(), reporter, service.ReportForm{
				TargetType: moderation.TargetAppeal,
				TargetID:   uuid.New(),
				ReportType: moderation.ReportTypeSpam,
			})
			Expect(err).To(BeAssignableToTypeOf(invalid))

			_, err = reports.Submit(context.TODO(), reporter, service.ReportForm{
				TargetType: moderation.TargetEmployer,
				TargetID:   company.ID,
				ReportType: moderation.ReportType("RUDE"),
			})
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})

		It("needs an identified reporter", func() {
			_, err := reports.Submit(context.TODO(), moderation.Operator{}, service.ReportForm{
				TargetType: moderation.TargetEmployer,
				TargetID:   company.ID,
				ReportType: moderation.ReportTypeSpam,
			})
			var forbidden *service.ErrForbidden
			Expect(err).To(BeAssignableToTypeOf(forbidden))
		})
	})

	Context("dismiss", func() {
		It("dismisses a pending report once", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			report := seedReport(s, moderation.TargetJob, job.ID)

			dismissed, err := reports.Dismiss(context.TODO(), report.ID, admin, "not a violation")
			Expect(err).To(BeNil())
			Expect(dismissed.Status).To(Equal(moderation.ReportDismissed))
			Expect(*dismissed.ResolvedBy).To(Equal(admin.Identity))
			Expect(publisher.Kinds()).To(ContainElement(events.ReportDismissedKind))

			entries := auditFor(s, job.ID)
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActionType).To(Equal(moderation.ActionDismissReport))
			Expect(entries[0].TargetID).To(Equal(report.ID))

			_, err = reports.Dismiss(context.TODO(), report.ID, admin, "again")
			var reviewed *service.ErrAlreadyReviewed
			Expect(err).To(BeAssignableToTypeOf(reviewed))
			Expect(auditCount(gormdb)).To(Equal(1))

			Expect(getJob(s, job.ID).IsSuspended).To(BeFalse())
		})

		It("cannot dismiss a resolved report", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			report := seedReport(s, moderation.TargetJob, job.ID)
			_, err := jobs.Suspend(context.TODO(), job.ID, admin, "spam", &report.ID)
			Expect(err).To(BeNil())

			_, err = reports.Dismiss(context.TODO(), report.ID, admin, "changed my mind")
			var reviewed *service.ErrAlreadyReviewed
			Expect(err).To(BeAssignableToTypeOf(reviewed))

			stored, err := reports.Get(context.TODO(), report.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(moderation.ReportResolved))
		})

		It("reports a missing report", func() {
			_, err := reports.Dismiss(context.TODO(), uuid.New(), admin, "")
			var notFound *service.ErrResourceNotFound
			Expect(err).To(BeAssignableToTypeOf(notFound))
		})
	})

	Context("list", func() {
		It("filters by status and target", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			seedReport(s, moderation.TargetJob, job.ID)
			dismissed := seedReport(s, moderation.TargetJob, job.ID)
			seedReport(s, moderation.TargetEmployer, company.ID)
			_, err := reports.Dismiss(context.TODO(), dismissed.ID, admin, "")
			Expect(err).To(BeNil())

			pending, err := reports.List(context.TODO(), service.ReportFilter{Status: []moderation.ReportStatus{moderation.ReportPending}})
			Expect(err).To(BeNil())
			Expect(pending).To(HaveLen(2))

			forJob, err := reports.List(context.TODO(), service.ReportFilter{TargetType: moderation.TargetJob, TargetID: &job.ID})
			Expect(err).To(BeNil())
			Expect(forJob).To(HaveLen(2))

			page, err := reports.List(context.TODO(), service.ReportFilter{Limit: 1})
			Expect(err).To(BeNil())
			Expect(page).To(HaveLen(1))
		})
	})
})
