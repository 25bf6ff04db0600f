package service_test

import (
	"context"
	"sync"

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

// staleJobs serves the job as it was before another operator changed it.
type staleJobs struct {
	store.Job
	snapshot model.Job
}

func (s staleJobs) Get(_ context.Context, _ uuid.UUID) (*model.Job, error) {
	job := s.snapshot
	return &job, nil
}

type staleStore struct {
	store.Store
	jobs staleJobs
}

func (s staleStore) Job() store.Job {
	return s.jobs
}

var _ = Describe("job moderation service", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		publisher *recordingPublisher
		svc       *service.JobModerationService
		company   *model.Company
	)

	BeforeAll(func() {
		s, gormdb = newTestStore()
		publisher = &recordingPublisher{}
		svc = service.NewJobModerationService(s, publisher)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		company, _ = seedCompany(s, moderation.VerificationApproved)
	})

	AfterEach(func() {
		expectSuspendedOnlyWhenApproved(gormdb)
		cleanTables(gormdb)
		publisher.Reset()
	})

	Context("approve", func() {
		It("approves a pending job and writes one audit entry", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			approved, err := svc.Approve(context.TODO(), job.ID, admin)
			Expect(err).To(BeNil())
			Expect(approved.ApprovalStatus).To(Equal(moderation.ApprovalApproved))
			Expect(approved.RejectionReason).To(BeNil())

			entries := auditFor(s, job.ID)
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActionType).To(Equal(moderation.ActionApproveJob))
			Expect(entries[0].AdminIdentity).To(Equal(admin.Identity))
			Expect(publisher.Kinds()).To(ContainElement(events.JobTransitionedKind))
		})

		It("refuses an approved job without writing audit", func() {
			job := seedJob(s, company.ID, moderation.Approved{})

			_, err := svc.Approve(context.TODO(), job.ID, admin)
			var invalid *service.ErrInvalidTransition
			Expect(err).To(BeAssignableToTypeOf(invalid))
			Expect(auditCount(gormdb)).To(BeZero())
			Expect(publisher.Kinds()).To(BeEmpty())
		})

		It("accepts the open appeal when approving an appealed job", func() {
			job := seedJob(s, company.ID, moderation.UnderAppeal{Reason: "missing salary"})
			appeal, err := s.Appeal().Create(context.TODO(), model.Appeal{
				ID:          uuid.New(),
				JobID:       job.ID,
				EmployerID:  company.OwnerUserID,
				AppealType:  moderation.AppealJobRejection,
				Explanation: "salary added",
				Status:      moderation.AppealPending,
			})
			Expect(err).To(BeNil())

			_, err = svc.Approve(context.TODO(), job.ID, admin)
			Expect(err).To(BeNil())

			closed, err := s.Appeal().Get(context.TODO(), appeal.ID)
			Expect(err).To(BeNil())
			Expect(closed.Status).To(Equal(moderation.AppealAccepted))
			Expect(*closed.ReviewedBy).To(Equal(admin.Identity))

			entries := auditFor(s, job.ID)
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActionType).To(Equal(moderation.ActionApproveAppeal))
		})

		It("refuses operators that are not admins", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			_, err := svc.Approve(context.TODO(), job.ID, moderation.NewEmployer("bob", uuid.New()))
			var forbidden *service.ErrForbidden
			Expect(err).To(BeAssignableToTypeOf(forbidden))
			Expect(getJob(s, job.ID).ApprovalStatus).To(Equal(moderation.ApprovalPending))
		})

		It("reports a missing job", func() {
			_, err := svc.Approve(context.TODO(), uuid.New(), admin)
			var notFound *service.ErrResourceNotFound
			Expect(err).To(BeAssignableToTypeOf(notFound))
		})
	})

	Context("reject", func() {
		It("rejects a pending job with its reason", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			rejected, err := svc.Reject(context.TODO(), job.ID, admin, "incomplete listing")
			Expect(err).To(BeNil())
			Expect(rejected.ApprovalStatus).To(Equal(moderation.ApprovalRejectedFinal))
			Expect(*rejected.RejectionReason).To(Equal("incomplete listing"))
			Expect(publisher.Kinds()).To(ContainElement(events.TranslationRequestedKind))
		})

		It("does not overwrite a final or automatic rejection", func() {
			for _, state := range []moderation.State{moderation.RejectedFinal{Reason: "old"}, moderation.RejectedAutomatic{Reason: "ai"}} {
				job := seedJob(s, company.ID, state)

				_, err := svc.Reject(context.TODO(), job.ID, admin, "new reason")
				var invalid *service.ErrInvalidTransition
				Expect(err).To(BeAssignableToTypeOf(invalid))
				Expect(*getJob(s, job.ID).RejectionReason).ToNot(Equal("new reason"))
			}
			Expect(auditCount(gormdb)).To(BeZero())
		})

		It("requires a reason", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			_, err := svc.Reject(context.TODO(), job.ID, admin, "")
			var invalid *service.ErrInvalidArgument
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})
	})

	Context("suspend", func() {
		It("suspends an approved job and resolves the report", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			report := seedReport(s, moderation.TargetJob, job.ID)

			suspended, err := svc.Suspend(context.TODO(), job.ID, admin, "policy violation", &report.ID)
			Expect(err).To(BeNil())
			Expect(suspended.IsSuspended).To(BeTrue())
			Expect(*suspended.SuspensionReason).To(Equal("policy violation"))

			resolved, err := s.Report().Get(context.TODO(), report.ID)
			Expect(err).To(BeNil())
			Expect(resolved.Status).To(Equal(moderation.ReportResolved))
			Expect(*resolved.ResolutionAction).To(Equal(moderation.ActionSuspendJob))

			entries := auditFor(s, job.ID)
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActionType).To(Equal(moderation.ActionSuspendJob))
			Expect(entries[0].Reason).To(Equal("policy violation"))
		})

		It("refuses a report about another job", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			other := seedJob(s, company.ID, moderation.Approved{})
			report := seedReport(s, moderation.TargetJob, other.ID)

			_, err := svc.Suspend(context.TODO(), job.ID, admin, "policy violation", &report.ID)
			var mismatch *service.ErrReportTargetMismatch
			Expect(err).To(BeAssignableToTypeOf(mismatch))
			Expect(getJob(s, job.ID).IsSuspended).To(BeFalse())
		})

		It("refuses a report that was already closed", func() {
			job := seedJob(s, company.ID, moderation.Approved{})
			report := seedReport(s, moderation.TargetJob, job.ID)
			_, err := s.Report().Dismiss(context.TODO(), report.ID, "bob@ops", "not a problem")
			Expect(err).To(BeNil())

			_, err = svc.Suspend(context.TODO(), job.ID, admin, "policy violation", &report.ID)
			var reviewed *service.ErrAlreadyReviewed
			Expect(err).To(BeAssignableToTypeOf(reviewed))
			Expect(getJob(s, job.ID).IsSuspended).To(BeFalse())
		})

		It("only suspends approved jobs that are live", func() {
			for _, state := range []moderation.State{
				moderation.Pending{},
				moderation.RejectedFinal{Reason: "r"},
				moderation.UnderAppeal{Reason: "r"},
				moderation.Approved{Suspended: true, SuspensionReason: "earlier"},
			} {
				job := seedJob(s, company.ID, state)

				_, err := svc.Suspend(context.TODO(), job.ID, admin, "spam", nil)
				var invalid *service.ErrInvalidTransition
				Expect(err).To(BeAssignableToTypeOf(invalid))
			}
			Expect(auditCount(gormdb)).To(BeZero())
		})
	})

	Context("delete", func() {
		It("makes the job terminal", func() {
			job := seedJob(s, company.ID, moderation.Approved{Suspended: true, SuspensionReason: "fraud"})

			deleted, err := svc.Delete(context.TODO(), job.ID, admin, "scam", nil)
			Expect(err).To(BeNil())
			Expect(deleted.IsActive).To(BeFalse())

			var invalid *service.ErrInvalidTransition
			_, err = svc.Approve(context.TODO(), job.ID, admin)
			Expect(err).To(BeAssignableToTypeOf(invalid))
			_, err = svc.Reject(context.TODO(), job.ID, admin, "x")
			Expect(err).To(BeAssignableToTypeOf(invalid))
			_, err = svc.Suspend(context.TODO(), job.ID, admin, "x", nil)
			Expect(err).To(BeAssignableToTypeOf(invalid))
			_, err = svc.Delete(context.TODO(), job.ID, admin, "x", nil)
			Expect(err).To(BeAssignableToTypeOf(invalid))

			Expect(auditFor(s, job.ID)).To(HaveLen(1))
			after := getJob(s, job.ID)
			Expect(after.IsActive).To(BeFalse())
			Expect(after.IsSuspended).To(BeTrue())
		})

		It("closes the open appeal of the job", func() {
			job := seedJob(s, company.ID, moderation.UnderAppeal{Reason: "r"})
			appeal, err := s.Appeal().Create(context.TODO(), model.Appeal{
				ID:          uuid.New(),
				JobID:       job.ID,
				EmployerID:  company.OwnerUserID,
				AppealType:  moderation.AppealJobRejection,
				Explanation: "please",
				Status:      moderation.AppealUnderReview,
			})
			Expect(err).To(BeNil())

			_, err = svc.Delete(context.TODO(), job.ID, admin, "duplicate listing", nil)
			Expect(err).To(BeNil())

			closed, err := s.Appeal().Get(context.TODO(), appeal.ID)
			Expect(err).To(BeNil())
			Expect(closed.Status).To(Equal(moderation.AppealRejected))
			Expect(*closed.ReviewNotes).To(Equal("job deleted"))
		})
	})

	Context("screening", func() {
		It("moves a pending job to REJECTED_AI without audit", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			rejected, err := svc.ApplyScreeningRejection(context.TODO(), job.ID, screener, "missing salary")
			Expect(err).To(BeNil())
			Expect(rejected.ApprovalStatus).To(Equal(moderation.ApprovalRejectedAI))
			Expect(auditCount(gormdb)).To(BeZero())
		})

		It("is reserved to the screener", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			_, err := svc.ApplyScreeningRejection(context.TODO(), job.ID, admin, "missing salary")
			var forbidden *service.ErrForbidden
			Expect(err).To(BeAssignableToTypeOf(forbidden))
		})

		It("cannot touch a reviewed job", func() {
			job := seedJob(s, company.ID, moderation.Approved{})

			_, err := svc.ApplyScreeningRejection(context.TODO(), job.ID, screener, "missing salary")
			var invalid *service.ErrInvalidTransition
			Expect(err).To(BeAssignableToTypeOf(invalid))
		})
	})

	Context("concurrency", func() {
		It("fails with a concurrent transition when the job changed after it was read", func() {
			job := seedJob(s, company.ID, moderation.Pending{})
			snapshot := *job

			_, err := svc.Reject(context.TODO(), job.ID, moderation.NewAdmin("bob@ops"), "incomplete listing")
			Expect(err).To(BeNil())

			late := service.NewJobModerationService(staleStore{Store: s, jobs: staleJobs{Job: s.Job(), snapshot: snapshot}}, publisher)
			_, err = late.Approve(context.TODO(), job.ID, admin)
			var concurrent *service.ErrConcurrentTransition
			Expect(err).To(BeAssignableToTypeOf(concurrent))

			after := getJob(s, job.ID)
			Expect(after.ApprovalStatus).To(Equal(moderation.ApprovalRejectedFinal))
			Expect(auditFor(s, job.ID)).To(HaveLen(1))
		})

		It("lets exactly one of two racing admins win", func() {
			job := seedJob(s, company.ID, moderation.Pending{})

			var wg sync.WaitGroup
			errs := make([]error, 2)
			wg.Add(2)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, errs[0] = svc.Approve(context.TODO(), job.ID, admin)
			}()
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, errs[1] = svc.Reject(context.TODO(), job.ID, moderation.NewAdmin("bob@ops"), "incomplete listing")
			}()
			wg.Wait()

			succeeded := 0
			for _, err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				Expect(err).To(Or(
					BeAssignableToTypeOf(&service.ErrInvalidTransition{}),
					BeAssignableToTypeOf(&service.ErrConcurrentTransition{}),
				))
			}
			Expect(succeeded).To(Equal(1))
			Expect(auditFor(s, job.ID)).To(HaveLen(1))
		})
	})
})
