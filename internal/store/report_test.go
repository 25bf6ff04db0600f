package store_test

import (
	"context"
	"fmt"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("report store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		s, gormdb = newTestStore()
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM reports;")
	})

	It("creates a pending report with empty evidence", func() {
		r, err := s.Report().Create(context.TODO(), model.Report{
			ID:          uuid.New(),
			ReporterID:  uuid.New(),
			TargetType:  moderation.TargetJob,
			TargetID:    uuid.New(),
			ReportType:  moderation.ReportTypeFraud,
			Description: "asks for a deposit",
			Status:      moderation.ReportPending,
		})
		Expect(err).To(BeNil())

		got, err := s.Report().Get(context.TODO(), r.ID)
		Expect(err).To(BeNil())
		Expect(got.Status).To(Equal(moderation.ReportPending))
		Expect(got.Evidence).To(BeEmpty())
		Expect(got.ResolvedBy).To(BeNil())
	})

	It("resolves a pending report once", func() {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertReportStm, id, uuid.New(), moderation.TargetJob, uuid.New(), moderation.ReportPending))
		Expect(tx.Error).To(BeNil())

		r, err := s.Report().Resolve(context.TODO(), id, "alice", moderation.ActionSuspendJob, "policy violation")
		Expect(err).To(BeNil())
		Expect(r.Status).To(Equal(moderation.ReportResolved))
		Expect(*r.ResolutionAction).To(Equal(moderation.ActionSuspendJob))
		Expect(*r.ResolvedBy).To(Equal("alice"))

		_, err = s.Report().Resolve(context.TODO(), id, "bob", moderation.ActionDeleteJob, "")
		Expect(err).To(MatchError(store.ErrStaleState))

		_, err = s.Report().Dismiss(context.TODO(), id, "bob", "")
		Expect(err).To(MatchError(store.ErrStaleState))
	})

	It("dismisses a pending report", func() {
		id := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertReportStm, id, uuid.New(), moderation.TargetEmployer, uuid.New(), moderation.ReportPending))
		Expect(tx.Error).To(BeNil())

		r, err := s.Report().Dismiss(context.TODO(), id, "alice", "not a violation")
		Expect(err).To(BeNil())
		Expect(r.Status).To(Equal(moderation.ReportDismissed))
		Expect(*r.ResolutionNotes).To(Equal("not a violation"))
	})

	It("lists reports by status and target", func() {
		jobID := uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertReportStm, uuid.New(), uuid.New(), moderation.TargetJob, jobID, moderation.ReportPending))
		Expect(tx.Error).To(BeNil())
		tx = gormdb.Exec(fmt.Sprintf(insertReportStm, uuid.New(), uuid.New(), moderation.TargetJob, jobID, moderation.ReportDismissed))
		Expect(tx.Error).To(BeNil())
		tx = gormdb.Exec(fmt.Sprintf(insertReportStm, uuid.New(), uuid.New(), moderation.TargetEmployer, uuid.New(), moderation.ReportPending))
		Expect(tx.Error).To(BeNil())

		reports, err := s.Report().List(context.TODO(), store.NewReportQueryFilter().ByTarget(moderation.TargetJob, jobID), nil)
		Expect(err).To(BeNil())
		Expect(reports).To(HaveLen(2))

		reports, err = s.Report().List(context.TODO(), store.NewReportQueryFilter().ByStatus(moderation.ReportPending), nil)
		Expect(err).To(BeNil())
		Expect(reports).To(HaveLen(2))

		reports, err = s.Report().List(context.TODO(), store.NewReportQueryFilter().ByTargetType(moderation.TargetEmployer), nil)
		Expect(err).To(BeNil())
		Expect(reports).To(HaveLen(1))
	})
})
