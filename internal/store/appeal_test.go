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

var _ = Describe("appeal store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM appeals;")
	})

	newAppeal := func(jobID uuid.UUID) model.Appeal {
		return model.Appeal{
			ID:          uuid.New(),
			JobID:       jobID,
			EmployerID:  uuid.New(),
			AppealType:  moderation.AppealJobRejection,
			Explanation: "fixed listing",
			Status:      moderation.AppealPending,
		}
	}

	Context("create", func() {
		It("stores the evidence list", func() {
			a := newAppeal(uuid.New())
			a.Evidence = []string{"s3://evidence/1.png", "s3://evidence/2.pdf"}

			created, err := s.Appeal().Create(context.TODO(), a)
			Expect(err).To(BeNil())

			got, err := s.Appeal().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect([]string(got.Evidence)).To(Equal([]string{"s3://evidence/1.png", "s3://evidence/2.pdf"}))
			Expect(got.IsOpen()).To(BeTrue())
		})

		It("refuses a second open appeal for the same job", func() {
			jobID := uuid.New()
			_, err := s.Appeal().Create(context.TODO(), newAppeal(jobID))
			Expect(err).To(BeNil())

			_, err = s.Appeal().Create(context.TODO(), newAppeal(jobID))
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})

		It("accepts a new appeal once the previous one is closed", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertAppealStm, uuid.New(), jobID, uuid.New(), moderation.AppealJobRejection, moderation.AppealRejected))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertAppealStm, uuid.New(), jobID, uuid.New(), moderation.AppealJobRejection, moderation.AppealAccepted))
			Expect(tx.Error).To(BeNil())

			_, err := s.Appeal().Create(context.TODO(), newAppeal(jobID))
			Expect(err).To(BeNil())

			appeals, err := s.Appeal().List(context.TODO(), store.NewAppealQueryFilter().ByJobID(jobID), nil)
			Expect(err).To(BeNil())
			Expect(appeals).To(HaveLen(3))
		})
	})

	Context("open appeal", func() {
		It("finds the open appeal of a job", func() {
			jobID := uuid.New()
			closedID := uuid.New()
			openID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertAppealStm, closedID, jobID, uuid.New(), moderation.AppealJobRejection, moderation.AppealRejected))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertAppealStm, openID, jobID, uuid.New(), moderation.AppealJobRejection, moderation.AppealUnderReview))
			Expect(tx.Error).To(BeNil())

			open, err := s.Appeal().GetOpen(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(open.ID).To(Equal(openID))
		})

		It("returns not found when every appeal is closed", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertAppealStm, uuid.New(), jobID, uuid.New(), moderation.AppealJobRejection, moderation.AppealAccepted))
			Expect(tx.Error).To(BeNil())

			_, err := s.Appeal().GetOpen(context.TODO(), jobID)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("review", func() {
		It("claims a pending appeal once", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertAppealStm, id, uuid.New(), uuid.New(), moderation.AppealJobRejection, moderation.AppealPending))
			Expect(tx.Error).To(BeNil())

			a, err := s.Appeal().StartReview(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(moderation.AppealUnderReview))

			_, err = s.Appeal().StartReview(context.TODO(), id)
			Expect(err).To(MatchError(store.ErrStaleState))
		})

		It("closes an appeal with its review fields", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertAppealStm, id, uuid.New(), uuid.New(), moderation.AppealReportSuspension, moderation.AppealUnderReview))
			Expect(tx.Error).To(BeNil())

			a, err := s.Appeal().Close(context.TODO(), id, moderation.AppealAccepted, "alice", "looks good")
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(moderation.AppealAccepted))
			Expect(*a.ReviewedBy).To(Equal("alice"))
			Expect(*a.ReviewNotes).To(Equal("looks good"))
			Expect(a.ReviewedAt).ToNot(BeNil())

			_, err = s.Appeal().Close(context.TODO(), id, moderation.AppealRejected, "bob", "no")
			Expect(err).To(MatchError(store.ErrStaleState))

			a, err = s.Appeal().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(a.Status).To(Equal(moderation.AppealAccepted))
			Expect(*a.ReviewedBy).To(Equal("alice"))
		})

		It("reports a missing appeal", func() {
			_, err := s.Appeal().Close(context.TODO(), uuid.New(), moderation.AppealAccepted, "alice", "")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
