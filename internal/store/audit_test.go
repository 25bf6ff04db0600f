package store_test

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/blue-collar-job-portal/moderation/internal/store"
	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("admin action store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM admin_actions;")
	})

	It("lists the entries of a job including its appeal reviews", func() {
		jobID := uuid.New()
		appealID := uuid.New()

		_, err := s.AdminAction().Create(context.TODO(),
			model.NewAdminAction("alice", moderation.ActionRejectJob, moderation.TargetJob, jobID).WithReason("incomplete listing"))
		Expect(err).To(BeNil())
		_, err = s.AdminAction().Create(context.TODO(),
			model.NewAdminAction("bob", moderation.ActionApproveAppeal, moderation.TargetAppeal, appealID).WithJob(jobID).WithNotes("looks good now"))
		Expect(err).To(BeNil())
		_, err = s.AdminAction().Create(context.TODO(),
			model.NewAdminAction("bob", moderation.ActionApproveJob, moderation.TargetJob, uuid.New()))
		Expect(err).To(BeNil())

		actions, err := s.AdminAction().List(context.TODO(), store.NewAdminActionQueryFilter().ByJobID(jobID), nil)
		Expect(err).To(BeNil())
		Expect(actions).To(HaveLen(2))

		actions, err = s.AdminAction().List(context.TODO(), store.NewAdminActionQueryFilter().ByTarget(moderation.TargetAppeal, appealID), nil)
		Expect(err).To(BeNil())
		Expect(actions).To(HaveLen(1))
		Expect(actions[0].Notes).To(Equal("looks good now"))
		Expect(*actions[0].JobID).To(Equal(jobID))

		actions, err = s.AdminAction().List(context.TODO(), store.NewAdminActionQueryFilter().ByAdmin("bob").ByActionType(moderation.ActionApproveJob), nil)
		Expect(err).To(BeNil())
		Expect(actions).To(HaveLen(1))
	})
})
