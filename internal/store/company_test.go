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

var _ = Describe("company and user store", Ordered, func() {
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
		gormdb.Exec("DELETE FROM companies;")
		gormdb.Exec("DELETE FROM users;")
		gormdb.Exec("DELETE FROM moderation_translations;")
	})

	Context("company", func() {
		It("updates the status only from an expected one", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertCompanyStm, id, uuid.New(), "Acme", moderation.VerificationApproved, true))
			Expect(tx.Error).To(BeNil())

			c, err := s.Company().UpdateStatus(context.TODO(), id,
				[]moderation.VerificationStatus{moderation.VerificationApproved, moderation.VerificationPending},
				moderation.VerificationDisabled, false)
			Expect(err).To(BeNil())
			Expect(c.VerificationStatus).To(Equal(moderation.VerificationDisabled))
			Expect(c.IsActive).To(BeFalse())

			_, err = s.Company().UpdateStatus(context.TODO(), id,
				[]moderation.VerificationStatus{moderation.VerificationApproved, moderation.VerificationPending},
				moderation.VerificationDisabled, false)
			Expect(err).To(MatchError(store.ErrStaleState))
		})

		It("reports a missing company", func() {
			_, err := s.Company().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("user", func() {
		It("updates the status", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertUserStm, id, "owner@acme.test", "de", moderation.UserActive))
			Expect(tx.Error).To(BeNil())

			u, err := s.User().UpdateStatus(context.TODO(), id, moderation.UserSuspended)
			Expect(err).To(BeNil())
			Expect(u.Status).To(Equal(moderation.UserSuspended))
			Expect(u.Locale).To(Equal("de"))
		})

		It("reports a missing user", func() {
			_, err := s.User().UpdateStatus(context.TODO(), uuid.New(), moderation.UserSuspended)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("translation", func() {
		It("upserts a translation", func() {
			target := uuid.New()
			err := s.Translation().Upsert(context.TODO(), model.Translation{
				TargetType: moderation.TargetJob, TargetID: target, Field: "rejection_reason", Locale: "de", Text: "unvollständig",
			})
			Expect(err).To(BeNil())

			err = s.Translation().Upsert(context.TODO(), model.Translation{
				TargetType: moderation.TargetJob, TargetID: target, Field: "rejection_reason", Locale: "de", Text: "unvollständige Anzeige",
			})
			Expect(err).To(BeNil())

			t, err := s.Translation().Get(context.TODO(), moderation.TargetJob, target, "rejection_reason", "de")
			Expect(err).To(BeNil())
			Expect(t.Text).To(Equal("unvollständige Anzeige"))

			all, err := s.Translation().List(context.TODO(), moderation.TargetJob, target)
			Expect(err).To(BeNil())
			Expect(all).To(HaveLen(1))
		})
	})
})
