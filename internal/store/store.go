package store

import (
	"context"

	"github.com/blue-collar-job-portal/moderation/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	Report() Report
	Appeal() Appeal
	Company() Company
	User() User
	AdminAction() AdminAction
	Translation() Translation
	Statistics(ctx context.Context) (model.ModerationStats, error)
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	job         Job
	report      Report
	appeal      Appeal
	company     Company
	user        User
	adminAction AdminAction
	translation Translation
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		job:         NewJobStore(db),
		report:      NewReportStore(db),
		appeal:      NewAppealStore(db),
		company:     NewCompanyStore(db),
		user:        NewUserStore(db),
		adminAction: NewAdminActionStore(db),
		translation: NewTranslationStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Report() Report {
	return s.report
}

func (s *DataStore) Appeal() Appeal {
	return s.appeal
}

func (s *DataStore) Company() Company {
	return s.company
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) AdminAction() AdminAction {
	return s.adminAction
}

func (s *DataStore) Translation() Translation {
	return s.translation
}

// InitialMigration creates the schema from the models. Used with sqlite and when no
// migrations folder is configured.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Company{},
		&model.User{},
		&model.Job{},
		&model.Report{},
		&model.Appeal{},
		&model.AdminAction{},
		&model.Translation{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
