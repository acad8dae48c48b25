package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"seriestracker/internal/models"
)

// Scheduler manages scheduled maintenance tasks
type Scheduler struct {
	cron       *cron.Cron
	db         *models.Database
	backupFile string
	logger     *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(db *models.Database, backupFile string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		db:         db,
		backupFile: backupFile,
		logger:     logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	// Every night at 04:00: copy the database file aside
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to add backup job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runBackup executes the database backup job
func (s *Scheduler) runBackup() {
	s.logger.WithField("file", s.backupFile).Info("Running database backup")

	if err := s.db.Backup(s.backupFile); err != nil {
		s.logger.WithError(err).Error("Database backup failed")
		return
	}
	s.logger.Info("Database backup completed")
}
