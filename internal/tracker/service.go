package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/models"
)

// Store is the record-store contract the tracking engine depends on.
// Implementations must return models.ErrSeriesNotFound for missing ids and
// assign unique ids on create.
type Store interface {
	CreateSeries(series *models.Series) error
	UpdateSeries(series *models.Series) error
	GetSeriesByID(id uint64) (*models.Series, error)
	GetSeriesByNameAndChat(name string, chatID int64) (*models.Series, error)
	GetSeriesByChatAndFinished(chatID int64, finished bool) ([]*models.Series, error)
	DeleteSeries(id uint64) error
}

// Service is the tracking engine. Every by-id operation verifies that the
// requested series belongs to the calling chat.
type Service struct {
	store  Store
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new tracking service
func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// AddSeries creates a new series for the chat, starting at season 1,
// episode 1. Duplicate names are allowed; each call creates a new record.
func (s *Service) AddSeries(name string, chatID int64) (*models.Series, error) {
	series := &models.Series{
		ChatID:    chatID,
		Name:      strings.TrimSpace(name),
		Season:    1,
		Episode:   1,
		Finished:  false,
		StartDate: s.now(),
	}

	if err := s.store.CreateSeries(series); err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"series_id": series.ID,
		"chat_id":   chatID,
		"name":      series.Name,
	}).Info("Series added")

	return series, nil
}

// SetSeason sets the season of a series and resets the episode to 1
func (s *Service) SetSeason(id uint64, chatID int64, season int) error {
	if season < 1 {
		return ErrInvalidProgress
	}

	series, err := s.ownedSeries(id, chatID)
	if err != nil {
		return err
	}

	series.Season = season
	series.Episode = 1
	s.stampLastWatched(series)

	if err := s.store.UpdateSeries(series); err != nil {
		return fmt.Errorf("failed to update series: %w", err)
	}
	return nil
}

// SetEpisode sets the episode of a series. The season is not touched.
func (s *Service) SetEpisode(id uint64, chatID int64, episode int) error {
	if episode < 1 {
		return ErrInvalidProgress
	}

	series, err := s.ownedSeries(id, chatID)
	if err != nil {
		return err
	}

	series.Episode = episode
	s.stampLastWatched(series)

	if err := s.store.UpdateSeries(series); err != nil {
		return fmt.Errorf("failed to update series: %w", err)
	}
	return nil
}

// MarkFinished marks a series as finished. The transition is one-way and
// calling it again leaves the state unchanged.
func (s *Service) MarkFinished(id uint64, chatID int64) error {
	series, err := s.ownedSeries(id, chatID)
	if err != nil {
		return err
	}

	series.Finished = true
	s.stampLastWatched(series)

	if err := s.store.UpdateSeries(series); err != nil {
		return fmt.Errorf("failed to update series: %w", err)
	}
	return nil
}

// DeleteSeries permanently removes a series
func (s *Service) DeleteSeries(id uint64, chatID int64) error {
	if _, err := s.ownedSeries(id, chatID); err != nil {
		return err
	}

	if err := s.store.DeleteSeries(id); err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"series_id": id,
		"chat_id":   chatID,
	}).Info("Series deleted")

	return nil
}

// WatchDuration returns how many days the chat has been watching the
// series. The start day counts as day 1.
func (s *Service) WatchDuration(id uint64, chatID int64) (int, error) {
	series, err := s.ownedSeries(id, chatID)
	if err != nil {
		return 0, err
	}
	return daysBetween(series.StartDate, s.now()) + 1, nil
}

// FindByName looks up a series by exact name within the chat. The name is
// trimmed before matching.
func (s *Service) FindByName(name string, chatID int64) (*models.Series, error) {
	series, err := s.store.GetSeriesByNameAndChat(strings.TrimSpace(name), chatID)
	if err != nil {
		if errors.Is(err, models.ErrSeriesNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find series by name: %w", err)
	}
	return series, nil
}

// FindByID looks up a series by id with the ownership check applied
func (s *Service) FindByID(id uint64, chatID int64) (*models.Series, error) {
	return s.ownedSeries(id, chatID)
}

// ListInProgress returns the chat's unfinished series in insertion order
func (s *Service) ListInProgress(chatID int64) ([]*models.Series, error) {
	series, err := s.store.GetSeriesByChatAndFinished(chatID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

// ListFinished returns the chat's finished series in insertion order
func (s *Service) ListFinished(chatID int64) ([]*models.Series, error) {
	series, err := s.store.GetSeriesByChatAndFinished(chatID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

// ownedSeries loads a series and verifies the chat owns it
func (s *Service) ownedSeries(id uint64, chatID int64) (*models.Series, error) {
	series, err := s.store.GetSeriesByID(id)
	if err != nil {
		if errors.Is(err, models.ErrSeriesNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	if series.ChatID != chatID {
		return nil, ErrNotFoundOrForbidden
	}
	return series, nil
}

func (s *Service) stampLastWatched(series *models.Series) {
	now := s.now()
	series.LastWatchedDate = &now
}

// daysBetween counts whole calendar days between two instants, ignoring the
// time of day. Both dates are normalized to UTC midnight, so DST transitions
// in the local zone cannot shorten a day and shift the count.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
