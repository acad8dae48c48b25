package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// CreateSeries inserts a new series record. The store assigns the id.
func (db *Database) CreateSeries(series *Series) error {
	series.CreatedAt = time.Now()
	series.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), series)
}

// UpdateSeries updates an existing series record
func (db *Database) UpdateSeries(series *Series) error {
	series.UpdatedAt = time.Now()
	return db.store.Update(series.ID, series)
}

// GetSeriesByID retrieves a series by id
func (db *Database) GetSeriesByID(id uint64) (*Series, error) {
	var series Series
	err := db.store.Get(id, &series)
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &series, nil
}

// GetSeriesByNameAndChat retrieves the first series with the given name
// owned by the chat. Names are compared exactly.
func (db *Database) GetSeriesByNameAndChat(name string, chatID int64) (*Series, error) {
	var series Series
	err := db.store.FindOne(&series,
		bolthold.Where("ChatID").Eq(chatID).Index("ChatID").
			And("Name").Eq(name))
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &series, nil
}

// GetSeriesByChatAndFinished retrieves all series for a chat filtered by the
// finished flag, ordered by id ascending (insertion order).
func (db *Database) GetSeriesByChatAndFinished(chatID int64, finished bool) ([]*Series, error) {
	var series []*Series
	err := db.store.Find(&series,
		bolthold.Where("ChatID").Eq(chatID).Index("ChatID").
			And("Finished").Eq(finished).
			SortBy("ID"))
	return series, err
}

// GetAllSeries retrieves all series records
func (db *Database) GetAllSeries() ([]*Series, error) {
	var series []*Series
	err := db.store.Find(&series, nil)
	return series, err
}

// DeleteSeries permanently removes a series by id
func (db *Database) DeleteSeries(id uint64) error {
	err := db.store.Delete(id, &Series{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return ErrSeriesNotFound
	}
	return err
}

// Backup writes a consistent copy of the database file to path
func (db *Database) Backup(path string) error {
	return db.store.Bolt().View(func(tx *bbolt.Tx) error {
		return tx.CopyFile(path, 0600)
	})
}
