package docstore

import (
	"sync"

	"github.com/trezcool/maoni/core/feedback"
)

type FeedbackRepository struct {
	mu    sync.Mutex // serializes read-modify-write of the collection
	store *Store
}

var _ feedback.Repository = (*FeedbackRepository)(nil)

func NewFeedbackRepository(store *Store) *FeedbackRepository {
	return &FeedbackRepository{store: store}
}

func (repo *FeedbackRepository) load() []feedback.Record {
	var records []feedback.Record
	repo.store.Load(feedbackKey, &records)
	return records
}

func (repo *FeedbackRepository) CreateRecord(rec feedback.Record) (feedback.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	records := repo.load()
	records = append(records, rec)
	if err := repo.store.Save(feedbackKey, records); err != nil {
		return feedback.Record{}, err
	}
	return rec, nil
}

func (repo *FeedbackRepository) QueryAllRecords() ([]feedback.Record, error) {
	return repo.load(), nil
}

func (repo *FeedbackRepository) HasRecordCollection() (bool, error) {
	return repo.store.Has(feedbackKey), nil
}
