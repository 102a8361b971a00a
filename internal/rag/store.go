package rag

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

// IndexStore persists index entries across process restarts.
type IndexStore interface {
	ReplaceAll(ctx context.Context, entries []IndexEntry) error
	Append(ctx context.Context, entries []IndexEntry) error
	LoadAll(ctx context.Context) ([]IndexEntry, error)
}

// GormIndexStore keeps index entries in the service database.
type GormIndexStore struct {
	db *gorm.DB
}

func NewGormIndexStore(db *gorm.DB) *GormIndexStore {
	return &GormIndexStore{db: db}
}

func (s *GormIndexStore) ReplaceAll(ctx context.Context, entries []IndexEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&IndexEntry{}).Error; err != nil {
			return err
		}
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormIndexStore) Append(ctx context.Context, entries []IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&entries).Error
}

func (s *GormIndexStore) LoadAll(ctx context.Context) ([]IndexEntry, error) {
	var entries []IndexEntry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func encodeVector(v []float32) ([]byte, error) {
	return json.Marshal(v)
}

func decodeVector(b []byte) ([]float32, error) {
	var v []float32
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
