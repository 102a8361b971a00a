package rag

import "time"

// Document is one unit of knowledge text handed to the engine.
type Document struct {
	Text     string
	Source   string
	Ordinal  int
	Category string
}

// IndexEntry is the persisted form of one indexed document. The embedding
// is stored JSON-encoded so the index survives process restarts.
type IndexEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Source    string    `gorm:"type:varchar(255)"`
	Ordinal   int       `gorm:"not null;default:0"`
	Category  string    `gorm:"type:varchar(64)"`
	Content   string    `gorm:"type:text;not null"`
	Embedding []byte    `gorm:"type:blob;not null"`
	CreatedAt time.Time
}

func (IndexEntry) TableName() string { return "rag_index_entries" }
