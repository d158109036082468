package model

import "time"

// Document is one persisted record of a store collection.
type Document struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Collection string    `gorm:"size:32;not null;uniqueIndex:idx_collection_doc"`
	DocID      string    `gorm:"size:128;not null;uniqueIndex:idx_collection_doc"`
	Body       string    `gorm:"type:longtext;not null"`
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}
