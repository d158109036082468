package repository

import (
	"context"
	"sahayak_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentStore keeps every collection in the single documents table.
type GormDocumentStore struct {
	DB *gorm.DB
}

func NewGormDocumentStore(db *gorm.DB) *GormDocumentStore {
	return &GormDocumentStore{DB: db}
}

func (s *GormDocumentStore) LoadCollection(ctx context.Context, collection string) (map[string][]byte, error) {
	var docs []model.Document
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(docs))
	for _, d := range docs {
		out[d.DocID] = []byte(d.Body)
	}
	return out, nil
}

// Apply runs the batch in one transaction.
func (s *GormDocumentStore) Apply(ctx context.Context, mutations []Mutation) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range mutations {
			if m.IsDelete() {
				err := tx.Where("collection = ? AND doc_id = ?", m.Collection, m.ID).
					Delete(&model.Document{}).Error
				if err != nil {
					return err
				}
				continue
			}

			doc := model.Document{
				Collection: m.Collection,
				DocID:      m.ID,
				Body:       string(m.Body),
				UpdatedAt:  model.NowFunc(),
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
			}).Create(&doc).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormDocumentStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
