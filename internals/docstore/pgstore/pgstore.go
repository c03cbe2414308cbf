package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schooladmin_backend/internals/docstore"
)

// DocumentModel is one row of the shared documents table.
type DocumentModel struct {
	Collection string            `gorm:"column:collection;type:varchar(100);primaryKey" json:"collection"`
	DocumentID string            `gorm:"column:document_id;type:varchar(64);primaryKey" json:"document_id"`
	Data       datatypes.JSONMap `gorm:"column:data;type:jsonb;not null" json:"data"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (DocumentModel) TableName() string { return "documents" }

// Store keeps every collection in one jsonb-backed table.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(&DocumentModel{}); err != nil {
		return pkgerrors.Wrap(err, "migrate documents")
	}
	return nil
}

// insufficient_privilege
const pgPermissionDenied = "42501"

func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return docstore.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgPermissionDenied {
		return pkgerrors.Wrapf(docstore.ErrPermissionDenied, "%s: %s", op, pgErr.Message)
	}
	return pkgerrors.Wrap(err, op)
}

func toDocument(m DocumentModel) docstore.Document {
	return docstore.Document{ID: m.DocumentID, Data: docstore.DecodeData(map[string]any(m.Data))}
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	var rows []DocumentModel
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapErr(err, "list "+collection)
	}
	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDocument(r))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var row DocumentModel
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, id).
		First(&row).Error
	if err != nil {
		return docstore.Document{}, mapErr(err, "get "+collection)
	}
	return toDocument(row), nil
}

func (s *Store) Query(ctx context.Context, collection, field string, value any) ([]docstore.Document, error) {
	var rows []DocumentModel
	err := s.DB.WithContext(ctx).
		Where("collection = ?", collection).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Find(&rows).Error
	if err != nil {
		return nil, mapErr(err, "query "+collection)
	}
	out := make([]docstore.Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDocument(r))
	}
	return out, nil
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	row := DocumentModel{
		Collection: collection,
		DocumentID: id,
		Data:       datatypes.JSONMap(docstore.EncodeData(data)),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return "", mapErr(err, "add "+collection)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	row := DocumentModel{
		Collection: collection,
		DocumentID: id,
		Data:       datatypes.JSONMap(docstore.EncodeData(data)),
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	return mapErr(err, "set "+collection)
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row DocumentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND document_id = ?", collection, id).
			First(&row).Error; err != nil {
			return err
		}
		merged := map[string]any(row.Data)
		if merged == nil {
			merged = map[string]any{}
		}
		for k, v := range docstore.EncodeData(fields) {
			merged[k] = v
		}
		return tx.Model(&DocumentModel{}).
			Where("collection = ? AND document_id = ?", collection, id).
			Updates(map[string]any{
				"data":       datatypes.JSONMap(merged),
				"updated_at": time.Now(),
			}).Error
	})
	return mapErr(err, fmt.Sprintf("update %s/%s", collection, id))
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, id).
		Delete(&DocumentModel{}).Error
	return mapErr(err, "delete "+collection)
}
