package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nurpe/contract-archive/internal/model"
)

// deleteBatchSize bounds the bind parameters of one DELETE; postgres allows
// at most 65535 per statement.
var deleteBatchSize = 1000

// Document is one stored row: a numeric key and its opaque JSON payload.
type Document struct {
	ID   int64
	Data datatypes.JSON
}

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// List returns every document of the table ordered by id.
func (r *CollectionRepository) List(ctx context.Context, table model.Table) ([]Document, error) {
	return listDocuments(r.db.WithContext(ctx), table)
}

func (r *CollectionRepository) Get(ctx context.Context, table model.Table, id int64) (*Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT id, data FROM %s WHERE id = ? LIMIT 1`, table), id,
	).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &docs[0], nil
}

// Latest returns the document with the highest id, used for single-row
// collections such as system settings.
func (r *CollectionRepository) Latest(ctx context.Context, table model.Table) (*Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT id, data FROM %s ORDER BY id DESC LIMIT 1`, table),
	).Scan(&docs).Error
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &docs[0], nil
}

// Replace makes the stored table hold exactly docs. Rows whose id is absent
// from docs are deleted and the rest are upserted, all in one transaction.
func (r *CollectionRepository) Replace(ctx context.Context, table model.Table, docs []Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDocuments(tx, table, docs)
	})
}

// Insert adds or overwrites a single document.
func (r *CollectionRepository) Insert(ctx context.Context, table model.Table, doc Document) error {
	return upsertDocument(r.db.WithContext(ctx), table, doc)
}

// Backup reads every allow-listed table.
func (r *CollectionRepository) Backup(ctx context.Context) (map[model.Table][]Document, error) {
	result := make(map[model.Table][]Document, len(model.Tables))
	tx := r.db.WithContext(ctx)
	for _, table := range model.Tables {
		docs, err := listDocuments(tx, table)
		if err != nil {
			return nil, fmt.Errorf("backup %s: %w", table, err)
		}
		result[table] = docs
	}
	return result, nil
}

// Restore replaces every table present in payload inside one transaction.
// Tables missing from payload are left untouched.
func (r *CollectionRepository) Restore(ctx context.Context, payload map[model.Table][]Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range model.Tables {
			docs, ok := payload[table]
			if !ok {
				continue
			}
			if err := replaceDocuments(tx, table, docs); err != nil {
				return fmt.Errorf("restore %s: %w", table, err)
			}
		}
		return nil
	})
}

func listDocuments(tx *gorm.DB, table model.Table) ([]Document, error) {
	docs := []Document{}
	if err := tx.Raw(fmt.Sprintf(`SELECT id, data FROM %s ORDER BY id ASC`, table)).Scan(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func replaceDocuments(tx *gorm.DB, table model.Table, docs []Document) error {
	if len(docs) == 0 {
		return tx.Exec(fmt.Sprintf(`DELETE FROM %s`, table)).Error
	}

	keep := make(map[int64]struct{}, len(docs))
	for _, doc := range docs {
		keep[doc.ID] = struct{}{}
	}
	var existing []int64
	if err := tx.Raw(fmt.Sprintf(`SELECT id FROM %s`, table)).Scan(&existing).Error; err != nil {
		return err
	}
	stale := make([]int64, 0, len(existing))
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	for start := 0; start < len(stale); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(stale))
		if err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id IN ?`, table), stale[start:end]).Error; err != nil {
			return err
		}
	}

	for _, doc := range docs {
		if err := upsertDocument(tx, table, doc); err != nil {
			return err
		}
	}
	return nil
}

func upsertDocument(tx *gorm.DB, table model.Table, doc Document) error {
	return tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, data)
		VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data
	`, table), doc.ID, doc.Data).Error
}
