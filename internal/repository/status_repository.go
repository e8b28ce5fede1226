package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/contract-archive/internal/model"
)

// StatusRepository runs the cheap probes behind the health and status views.
type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Ping runs a trivial query and reports how long it took.
func (r *StatusRepository) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	var one int
	if err := r.db.WithContext(ctx).Raw(`SELECT 1`).Scan(&one).Error; err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// CountRows counts the documents of one table; an error means the table is
// not operational.
func (r *StatusRepository) CountRows(ctx context.Context, table model.Table) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DatabaseSize reports the on-disk size of the current database.
func (r *StatusRepository) DatabaseSize(ctx context.Context) (int64, error) {
	query := `SELECT pg_database_size(current_database())`
	if r.db.Dialector.Name() == "sqlite" {
		query = `SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`
	}

	var size int64
	if err := r.db.WithContext(ctx).Raw(query).Scan(&size).Error; err != nil {
		return 0, err
	}
	return size, nil
}
