package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the repository-level not-found sentinel; services translate
// it into their own typed errors.
var ErrNotFound = errors.New("record not found")

type ctxKey string

// txKey carries an open transaction through a context so repository calls
// inside a service transaction reuse it.
const txKey ctxKey = "tx"

// ContextWithTx returns a context carrying tx.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// dbFromContext prefers the context transaction over the given handle.
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// BaseRepository provides the shared CRUD plumbing the model repositories
// embed: sort-column allow-listing and common find/count helpers.
type BaseRepository[T any] struct {
	db                 *gorm.DB
	allowedSortColumns map[string]string
}

// NewBaseRepository wraps a DB handle (or an open transaction).
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedSortColumns: map[string]string{}}
}

// SetAllowedSortColumns installs the query-name -> db-column allow list.
func (r *BaseRepository[T]) SetAllowedSortColumns(cols map[string]string) {
	r.allowedSortColumns = cols
}

// SortColumn resolves a requested sort name, falling back to fallback when
// the name is not allow-listed.
func (r *BaseRepository[T]) SortColumn(requested, fallback string) string {
	if col, ok := r.allowedSortColumns[requested]; ok {
		return col
	}
	return fallback
}

// DB returns the context-aware handle.
func (r *BaseRepository[T]) DB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// FindByID loads one record by primary key.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var out T
	err := r.DB(ctx).First(&out, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Create inserts the record.
func (r *BaseRepository[T]) Create(ctx context.Context, record *T) error {
	return r.DB(ctx).Create(record).Error
}

// Save persists all fields of the record.
func (r *BaseRepository[T]) Save(ctx context.Context, record *T) error {
	return r.DB(ctx).Save(record).Error
}
