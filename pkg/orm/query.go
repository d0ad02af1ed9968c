// Package orm is a thin query wrapper over GORM used by the repositories.
//
// It keeps repository code free of *gorm.DB plumbing, adds read-through
// caching (see Cacher), pagination, and exposes Transaction for the atomic
// commit units the order path depends on:
//
//	err := orm.Transaction(func(tx *orm.Query) error {
//	    if err := tx.Create(&order); err != nil { return err }
//	    ...
//	    return nil // commit; any error rolls everything back
//	})
package orm

import (
	"errors"
	"time"

	"github.com/shashiranjanraj/dukaan/pkg/database"
	"gorm.io/gorm"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// Cacher is the cache bridge injected at boot (pkg/cache satisfies it; the
// indirection keeps orm and cache from importing each other).
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set once at boot by internal/server.
var CacheStore Cacher

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap starts a query chain on an explicit *gorm.DB (a transaction handle or
// a test database).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for expressions the wrapper does not
// cover (gorm.Expr and friends).
func (q *Query) Gorm() *gorm.DB {
	return q.db
}

// ── Chainable builders ───────────────────────────────────────────────────────

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Preload(assoc string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

// ── Finishers ────────────────────────────────────────────────────────────────

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row into dest.
// Returns ErrNotFound when no row matches.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// Updates applies a column map to all matching rows and reports how many rows
// were touched. The caller can use a guard in the WHERE clause and treat
// zero rows as "condition not met", the conditional-update idiom the stock
// decrement relies on.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// GetWithPagination loads one page of results into dest.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 25
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Limit(limit).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache is a read-through finisher: serve dest from the cache under key if
// present, otherwise run the query and populate the cache.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// ── Transactions ─────────────────────────────────────────────────────────────

// Transaction runs fn inside one database transaction. Returning an error
// rolls back every write made through the tx handle; returning nil commits.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// IsNotFound reports whether err means "no row matched".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err came from violating a unique index.
// Relies on the TranslateError option set when the connection opens, which
// folds every driver's duplicate-key error into gorm.ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
