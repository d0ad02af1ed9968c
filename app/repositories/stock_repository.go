// Package repositories wraps database access for the Dukaan models.
package repositories

import (
	"time"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
	"gorm.io/gorm"
)

// StockRepository handles database operations for per-outlet stock rows.
type StockRepository struct{}

func NewStockRepository() *StockRepository {
	return &StockRepository{}
}

// FindByID looks up a stock row by primary key, with its product and outlet.
func (r *StockRepository) FindByID(id uint) (models.Stock, error) {
	var stock models.Stock
	err := orm.DB().Preload("Product").Preload("Outlet").
		Where("id = ?", id).First(&stock)
	return stock, err
}

// FindByProductAndOutlet looks up the unique row for a (product, outlet) pair.
func (r *StockRepository) FindByProductAndOutlet(productID, outletID uint) (models.Stock, error) {
	var stock models.Stock
	err := orm.DB().Preload("Product").
		Where("product_id = ? AND outlet_id = ?", productID, outletID).
		First(&stock)
	return stock, err
}

// Create persists a new stock row.
func (r *StockRepository) Create(stock *models.Stock) error {
	return orm.DB().Create(stock)
}

// All returns one page of stock rows, optionally filtered by outlet
// and product.
func (r *StockRepository) All(outletID, productID uint, page, limit int) ([]models.Stock, orm.Pagination, error) {
	q := orm.DB().Model(&models.Stock{}).Preload("Product").Preload("Outlet")
	if outletID != 0 {
		q = q.Where("outlet_id = ?", outletID)
	}
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}

	var stocks []models.Stock
	pagination, err := q.Order("id asc").GetWithPagination(&stocks, page, limit)
	return stocks, pagination, err
}

// DecrementGuarded subtracts qty from the row inside tx, but only when
// enough stock remains. Returns false when the guard fails, which means
// another sale drained the row first or it never had enough.
func (r *StockRepository) DecrementGuarded(tx *orm.Query, stockID uint, qty int) (bool, error) {
	affected, err := tx.Model(&models.Stock{}).
		Where("id = ? AND quantity >= ?", stockID, qty).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", qty),
		})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Increment adds qty to the row as a relative SQL update. A concurrent
// sale's decrement lands on the same column without being overwritten.
func (r *StockRepository) Increment(tx *orm.Query, stockID uint, qty int) error {
	_, err := tx.Model(&models.Stock{}).
		Where("id = ?", stockID).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
		})
	return err
}

// UpdateColumns writes only the given columns on the row. Columns that
// move concurrently (quantity, last_alert_at) stay untouched unless named.
func (r *StockRepository) UpdateColumns(stockID uint, changes map[string]interface{}) error {
	_, err := orm.DB().Model(&models.Stock{}).
		Where("id = ?", stockID).
		Updates(changes)
	return err
}

// Reload reads the row fresh inside tx, with its product for threshold
// resolution.
func (r *StockRepository) Reload(tx *orm.Query, stockID uint) (models.Stock, error) {
	var stock models.Stock
	err := tx.Preload("Product").Where("id = ?", stockID).First(&stock)
	return stock, err
}

// StampLastAlert records when an alert last fired for the row.
func (r *StockRepository) StampLastAlert(stockID uint, at time.Time) error {
	_, err := orm.DB().Model(&models.Stock{}).
		Where("id = ?", stockID).
		Updates(map[string]interface{}{"last_alert_at": at})
	return err
}

// AllBelowThreshold returns every row strictly below its effective minimum,
// resolving the outlet override against the product default in SQL.
// Rows whose effective minimum is zero never match (alerting disabled).
func (r *StockRepository) AllBelowThreshold() ([]models.Stock, error) {
	var stocks []models.Stock
	err := orm.DB().Model(&models.Stock{}).
		Preload("Product").Preload("Outlet").
		Where("COALESCE(stocks.min_stock_level, (SELECT min_stock_level FROM products WHERE products.id = stocks.product_id)) > 0").
		Where("quantity < COALESCE(stocks.min_stock_level, (SELECT min_stock_level FROM products WHERE products.id = stocks.product_id))").
		Get(&stocks)
	return stocks, err
}
