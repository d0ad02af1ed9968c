package repositories

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// OrderRepository handles database operations for orders.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// CreateInTx persists the order and its items inside tx. GORM cascades
// the Items slice, so one call writes the whole aggregate.
func (r *OrderRepository) CreateInTx(tx *orm.Query, order *models.Order) error {
	return tx.Create(order)
}

// FindByID loads an order with its line items.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Preload("Items").Where("id = ?", id).First(&order)
	return order, err
}

// ByOutlet returns one page of an outlet's orders, newest first.
func (r *OrderRepository) ByOutlet(outletID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("outlet_id = ?", outletID).
		Order("id desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}
