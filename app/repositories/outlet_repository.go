package repositories

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// OutletRepository handles database operations for shop locations.
type OutletRepository struct{}

func NewOutletRepository() *OutletRepository {
	return &OutletRepository{}
}

// FindByID looks up an outlet by primary key. Outlets change rarely, so
// lookups read through the cache with a short TTL.
func (r *OutletRepository) FindByID(id uint) (models.Outlet, error) {
	var outlets []models.Outlet
	key := fmt.Sprintf("outlet:%d", id)
	err := orm.DB().Model(&models.Outlet{}).Where("id = ?", id).
		Cache(key, 5*time.Minute, &outlets)
	if err != nil {
		return models.Outlet{}, err
	}
	if len(outlets) == 0 {
		return models.Outlet{}, orm.ErrNotFound
	}
	return outlets[0], nil
}

// Create persists a new outlet.
func (r *OutletRepository) Create(outlet *models.Outlet) error {
	return orm.DB().Create(outlet)
}

// All returns every outlet.
func (r *OutletRepository) All() ([]models.Outlet, error) {
	var outlets []models.Outlet
	err := orm.DB().Order("id asc").Get(&outlets)
	return outlets, err
}
