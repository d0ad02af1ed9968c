package repositories

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// ProductRepository handles database operations for the catalogue.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Where("id = ?", id).First(&product)
	return product, err
}

// FindBySKU looks up a product by its SKU.
func (r *ProductRepository) FindBySKU(sku string) (models.Product, error) {
	var product models.Product
	err := orm.DB().Where("sku = ?", sku).First(&product)
	return product, err
}

// Create persists a new catalogue entry.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(product *models.Product) error {
	return orm.DB().Save(product)
}

// All returns one page of catalogue entries.
func (r *ProductRepository) All(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.DB().Model(&models.Product{}).
		Order("id asc").
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}
