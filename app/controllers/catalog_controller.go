package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// CatalogController manages the product catalogue and outlet list.
// Thin enough that it talks to the repositories directly.
type CatalogController struct {
	products *repositories.ProductRepository
	outlets  *repositories.OutletRepository
}

func NewCatalogController() *CatalogController {
	return &CatalogController{
		products: repositories.NewProductRepository(),
		outlets:  repositories.NewOutletRepository(),
	}
}

type productInput struct {
	Name          string  `json:"name"            validate:"required,min=2,max=255"`
	Description   string  `json:"description"     validate:"nullable,max=2000"`
	SKU           string  `json:"sku"             validate:"required,min=2,max=100"`
	Price         float64 `json:"price"           validate:"gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"gte=0"`
}

// CreateProduct adds a catalogue entry.
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:          in.Name,
		Description:   in.Description,
		SKU:           in.SKU,
		Price:         in.Price,
		MinStockLevel: in.MinStockLevel,
	}
	if err := c.products.Create(&product); err != nil {
		response.Conflict(w, "product with this SKU already exists")
		return
	}

	response.Created(w, product)
}

// ListProducts returns one page of the catalogue.
func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	products, pagination, err := c.products.All(page, limit)
	if err != nil {
		renderError(w, err)
		return
	}
	response.Paginated(w, products, pagination)
}

type outletInput struct {
	Name          string `json:"name"    validate:"required,min=2,max=255"`
	Address       string `json:"address" validate:"nullable,max=2000"`
	Phone         string `json:"phone"   validate:"nullable,max=50"`
	Email         string `json:"email"   validate:"nullable,email"`
	AlertsEnabled *bool  `json:"alerts_enabled" validate:"nullable,boolean"`
}

// CreateOutlet adds a shop location.
func (c *CatalogController) CreateOutlet(w http.ResponseWriter, r *http.Request) {
	var in outletInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	outlet := models.Outlet{
		Name:          in.Name,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		AlertsEnabled: in.AlertsEnabled == nil || *in.AlertsEnabled,
	}
	if err := c.outlets.Create(&outlet); err != nil {
		renderError(w, err)
		return
	}

	response.Created(w, outlet)
}

// ListOutlets returns all outlets.
func (c *CatalogController) ListOutlets(w http.ResponseWriter, r *http.Request) {
	outlets, err := c.outlets.All()
	if err != nil {
		renderError(w, err)
		return
	}
	response.Success(w, outlets)
}
