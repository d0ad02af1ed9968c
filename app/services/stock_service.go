package services

import (
	"fmt"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// StockInput creates a stock row for a (product, outlet) pair.
type StockInput struct {
	ProductID     uint `json:"product_id" validate:"required,integer"`
	OutletID      uint `json:"outlet_id"  validate:"required,integer"`
	Quantity      int  `json:"quantity"   validate:"gte=0"`
	MinStockLevel *int `json:"min_stock_level" validate:"nullable,gte=0"`
}

// StockUpdateInput patches mutable fields on a stock row. Pointers
// distinguish "leave unchanged" from an explicit value; for the
// threshold, ClearMin resets the row to the product default.
type StockUpdateInput struct {
	MinStockLevel *int `json:"min_stock_level" validate:"nullable,gte=0"`
	ClearMin      bool `json:"clear_min_stock_level"`
	Quantity      *int `json:"quantity" validate:"nullable,gte=0"`
}

// StockAdjustInput applies a signed correction to the on-hand quantity.
type StockAdjustInput struct {
	Delta  int    `json:"adjustment" validate:"required,integer"`
	Reason string `json:"reason"     validate:"required,min=3,max=255"`
}

// StockService manages per-outlet inventory rows. Every mutation that
// can lower a quantity or tighten a threshold re-runs the alert engine
// on the affected row.
type StockService struct {
	stocks   *repositories.StockRepository
	products *repositories.ProductRepository
	outlets  *repositories.OutletRepository
	alerts   *AlertService
}

func NewStockService(alerts *AlertService) *StockService {
	return &StockService{
		stocks:   repositories.NewStockRepository(),
		products: repositories.NewProductRepository(),
		outlets:  repositories.NewOutletRepository(),
		alerts:   alerts,
	}
}

// Create registers a product at an outlet. Exactly one row may exist per
// (product, outlet) pair.
func (s *StockService) Create(in StockInput) (models.Stock, error) {
	if in.Quantity < 0 {
		return models.Stock{}, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidArgument)
	}

	if _, err := s.products.FindByID(in.ProductID); err != nil {
		if orm.IsNotFound(err) {
			return models.Stock{}, &NotFoundError{Entity: "product", ID: in.ProductID}
		}
		return models.Stock{}, fmt.Errorf("stock: load product: %w", err)
	}
	if _, err := s.outlets.FindByID(in.OutletID); err != nil {
		if orm.IsNotFound(err) {
			return models.Stock{}, &NotFoundError{Entity: "outlet", ID: in.OutletID}
		}
		return models.Stock{}, fmt.Errorf("stock: load outlet: %w", err)
	}

	stock := models.Stock{
		ProductID:     in.ProductID,
		OutletID:      in.OutletID,
		Quantity:      in.Quantity,
		MinStockLevel: in.MinStockLevel,
	}
	// The unique index on (product_id, outlet_id) is the duplicate check.
	// A pre-read would race a concurrent create of the same pair.
	if err := s.stocks.Create(&stock); err != nil {
		if orm.IsDuplicate(err) {
			return models.Stock{}, &DuplicateStockError{ProductID: in.ProductID, OutletID: in.OutletID}
		}
		return models.Stock{}, fmt.Errorf("stock: create: %w", err)
	}

	logger.Info("stock: created",
		"stock_id", stock.ID,
		"product_id", stock.ProductID,
		"outlet_id", stock.OutletID,
		"quantity", stock.Quantity,
	)

	// A row can be born already below its threshold.
	s.evaluate(stock.ID)

	return s.Find(stock.ID)
}

// Update patches a stock row's threshold or quantity.
func (s *StockService) Update(id uint, in StockUpdateInput) (models.Stock, error) {
	stock, err := s.Find(id)
	if err != nil {
		return models.Stock{}, err
	}

	// Write only the requested columns; quantity and last_alert_at can
	// move concurrently and a full-row save would overwrite them.
	changes := map[string]interface{}{}

	switch {
	case in.ClearMin:
		changes["min_stock_level"] = nil // defer to the product default again
	case in.MinStockLevel != nil:
		if *in.MinStockLevel < 0 {
			return models.Stock{}, fmt.Errorf("%w: min stock level cannot be negative", ErrInvalidArgument)
		}
		changes["min_stock_level"] = *in.MinStockLevel
	}

	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return models.Stock{}, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidArgument)
		}
		changes["quantity"] = *in.Quantity
	}

	if len(changes) > 0 {
		if err := s.stocks.UpdateColumns(stock.ID, changes); err != nil {
			return models.Stock{}, fmt.Errorf("stock: update: %w", err)
		}
	}

	// A tightened threshold or lowered quantity may newly breach.
	s.evaluate(stock.ID)

	return s.Find(stock.ID)
}

// Adjust applies a signed delta to the on-hand quantity (receiving,
// shrinkage, recount). The reason is an audit breadcrumb in the logs.
// Both directions apply the delta as a relative SQL update against the
// live row, never against the copy read here, so a sale that commits
// mid-call keeps its decrement; the negative path additionally uses the
// same guard the order path does, so a quantity can never go below zero.
func (s *StockService) Adjust(id uint, in StockAdjustInput) (models.Stock, error) {
	stock, err := s.Find(id)
	if err != nil {
		return models.Stock{}, err
	}

	if in.Delta == 0 {
		return models.Stock{}, fmt.Errorf("%w: delta cannot be zero", ErrInvalidArgument)
	}

	if in.Delta < 0 {
		need := -in.Delta
		ok, err := s.stocks.DecrementGuarded(orm.DB(), stock.ID, need)
		if err != nil {
			return models.Stock{}, fmt.Errorf("stock: adjust: %w", err)
		}
		if !ok {
			current, loadErr := s.stocks.Reload(orm.DB(), stock.ID)
			available := 0
			if loadErr == nil {
				available = current.Quantity
			}
			return models.Stock{}, fmt.Errorf(
				"%w: quantity cannot go negative (removing %d, %d on hand)",
				ErrInvalidArgument, need, available)
		}
	} else {
		if err := s.stocks.Increment(orm.DB(), stock.ID, in.Delta); err != nil {
			return models.Stock{}, fmt.Errorf("stock: adjust: %w", err)
		}
	}

	logger.Info("stock: adjusted",
		"stock_id", stock.ID,
		"delta", in.Delta,
		"reason", in.Reason,
	)

	if in.Delta < 0 {
		s.evaluate(stock.ID)
	}

	return s.Find(stock.ID)
}

// Find loads one stock row with its product and outlet.
func (s *StockService) Find(id uint) (models.Stock, error) {
	stock, err := s.stocks.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Stock{}, &NotFoundError{Entity: "stock", ID: id}
		}
		return models.Stock{}, err
	}
	return stock, nil
}

// All lists stock rows, optionally filtered by outlet and product.
func (s *StockService) All(outletID, productID uint, page, limit int) ([]models.Stock, orm.Pagination, error) {
	return s.stocks.All(outletID, productID, page, limit)
}

// Low lists every row currently below its effective threshold.
func (s *StockService) Low() ([]models.Stock, error) {
	return s.stocks.AllBelowThreshold()
}

func (s *StockService) evaluate(stockID uint) {
	if s.alerts == nil {
		return
	}
	if _, err := s.alerts.EvaluateByID(stockID); err != nil {
		logger.Error("stock: alert evaluation failed", "stock_id", stockID, "error", err)
	}
}
