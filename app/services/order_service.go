package services

import (
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
)

// OrderLineInput is one requested product line.
type OrderLineInput struct {
	ProductID uint `json:"product_id" validate:"required,integer"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// OrderInput is a point-of-sale submission.
type OrderInput struct {
	OutletID      uint             `json:"outlet_id" validate:"required,integer"`
	CustomerID    *uint            `json:"customer_id" validate:"nullable"`
	PaymentMethod string           `json:"payment_method" validate:"required,in=cash,card,upi"`
	Items         []OrderLineInput `json:"items" validate:"required"`
}

// OrderService coordinates the sale transaction: validate the lines,
// commit the order and its stock decrements atomically, then hand the
// touched rows to the alert engine. An order either fully commits or
// leaves no trace.
type OrderService struct {
	orders  *repositories.OrderRepository
	stocks  *repositories.StockRepository
	outlets *repositories.OutletRepository
	alerts  *AlertService
}

func NewOrderService(alerts *AlertService) *OrderService {
	return &OrderService{
		orders:  repositories.NewOrderRepository(),
		stocks:  repositories.NewStockRepository(),
		outlets: repositories.NewOutletRepository(),
		alerts:  alerts,
	}
}

// Create processes one sale for the given cashier.
//
// Validation reads are advisory: they produce early, well-named errors,
// but the guarded decrements inside the transaction are what actually
// protect against overselling under concurrency.
func (s *OrderService) Create(userID uint, in OrderInput) (models.Order, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cash"
	}

	lines, err := s.validate(in)
	if err != nil {
		return models.Order{}, err
	}

	order, touched, err := s.commit(userID, in, lines)
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersCreated.WithLabelValues(strconv.FormatUint(uint64(in.OutletID), 10)).Inc()
	logger.Info("order: committed",
		"order_id", order.ID,
		"outlet_id", order.OutletID,
		"user_id", userID,
		"lines", len(order.Items),
		"total", order.Total,
	)

	// Alerting runs after the commit so a slow or broken alert pipeline
	// can never roll back a completed sale.
	s.alertTouched(touched)

	return order, nil
}

// validatedLine pairs a merged input line with its resolved stock row.
type validatedLine struct {
	stock models.Stock
	qty   int
}

func (s *OrderService) validate(in OrderInput) ([]validatedLine, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidArgument)
	}

	if _, err := s.outlets.FindByID(in.OutletID); err != nil {
		if orm.IsNotFound(err) {
			metrics.OrdersRejected.WithLabelValues("missing_outlet").Inc()
			return nil, &NotFoundError{Entity: "outlet", ID: in.OutletID}
		}
		return nil, fmt.Errorf("order: load outlet: %w", err)
	}

	// Merge duplicate product lines so the guard sees one decrement per row.
	merged := map[uint]int{}
	var order []uint
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgument)
		}
		if _, seen := merged[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		merged[line.ProductID] += line.Quantity
	}

	lines := make([]validatedLine, 0, len(order))
	for _, productID := range order {
		qty := merged[productID]

		stock, err := s.stocks.FindByProductAndOutlet(productID, in.OutletID)
		if err != nil {
			if orm.IsNotFound(err) {
				metrics.OrdersRejected.WithLabelValues("missing_stock").Inc()
				return nil, &NotFoundError{Entity: "stock for product", ID: productID}
			}
			return nil, fmt.Errorf("order: load stock: %w", err)
		}

		if stock.Quantity < qty {
			metrics.OrdersRejected.WithLabelValues("insufficient_stock").Inc()
			return nil, &InsufficientStockError{
				ProductID: productID,
				OutletID:  in.OutletID,
				Requested: qty,
				Available: stock.Quantity,
			}
		}

		lines = append(lines, validatedLine{stock: stock, qty: qty})
	}

	return lines, nil
}

// commit writes the order aggregate and decrements every line's stock in
// one transaction. Any failed guard aborts the whole thing.
func (s *OrderService) commit(userID uint, in OrderInput, lines []validatedLine) (models.Order, []uint, error) {
	var order models.Order
	var touched []uint

	err := orm.Transaction(func(tx *orm.Query) error {
		items := make([]models.OrderItem, 0, len(lines))
		total := 0.0
		for _, line := range lines {
			subtotal := line.stock.Product.Price * float64(line.qty)
			items = append(items, models.OrderItem{
				ProductID: line.stock.ProductID,
				Quantity:  line.qty,
				UnitPrice: line.stock.Product.Price,
				Subtotal:  subtotal,
			})
			total += subtotal
		}

		order = models.Order{
			OutletID:      in.OutletID,
			UserID:        userID,
			PaymentMethod: in.PaymentMethod,
			CustomerID:    in.CustomerID,
			Total:         total,
			Status:        models.OrderStatusCompleted,
			Items:         items,
		}
		if err := s.orders.CreateInTx(tx, &order); err != nil {
			return fmt.Errorf("order: create: %w", err)
		}

		for _, line := range lines {
			ok, err := s.stocks.DecrementGuarded(tx, line.stock.ID, line.qty)
			if err != nil {
				return fmt.Errorf("order: decrement stock %d: %w", line.stock.ID, err)
			}
			if !ok {
				// A concurrent sale drained this row between validation
				// and commit. Reload for an accurate error, then abort.
				current, loadErr := s.stocks.Reload(tx, line.stock.ID)
				available := 0
				if loadErr == nil {
					available = current.Quantity
				}
				metrics.OrdersRejected.WithLabelValues("conflict").Inc()
				return &InsufficientStockError{
					ProductID: line.stock.ProductID,
					OutletID:  in.OutletID,
					Requested: line.qty,
					Available: available,
				}
			}
			touched = append(touched, line.stock.ID)
		}

		return nil
	})
	if err != nil {
		return models.Order{}, nil, err
	}

	return order, touched, nil
}

// alertTouched evaluates every stock row the order decremented. Failures
// are logged; the sale stays committed no matter what happens here.
func (s *OrderService) alertTouched(stockIDs []uint) {
	for _, id := range stockIDs {
		if _, err := s.alerts.EvaluateByID(id); err != nil {
			logger.Error("order: post-commit alert evaluation failed",
				"stock_id", id, "error", err)
		}
	}
}

// Find loads a committed order with its items.
func (s *OrderService) Find(id uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if orm.IsNotFound(err) {
			return models.Order{}, &NotFoundError{Entity: "order", ID: id}
		}
		return models.Order{}, err
	}
	return order, nil
}

// ByOutlet lists an outlet's orders, newest first.
func (s *OrderService) ByOutlet(outletID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ByOutlet(outletID, page, limit)
}
