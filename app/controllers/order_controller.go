package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create rings up a sale for the authenticated cashier.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	claims := auth.UserFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	order, err := c.service.Create(claims.UserID, in)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Created(w, order)
}

// Show returns one committed order with its line items.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	order, err := c.service.Find(id)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, order)
}

// Index lists an outlet's orders, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	outletID, _ := strconv.ParseUint(r.URL.Query().Get("outlet_id"), 10, 64)
	if outletID == 0 {
		response.BadRequest(w, "outlet_id query parameter is required")
		return
	}

	page, limit := pageParams(r)
	orders, pagination, err := c.service.ByOutlet(uint(outletID), page, limit)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Paginated(w, orders, pagination)
}
