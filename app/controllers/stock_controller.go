package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type StockController struct {
	service *services.StockService
}

func NewStockController(service *services.StockService) *StockController {
	return &StockController{service: service}
}

// Create registers a product at an outlet.
func (c *StockController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.StockInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	stock, err := c.service.Create(in)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Created(w, stock)
}

// Update patches a stock row's threshold or quantity.
func (c *StockController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid stock id")
		return
	}

	var in services.StockUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	stock, err := c.service.Update(id, in)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, stock)
}

// Adjust applies a signed quantity correction.
func (c *StockController) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid stock id")
		return
	}

	var in services.StockAdjustInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	stock, err := c.service.Adjust(id, in)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, stock)
}

// Index lists stock rows, filterable by ?outlet_id= and ?product_id=.
func (c *StockController) Index(w http.ResponseWriter, r *http.Request) {
	outletID, _ := strconv.ParseUint(r.URL.Query().Get("outlet_id"), 10, 64)
	productID, _ := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 64)
	page, limit := pageParams(r)

	stocks, pagination, err := c.service.All(uint(outletID), uint(productID), page, limit)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Paginated(w, stocks, pagination)
}

// Show returns one stock row.
func (c *StockController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid stock id")
		return
	}

	stock, err := c.service.Find(id)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, stock)
}

// Low lists every row currently below its effective threshold.
func (c *StockController) Low(w http.ResponseWriter, r *http.Request) {
	stocks, err := c.service.Low()
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, stocks)
}
