// Package routes wires the HTTP surface onto the router.
package routes

import (
	"github.com/shashiranjanraj/dukaan/app/controllers"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/router"
)

// RegisterAPI mounts all application routes.
func RegisterAPI(r *router.Router) {
	alerts := services.NewAlertService()

	authController := controllers.NewAuthController()
	orderController := controllers.NewOrderController(services.NewOrderService(alerts))
	stockController := controllers.NewStockController(services.NewStockService(alerts))
	notificationController := controllers.NewNotificationController(services.NewNotificationService())
	catalogController := controllers.NewCatalogController()

	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Post("/login", "auth.login", authController.Login)

	protected := api.Group("", middleware.Auth)

	protected.Post("/orders", "orders.create", orderController.Create)
	protected.Get("/orders", "orders.index", orderController.Index)
	protected.Get("/orders/{id}", "orders.show", orderController.Show)

	protected.Post("/stock", "stock.create", stockController.Create)
	protected.Get("/stock", "stock.index", stockController.Index)
	protected.Get("/stock/low", "stock.low", stockController.Low)
	protected.Get("/stock/{id}", "stock.show", stockController.Show)
	protected.Patch("/stock/{id}", "stock.update", stockController.Update)
	protected.Post("/stock/{id}/adjust", "stock.adjust", stockController.Adjust)

	protected.Get("/notifications", "notifications.index", notificationController.Index)
	protected.Patch("/notifications/seen-all", "notifications.seen_all", notificationController.MarkAllSeen)
	protected.Patch("/notifications/{id}/seen", "notifications.seen", notificationController.MarkSeen)
	protected.Delete("/notifications/{id}", "notifications.delete", notificationController.Delete)

	protected.Post("/products", "products.create", catalogController.CreateProduct)
	protected.Get("/products", "products.index", catalogController.ListProducts)
	protected.Post("/outlets", "outlets.create", catalogController.CreateOutlet)
	protected.Get("/outlets", "outlets.index", catalogController.ListOutlets)
}
