package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type NotificationController struct {
	service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// Index lists notifications, newest first. ?outlet_id= restricts to one
// outlet, ?unseen=true to unread rows.
func (c *NotificationController) Index(w http.ResponseWriter, r *http.Request) {
	outletID, _ := strconv.ParseUint(r.URL.Query().Get("outlet_id"), 10, 64)
	unseenOnly := r.URL.Query().Get("unseen") == "true"
	page, limit := pageParams(r)

	list, pagination, err := c.service.All(uint(outletID), unseenOnly, page, limit)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Paginated(w, list, pagination)
}

// MarkSeen flags one notification as read.
func (c *NotificationController) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid notification id")
		return
	}

	n, err := c.service.MarkSeen(id)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, n)
}

// MarkAllSeen flags an outlet's unseen notifications as read.
// ?outlet_id= is required so one store's manager cannot clear another's
// inbox by accident.
func (c *NotificationController) MarkAllSeen(w http.ResponseWriter, r *http.Request) {
	outletID, err := strconv.ParseUint(r.URL.Query().Get("outlet_id"), 10, 64)
	if err != nil || outletID == 0 {
		response.BadRequest(w, "outlet_id is required")
		return
	}

	updated, err := c.service.MarkAllSeen(uint(outletID))
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, map[string]int64{"updated": updated})
}

// Delete removes one notification.
func (c *NotificationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := c.service.Delete(id); err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, nil)
}
