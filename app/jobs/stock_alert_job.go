// Package jobs holds the background jobs processed by the queue workers.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/notification"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

// StockAlertJob delivers a low-stock alert by email and, when a webhook
// is configured, Slack. The durable notification row is already written
// before this job is dispatched, so a delivery failure here is retried
// by the queue and never affects the sale that triggered it.
type StockAlertJob struct {
	NotificationID uint   `json:"notification_id"`
	Recipient      string `json:"recipient"` // outlet alert address
	ProductName    string `json:"product_name"`
	OutletName     string `json:"outlet_name"`
	Quantity       int    `json:"quantity"`
	Threshold      int    `json:"threshold"`
}

// TypeName is the registry key for queue deserialization. Dispatch
// envelopes every job under its %T, so the key is derived from the
// pointer type that actually gets dispatched.
var TypeName = fmt.Sprintf("%T", (*StockAlertJob)(nil))

// RegisterAll wires every job type into the queue registry. Call once at boot.
func RegisterAll() {
	queue.Register(TypeName, func() queue.Job { return &StockAlertJob{} })
}

// Handle sends the alert through its channels.
func (j *StockAlertJob) Handle() error {
	to := j.Recipient
	if to == "" {
		to = config.StockAlertRecipient()
	}
	errs := notification.Send(to, j)
	if len(errs) > 0 {
		return fmt.Errorf("jobs: stock alert %d delivery: %w", j.NotificationID, errs[0])
	}
	return nil
}

// Via selects mail always, Slack only when a webhook is configured.
func (j *StockAlertJob) Via() []string {
	channels := []string{"mail"}
	if config.StockAlertSlackWebhook() != "" {
		channels = append(channels, "slack")
	}
	return channels
}

func (j *StockAlertJob) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Low stock: %s at %s", j.ProductName, j.OutletName),
		Body: fmt.Sprintf(
			"<p><strong>%s</strong> is running low at <strong>%s</strong>.</p>"+
				"<p>On hand: %d (threshold %d). Consider restocking.</p>",
			j.ProductName, j.OutletName, j.Quantity, j.Threshold),
		Text: fmt.Sprintf("%s is running low at %s. On hand: %d (threshold %d).",
			j.ProductName, j.OutletName, j.Quantity, j.Threshold),
	}
}

func (j *StockAlertJob) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf(":warning: Low stock: *%s* at *%s*", j.ProductName, j.OutletName),
		Attachments: []notification.SlackAttachment{{
			Color:  "warning",
			Text:   fmt.Sprintf("On hand: %d (threshold %d)", j.Quantity, j.Threshold),
			Footer: "Dukaan stock alerts",
		}},
	}
}
