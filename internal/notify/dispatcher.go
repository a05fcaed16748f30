// Package notify fans order events out to the admin inbox, the customer's
// email and the customer's phone.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/email"
	"github.com/01moynul/herbal-storefront/internal/models"
)

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, body string) error
}

// LogSMSSender logs text messages instead of sending them.
type LogSMSSender struct {
	logger *slog.Logger
}

func NewLogSMSSender(logger *slog.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger.With("component", "sms")}
}

func (s *LogSMSSender) SendSMS(_ context.Context, phone, body string) error {
	s.logger.Info("sms (not sent, no provider configured)", "to", phone, "body", body)
	return nil
}

// Dispatcher runs every notification side effect independently. A failing
// channel is logged and reported but never stops the others.
type Dispatcher struct {
	notifications NotificationStore
	mailer        email.Sender
	sms           SMSSender
	storeName     string
	logger        *slog.Logger
}

func NewDispatcher(notifications NotificationStore, mailer email.Sender, sms SMSSender, storeName string, logger *slog.Logger) *Dispatcher {
	if storeName == "" {
		storeName = "Herbal Storefront"
	}
	return &Dispatcher{
		notifications: notifications,
		mailer:        mailer,
		sms:           sms,
		storeName:     storeName,
		logger:        logger.With("component", "notify"),
	}
}

// OrderCreatedPayload is stored on the admin alert.
type OrderCreatedPayload struct {
	OrderID      int64  `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	Total        string `json:"total"`
	CustomerName string `json:"customerName"`
}

// OrderCreated stores an admin alert, emails the customer if an address is
// on file and texts them if a phone is. The returned error joins every
// channel that failed.
func (d *Dispatcher) OrderCreated(ctx context.Context, order *models.Order) error {
	var errs []error
	data := templateData{Store: d.storeName, Order: order}

	// 1. --- Admin alert ---
	if err := d.adminAlert(ctx, order); err != nil {
		d.logger.Error("admin alert failed", "order_id", order.ID, "error", err)
		errs = append(errs, fmt.Errorf("admin alert: %w", err))
	}

	// 2. --- Customer email ---
	if to := strings.TrimSpace(order.Customer.Email); to != "" {
		if err := d.orderCreatedEmail(ctx, to, data); err != nil {
			d.logger.Error("order confirmation email failed", "order_id", order.ID, "error", err)
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	// 3. --- Customer SMS ---
	if phone := strings.TrimSpace(order.Customer.Phone); phone != "" {
		if err := d.orderCreatedSMS(ctx, phone, data); err != nil {
			d.logger.Error("order confirmation sms failed", "order_id", order.ID, "error", err)
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) adminAlert(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(OrderCreatedPayload{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Total:        order.Total.StringFixed(2),
		CustomerName: order.Customer.Name,
	})
	if err != nil {
		return err
	}
	orderID := order.ID
	return d.notifications.Create(ctx, &models.Notification{
		Type:      models.NotificationOrderCreated,
		Recipient: models.RecipientAdmin,
		Payload:   payload,
		OrderID:   &orderID,
	})
}

func (d *Dispatcher) orderCreatedEmail(ctx context.Context, to string, data templateData) error {
	text, err := render(orderCreatedText, data)
	if err != nil {
		return err
	}
	html, err := render(orderCreatedHTML, data)
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, email.Message{
		To:      to,
		Subject: fmt.Sprintf("Your %s order %s", d.storeName, data.Order.OrderNumber),
		Text:    text,
		HTML:    html,
	})
}

func (d *Dispatcher) orderCreatedSMS(ctx context.Context, phone string, data templateData) error {
	body, err := render(orderCreatedSMS, data)
	if err != nil {
		return err
	}
	return d.sms.SendSMS(ctx, phone, body)
}

// OrderStatusChanged emails the customer when the order ships, arrives or
// is cancelled. Other statuses are silent.
func (d *Dispatcher) OrderStatusChanged(ctx context.Context, order *models.Order) error {
	switch order.Status {
	case models.OrderShipped, models.OrderDelivered, models.OrderCancelled:
	default:
		return nil
	}
	to := strings.TrimSpace(order.Customer.Email)
	if to == "" {
		return nil
	}

	text, err := render(statusChangedText, templateData{Store: d.storeName, Order: order})
	if err != nil {
		return err
	}
	err = d.mailer.Send(ctx, email.Message{
		To:      to,
		Subject: fmt.Sprintf("Order %s is %s", order.OrderNumber, order.Status),
		Text:    text,
	})
	if err != nil {
		d.logger.Error("status email failed", "order_id", order.ID, "status", order.Status, "error", err)
		return fmt.Errorf("email: %w", err)
	}
	return nil
}
