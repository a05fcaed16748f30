package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/01moynul/herbal-storefront/internal/email"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifications struct {
	mock.Mock
}

func (m *mockNotifications) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type mockSMS struct {
	mock.Mock
}

func (m *mockSMS) SendSMS(ctx context.Context, phone, body string) error {
	return m.Called(ctx, phone, body).Error(0)
}

func newDispatcher() (*Dispatcher, *mockNotifications, *mockMailer, *mockSMS) {
	n, m, s := new(mockNotifications), new(mockMailer), new(mockSMS)
	return NewDispatcher(n, m, s, "Herbal Co", slog.New(slog.DiscardHandler)), n, m, s
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            31,
		OrderNumber:   "HS-260101-0000AAAA",
		Status:        models.OrderPending,
		PaymentMethod: models.PaymentCOD,
		Total:         decimal.RequireFromString("18"),
		Customer:      models.CustomerInfo{Name: "Ana", Email: "ana@example.com", Phone: "+447700900000"},
		Items: []models.OrderItem{
			{ProductName: "Chamomile", UnitPrice: decimal.RequireFromString("9"), Quantity: 2},
		},
	}
}

func TestOrderCreatedAllChannels(t *testing.T) {
	d, n, m, s := newDispatcher()
	n.On("Create", mock.Anything, mock.MatchedBy(func(nt *models.Notification) bool {
		var p OrderCreatedPayload
		if err := json.Unmarshal(nt.Payload, &p); err != nil {
			return false
		}
		return nt.Type == "order_created" && nt.Recipient == "admin" && *nt.OrderID == 31 &&
			p == OrderCreatedPayload{OrderID: 31, OrderNumber: "HS-260101-0000AAAA", Total: "18.00", CustomerName: "Ana"}
	})).Return(nil)
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.To == "ana@example.com" &&
			msg.Subject == "Your Herbal Co order HS-260101-0000AAAA" &&
			strings.Contains(msg.Text, "Chamomile x2 @ 9.00") &&
			strings.Contains(msg.HTML, "<li>Chamomile")
	})).Return(nil)
	s.On("SendSMS", mock.Anything, "+447700900000", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "HS-260101-0000AAAA") && strings.Contains(body, "18.00")
	})).Return(nil)

	require.NoError(t, d.OrderCreated(context.Background(), sampleOrder()))
	n.AssertExpectations(t)
	m.AssertExpectations(t)
	s.AssertExpectations(t)
}

func TestOrderCreatedEmailFailureStillSendsSMS(t *testing.T) {
	d, n, m, s := newDispatcher()
	mailErr := errors.New("smtp: connection refused")
	n.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.On("Send", mock.Anything, mock.Anything).Return(mailErr)
	s.On("SendSMS", mock.Anything, "+447700900000", mock.Anything).Return(nil)

	err := d.OrderCreated(context.Background(), sampleOrder())

	assert.ErrorIs(t, err, mailErr)
	s.AssertNumberOfCalls(t, "SendSMS", 1)
}

func TestOrderCreatedJoinsEveryFailure(t *testing.T) {
	d, n, m, s := newDispatcher()
	storeErr := errors.New("db down")
	mailErr := errors.New("smtp down")
	smsErr := errors.New("sms down")
	n.On("Create", mock.Anything, mock.Anything).Return(storeErr)
	m.On("Send", mock.Anything, mock.Anything).Return(mailErr)
	s.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(smsErr)

	err := d.OrderCreated(context.Background(), sampleOrder())

	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, err, mailErr)
	assert.ErrorIs(t, err, smsErr)
}

func TestOrderCreatedSkipsMissingChannels(t *testing.T) {
	d, n, m, s := newDispatcher()
	n.On("Create", mock.Anything, mock.Anything).Return(nil)

	o := sampleOrder()
	o.Customer.Email = ""
	o.Customer.Phone = "  "

	require.NoError(t, d.OrderCreated(context.Background(), o))
	m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	s.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderStatusChanged(t *testing.T) {
	d, _, m, _ := newDispatcher()
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.Subject == "Order HS-260101-0000AAAA is shipped" &&
			strings.Contains(msg.Text, "Tracking number: AWB-1 (acme)")
	})).Return(nil).Once()

	o := sampleOrder()
	o.Status = models.OrderShipped
	o.Shipment = &models.Shipment{AWB: "AWB-1", Carrier: "acme"}
	require.NoError(t, d.OrderStatusChanged(context.Background(), o))

	o.Status = models.OrderProcessing
	require.NoError(t, d.OrderStatusChanged(context.Background(), o))
	m.AssertExpectations(t)
}
