package notify

import (
	"bytes"
	htmltemplate "html/template"
	"io"
	"text/template"

	"github.com/01moynul/herbal-storefront/internal/models"
)

var orderCreatedText = template.Must(template.New("order_created").Parse(
	`Hi {{.Order.Customer.Name}},

Thank you for your order with {{.Store}}.

Order number: {{.Order.OrderNumber}}
{{range .Order.Items}}- {{.ProductName}} x{{.Quantity}} @ {{.UnitPrice.StringFixed 2}}
{{end}}Total: {{.Order.Total.StringFixed 2}}
Payment: {{.Order.PaymentMethod}}

We will let you know when it ships.
`))

var orderCreatedHTML = htmltemplate.Must(htmltemplate.New("order_created_html").Parse(
	`<p>Hi {{.Order.Customer.Name}},</p>
<p>Thank you for your order with {{.Store}}.</p>
<p><strong>Order {{.Order.OrderNumber}}</strong></p>
<ul>{{range .Order.Items}}<li>{{.ProductName}} &times; {{.Quantity}} @ {{.UnitPrice.StringFixed 2}}</li>{{end}}</ul>
<p>Total: {{.Order.Total.StringFixed 2}}</p>`))

var orderCreatedSMS = template.Must(template.New("order_created_sms").Parse(
	`{{.Store}}: order {{.Order.OrderNumber}} received, total {{.Order.Total.StringFixed 2}}. Thank you!`))

var statusChangedText = template.Must(template.New("status_changed").Parse(
	`Hi {{.Order.Customer.Name}},

Your order {{.Order.OrderNumber}} is now {{.Order.Status}}.
{{if .Order.Shipment}}Tracking number: {{.Order.Shipment.AWB}} ({{.Order.Shipment.Carrier}})
{{end}}
{{.Store}}
`))

type templateData struct {
	Store string
	Order *models.Order
}

func render(t interface {
	Execute(w io.Writer, data any) error
}, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
