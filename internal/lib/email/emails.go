package email

import "fmt"

// OrderLine is one row of the order confirmation table.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice string
}

// OrderConfirmation is the data rendered into the order confirmation email.
type OrderConfirmation struct {
	CustomerName  string
	OrderID       int64
	Status        string
	Currency      string
	Total         string
	PaymentMethod string
	Items         []OrderLine
}

// SendOrderConfirmationEmail tells a customer their order was received.
func (c *Client) SendOrderConfirmationEmail(to string, data OrderConfirmation) error {
	if data.Currency == "" {
		data.Currency = "KES"
	}

	return c.SendEmail(
		to,
		fmt.Sprintf("Fasthub order #%d received", data.OrderID),
		TemplateOrderConfirmation,
		data,
	)
}
