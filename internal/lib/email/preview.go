package email

// PreviewData holds sample data for every template, keyed by template, for
// local previews and template tests.
var PreviewData = map[Template]any{
	TemplateOrderConfirmation: OrderConfirmation{
		CustomerName:  "Jane Wanjiku",
		OrderID:       1042,
		Status:        "pending",
		Currency:      "KES",
		Total:         "22298.00",
		PaymentMethod: "mpesa",
		Items: []OrderLine{
			{Name: "Samsung Galaxy A15", Quantity: 1, UnitPrice: "18999.00"},
			{Name: "Oraimo FreePods 4", Quantity: 1, UnitPrice: "3299.00"},
		},
	},
}
