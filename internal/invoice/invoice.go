package invoice

import (
	"math"
	"time"
)

// Invoice status values.
const (
	StatusPaid    = "Paid"
	StatusPending = "Pending"
	StatusOverdue = "Overdue"
)

// Item is a billable line on an invoice
type Item struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice int     `json:"unit_price"` // Unit price in cents
}

// Invoice represents a stored invoice
type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Items         []Item    `json:"items"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Total returns the invoice total in cents
func (i *Invoice) Total() int {
	var total int
	for _, item := range i.Items {
		total += int(math.Round(item.Quantity * float64(item.UnitPrice)))
	}
	return total
}
