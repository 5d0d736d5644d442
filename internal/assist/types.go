package assist

// LineItem is a single billable line recovered from free text.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ExtractedInvoice contains the structured invoice fields recovered from
// free text. Items may be empty; every present item has already passed
// validation.
type ExtractedInvoice struct {
	ClientName string     `json:"clientName"`
	Email      string     `json:"email,omitempty"`
	Address    string     `json:"address,omitempty"`
	Items      []LineItem `json:"items"`
}

// ReminderContext is a read-only projection of a stored invoice used to
// draft a payment reminder. AmountDue and DueDate arrive pre-formatted.
type ReminderContext struct {
	ClientName    string
	InvoiceNumber string
	AmountDue     string
	DueDate       string
}

// RecentInvoice describes one invoice for the insight prompt.
type RecentInvoice struct {
	InvoiceNumber string
	Total         float64
	Status        string
}

// StatsSummary is an aggregated view of a user's invoices, computed by the
// invoice service. Recent holds at most five entries, newest first.
type StatsSummary struct {
	TotalInvoices    int
	PaidInvoices     int
	UnpaidInvoices   int
	TotalRevenue     float64
	TotalOutstanding float64
	Recent           []RecentInvoice
}
