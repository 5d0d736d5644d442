package assist

import (
	"fmt"
	"strings"
)

const extractPromptTemplate = `You are an expert invoice data extraction AI. Analyze the following text and extract the relevant information to create an invoice.
The output MUST be a valid JSON object.

The JSON object should have the following structure:
{
  "clientName": "string",
  "email": "string (if available)",
  "address": "string (if available)",
  "items": [
    {
      "name": "string",
      "quantity": "number",
      "unitPrice": "number"
    }
  ]
}

Here is the text to parse:
--- TEXT START ---
%s
--- TEXT END ---

Extract the data and provide only the JSON object.`

const reminderPromptTemplate = `You are a professional and polite accounting assistant. Write a friendly reminder email to a client about an overdue or upcoming invoice payment.

Use the following details to personalize the email:
- Client Name: %s
- Invoice Number: %s
- Amount Due: %s
- Due Date: %s

The tone should be friendly but clear. Keep it concise. Start the email with "Subject:".`

const insightPromptTemplate = `You are a friendly and insightful financial analyst for a small business owner.
Based on the following summary of their invoice data, provide 2-3 concise and actionable insights.
Each insight should be a short string in a JSON array.
The insights should be encouraging and helpful, and use the Indian Rupee symbol (₹) when referring to amounts.
Do not use the dollar ($) symbol anywhere. Do not just repeat the data.
For example, if there is a high outstanding amount, suggest sending reminders. If revenue is high, be encouraging.

Data Summary:
%s

Return your response as a valid JSON object with a single key "insights" which is an array of strings.
Example format: { "insights": ["Your revenue is looking strong this month!", "You have 5 overdue invoices. Consider sending reminders to get paid faster."] }`

// buildExtractPrompt embeds the raw request text in the extraction prompt.
func buildExtractPrompt(text string) string {
	return fmt.Sprintf(extractPromptTemplate, text)
}

// buildReminderPrompt embeds the invoice context in the reminder prompt.
func buildReminderPrompt(rc ReminderContext) string {
	return fmt.Sprintf(reminderPromptTemplate, rc.ClientName, rc.InvoiceNumber, rc.AmountDue, rc.DueDate)
}

// buildInsightPrompt embeds a textual rendering of the invoice statistics
// in the insight prompt.
func buildInsightPrompt(stats StatsSummary) string {
	return fmt.Sprintf(insightPromptTemplate, renderStatsSummary(stats))
}

// renderStatsSummary formats the aggregated figures the way the insight
// prompt expects, with amounts to two decimal places and at most five
// recent invoice descriptions.
func renderStatsSummary(stats StatsSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Total number of invoices: %d\n", stats.TotalInvoices)
	fmt.Fprintf(&b, "- Total paid invoices: %d\n", stats.PaidInvoices)
	fmt.Fprintf(&b, "- Total unpaid/pending invoices: %d\n", stats.UnpaidInvoices)
	fmt.Fprintf(&b, "- Total revenue from paid invoices: %.2f\n", stats.TotalRevenue)
	fmt.Fprintf(&b, "- Total outstanding amount from unpaid/pending invoices: %.2f\n", stats.TotalOutstanding)

	recent := stats.Recent
	if len(recent) > 5 {
		recent = recent[:5]
	}
	descriptions := make([]string, 0, len(recent))
	for _, inv := range recent {
		descriptions = append(descriptions, fmt.Sprintf("Invoice #%s for %.2f with status %s", inv.InvoiceNumber, inv.Total, inv.Status))
	}
	fmt.Fprintf(&b, "- Recent invoices (last 5): %s", strings.Join(descriptions, ", "))

	return b.String()
}
