package assist

import (
	"context"
	"errors"
	"strings"
	"time"
)

// noInvoiceDataInsight is returned without invoking the model when the
// caller has no invoices yet.
const noInvoiceDataInsight = "No invoice data available to generate insights."

const defaultTimeout = 30 * time.Second

// Service runs the three extraction pipelines. It holds no per-request
// state, so a single Service may serve any number of concurrent callers.
type Service struct {
	invoker Invoker
	timeout time.Duration
}

// NewService creates a Service with the default model call timeout
func NewService(invoker Invoker) *Service {
	return NewServiceWithTimeout(invoker, defaultTimeout)
}

// NewServiceWithTimeout creates a Service with a custom model call timeout
func NewServiceWithTimeout(invoker Invoker, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		invoker: invoker,
		timeout: timeout,
	}
}

// ParseInvoiceFromText asks the model to extract a structured invoice from
// free-form text and validates the reply before returning it.
func (s *Service) ParseInvoiceFromText(ctx context.Context, text string) (*ExtractedInvoice, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindInput, "text is required")
	}

	raw, err := s.invoke(ctx, buildExtractPrompt(text))
	if err != nil {
		return nil, err
	}

	value, err := decodeResponse(sanitizeResponse(raw))
	if err != nil {
		return nil, err
	}

	return validateInvoice(value)
}

// GenerateReminderEmail drafts a payment reminder for the given invoice
// context. The reply is prose, not payload, so it is returned unchanged;
// the prompt requires it to begin with a "Subject:" line.
func (s *Service) GenerateReminderEmail(ctx context.Context, rc ReminderContext) (string, error) {
	if rc.ClientName == "" || rc.InvoiceNumber == "" {
		return "", newError(KindInput, "invoice details are required")
	}

	return s.invoke(ctx, buildReminderPrompt(rc))
}

// DashboardInsights asks the model for short advisory strings about the
// given invoice statistics. When the statistics reflect zero invoices the
// model is not invoked at all and a single canned insight is returned.
func (s *Service) DashboardInsights(ctx context.Context, stats StatsSummary) ([]string, error) {
	if stats.TotalInvoices == 0 {
		return []string{noInvoiceDataInsight}, nil
	}

	raw, err := s.invoke(ctx, buildInsightPrompt(stats))
	if err != nil {
		return nil, err
	}

	value, err := decodeResponse(sanitizeResponse(raw))
	if err != nil {
		return nil, err
	}

	return validateInsights(value)
}

// invoke makes the single outbound model call, bounded by the service
// timeout. Failures that are not already tagged collapse to a service error.
func (s *Service) invoke(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.invoker.Invoke(ctx, prompt)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			return "", err
		}
		return "", wrapError(KindService, "invoking model", err)
	}
	return text, nil
}
