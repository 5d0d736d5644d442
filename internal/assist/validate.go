package assist

import (
	"fmt"
	"math"
	"strings"
)

// forbiddenCurrencySymbol must not appear in validated insights; the prompt
// mandates the rupee symbol instead.
const forbiddenCurrencySymbol = "$"

// validateInvoice checks a decoded value against the invoice shape and
// produces the typed result. A single bad line item rejects the whole
// invoice; items are never silently dropped.
func validateInvoice(value any) (*ExtractedInvoice, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newError(KindSchemaValidation, "top-level value is not an object")
	}

	var inv ExtractedInvoice
	var err error
	if inv.ClientName, err = stringField(obj, "clientName", true); err != nil {
		return nil, err
	}
	if inv.Email, err = stringField(obj, "email", false); err != nil {
		return nil, err
	}
	if inv.Address, err = stringField(obj, "address", false); err != nil {
		return nil, err
	}

	rawItems, ok := obj["items"]
	if !ok || rawItems == nil {
		return &inv, nil
	}
	list, ok := rawItems.([]any)
	if !ok {
		return nil, newError(KindSchemaValidation, "items is not an array")
	}
	inv.Items = make([]LineItem, 0, len(list))
	for i, raw := range list {
		item, err := validateLineItem(i, raw)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}

	return &inv, nil
}

func validateLineItem(index int, raw any) (LineItem, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return LineItem{}, newError(KindSchemaValidation, fmt.Sprintf("items[%d] is not an object", index))
	}

	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return LineItem{}, newError(KindSchemaValidation, fmt.Sprintf("items[%d].name is missing or empty", index))
	}

	quantity, err := numberField(obj, fmt.Sprintf("items[%d].quantity", index), "quantity")
	if err != nil {
		return LineItem{}, err
	}
	if quantity <= 0 {
		return LineItem{}, newError(KindSchemaValidation, fmt.Sprintf("items[%d].quantity must be greater than zero", index))
	}

	unitPrice, err := numberField(obj, fmt.Sprintf("items[%d].unitPrice", index), "unitPrice")
	if err != nil {
		return LineItem{}, err
	}
	if unitPrice < 0 {
		return LineItem{}, newError(KindSchemaValidation, fmt.Sprintf("items[%d].unitPrice must not be negative", index))
	}

	return LineItem{Name: name, Quantity: quantity, UnitPrice: unitPrice}, nil
}

// validateInsights checks a decoded value against the insight-summary shape
// and returns the list of insight strings.
func validateInsights(value any) ([]string, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newError(KindSchemaValidation, "top-level value is not an object")
	}
	raw, ok := obj["insights"]
	if !ok {
		return nil, newError(KindSchemaValidation, "insights key is missing")
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, newError(KindSchemaValidation, "insights is not an array")
	}
	if len(list) == 0 {
		return nil, newError(KindSchemaValidation, "insights is empty")
	}

	insights := make([]string, 0, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, newError(KindSchemaValidation, fmt.Sprintf("insights[%d] is not a non-empty string", i))
		}
		if strings.Contains(s, forbiddenCurrencySymbol) {
			return nil, newError(KindSchemaValidation, fmt.Sprintf("insights[%d] uses a forbidden currency symbol", i))
		}
		insights = append(insights, s)
	}
	return insights, nil
}

func stringField(obj map[string]any, key string, required bool) (string, error) {
	value, ok := obj[key]
	if !ok || value == nil {
		if required {
			return "", newError(KindSchemaValidation, key+" is missing")
		}
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", newError(KindSchemaValidation, key+" is not a string")
	}
	if required && strings.TrimSpace(s) == "" {
		return "", newError(KindSchemaValidation, key+" is empty")
	}
	return s, nil
}

func numberField(obj map[string]any, label string, key string) (float64, error) {
	value, ok := obj[key]
	if !ok || value == nil {
		return 0, newError(KindSchemaValidation, label+" is missing")
	}
	n, ok := value.(float64)
	if !ok {
		return 0, newError(KindSchemaValidation, label+" is not a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, newError(KindSchemaValidation, label+" is not finite")
	}
	return n, nil
}
