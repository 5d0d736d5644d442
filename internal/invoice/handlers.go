package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/priyanshsharmatech/InvoSutra/internal/assist"
)

// maxImportSize bounds uploaded document size (50MB)
const maxImportSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// statusForError maps pipeline error kinds to HTTP status codes
func statusForError(err error) int {
	switch {
	case assist.IsKind(err, assist.KindInput):
		return http.StatusBadRequest
	case assist.IsKind(err, assist.KindNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case assist.IsKind(err, assist.KindService),
		assist.IsKind(err, assist.KindMalformedResponse),
		assist.IsKind(err, assist.KindSchemaValidation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response for a service failure
func writeError(w http.ResponseWriter, err error) {
	message := "Internal server error"
	var perr *assist.Error
	switch {
	case errors.As(err, &perr):
		message = perr.Detail
	case errors.Is(err, ErrNotFound):
		message = "Invoice not found"
	}
	writeJSON(w, statusForError(err), map[string]string{"error": message})
}

// handleParseText extracts invoice fields from free-form text
func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	extracted, err := s.service.ParseFromText(r.Context(), req.Text)
	if err != nil {
		slog.Error("Error parsing invoice from text", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extracted)
}

// handleReminder drafts a payment reminder email for an invoice
func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID string `json:"invoiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.InvoiceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invoice ID is required"})
		return
	}

	draft, err := s.service.Reminder(r.Context(), req.InvoiceID)
	if err != nil {
		slog.Error("Error generating reminder email", "invoice", req.InvoiceID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reminderText": draft})
}

// handleInsights returns advisory strings about the stored invoices
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.service.Insights(r.Context())
	if err != nil {
		slog.Error("Error generating insights", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"insights": insights})
}

// handleCreateInvoice creates an invoice from a JSON body
func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	created, err := s.service.CreateInvoice(&inv)
	if err != nil {
		slog.Error("Error creating invoice", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListInvoices returns all invoices, newest first
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.service.ListInvoices()
	if err != nil {
		slog.Error("Error listing invoices", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}

// handleGetInvoice returns a single invoice
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.GetInvoice(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleDeleteInvoice removes an invoice
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteInvoice(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMarkPaid marks an invoice as paid
func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := s.service.MarkPaid(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, inv)
}

// handleInvoicePDF returns a rendered PDF for an invoice
func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.service.InvoicePDF(id)
	if err != nil {
		slog.Error("Error rendering invoice PDF", "invoice", id, "error", err)
		writeError(w, err)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="invoice-`+id+`.pdf"`)
	w.Write(data)
}

// handleImportInvoice extracts an invoice from an uploaded document and
// persists it as pending
func (s *Server) handleImportInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error parsing form"})
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer f.Close()

	if header.Size > maxImportSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "File is too large. Maximum size is 50MB."})
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error reading file"})
		return
	}

	inv, err := s.service.ImportDocument(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("Error importing invoice document", "filename", header.Filename, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}
