package invoice

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/priyanshsharmatech/InvoSutra/internal/assist"
)

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		assistant   *mockAssistant
		extractor   *mockExtractor
		service     *Service
		auth        BasicAuth
		server      *Server
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	postJSON := func(path string, body any) *http.Response {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghttpServer.URL()+path, "application/json", bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	BeforeEach(func() {
		db = newMockDB()
		assistant = &mockAssistant{}
		extractor = &mockExtractor{}
		service = NewServiceWithDeps(db, assistant, extractor, newMockStorage(),
			&mockIDGenerator{id: "fixed-id"}, &mockTimeSource{now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)})
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("POST /api/ai/parse-text", func() {
		When("extraction succeeds", func() {
			BeforeEach(func() {
				assistant.extracted = &assist.ExtractedInvoice{
					ClientName: "John Doe",
					Email:      "john@x.com",
					Items:      []assist.LineItem{{Name: "widgets", Quantity: 2, UnitPrice: 9.99}},
				}
			})

			It("returns the extracted invoice", func() {
				resp := postJSON("/api/ai/parse-text", map[string]string{"text": "Bill John Doe"})
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var extracted assist.ExtractedInvoice
				Expect(json.NewDecoder(resp.Body).Decode(&extracted)).To(Succeed())
				Expect(extracted.ClientName).To(Equal("John Doe"))
				Expect(extracted.Items).To(HaveLen(1))
			})
		})

		When("the text is empty", func() {
			BeforeEach(func() {
				assistant.extractErr = &assist.Error{Kind: assist.KindInput, Detail: "text is required"}
			})

			It("returns 400", func() {
				resp := postJSON("/api/ai/parse-text", map[string]string{"text": ""})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		When("the model reply is not decodable", func() {
			BeforeEach(func() {
				assistant.extractErr = &assist.Error{Kind: assist.KindMalformedResponse, Detail: "response is not valid JSON"}
			})

			It("returns 502", func() {
				resp := postJSON("/api/ai/parse-text", map[string]string{"text": "bill acme"})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			})
		})
	})

	Describe("POST /api/ai/reminder", func() {
		BeforeEach(func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", InvoiceNumber: "INV-7", ClientName: "Acme"}
			assistant.draft = "Subject: Reminder\n\nHi Acme,"
		})

		It("returns the reminder draft", func() {
			resp := postJSON("/api/ai/reminder", map[string]string{"invoiceId": "inv-1"})
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["reminderText"]).To(HavePrefix("Subject:"))
		})

		When("the invoice id is missing", func() {
			It("returns 400", func() {
				resp := postJSON("/api/ai/reminder", map[string]string{})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		When("the invoice does not exist", func() {
			It("returns 404", func() {
				resp := postJSON("/api/ai/reminder", map[string]string{"invoiceId": "missing"})
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("GET /api/ai/insights", func() {
		BeforeEach(func() {
			assistant.insights = []string{"No invoice data available to generate insights."}
		})

		It("returns the insights", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/ai/insights")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string][]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["insights"]).To(HaveLen(1))
		})
	})

	Describe("invoice CRUD", func() {
		It("creates an invoice", func() {
			resp := postJSON("/api/invoices", map[string]any{
				"client_name": "Acme",
				"items":       []map[string]any{{"name": "widgets", "quantity": 2, "unit_price": 999}},
			})
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var created Invoice
			Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
			Expect(created.ID).To(Equal("fixed-id"))
			Expect(created.Status).To(Equal(StatusPending))
		})

		It("rejects an invoice without a client name", func() {
			resp := postJSON("/api/invoices", map[string]any{})
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("lists invoices", func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", ClientName: "Acme"}
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var invoices []*Invoice
			Expect(json.NewDecoder(resp.Body).Decode(&invoices)).To(Succeed())
			Expect(invoices).To(HaveLen(1))
		})

		It("returns 404 for a missing invoice", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/missing")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("deletes an invoice", func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", ClientName: "Acme"}
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/invoices/inv-1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(db.invoices).To(BeEmpty())
		})

		It("marks an invoice paid", func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", ClientName: "Acme", Status: StatusPending}
			resp := postJSON("/api/invoices/inv-1/paid", nil)
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var updated Invoice
			Expect(json.NewDecoder(resp.Body).Decode(&updated)).To(Succeed())
			Expect(updated.Status).To(Equal(StatusPaid))
		})

		It("serves an invoice PDF", func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", InvoiceNumber: "INV-7", ClientName: "Acme"}
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/inv-1/pdf")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/pdf"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body[:5])).To(Equal("%PDF-"))
		})
	})

	Describe("POST /api/invoices/import", func() {
		BeforeEach(func() {
			extractor.text = "Bill John Doe 2 widgets at 9.99 each"
			assistant.extracted = &assist.ExtractedInvoice{
				ClientName: "John Doe",
				Items:      []assist.LineItem{{Name: "widgets", Quantity: 2, UnitPrice: 9.99}},
			}
		})

		It("creates a pending invoice from the uploaded document", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			part, err := writer.CreateFormFile("file", "order.txt")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("Bill John Doe 2 widgets at 9.99 each"))
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/invoices/import", body)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))

			var created Invoice
			Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
			Expect(created.ClientName).To(Equal("John Doe"))
			Expect(db.invoices).To(HaveKey(created.ID))
		})

		It("returns 400 when no file is provided", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			Expect(writer.Close()).To(Succeed())

			req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/invoices/import", body)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "admin", Password: "secret"}
			setupServer()
		})

		It("rejects requests without credentials", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("accepts requests with valid credentials", func() {
			req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/invoices", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))

			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})
})
