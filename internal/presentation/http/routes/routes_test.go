package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-generator/internal/application/service"
	"github.com/sangkips/invoice-generator/internal/config"
	"github.com/sangkips/invoice-generator/internal/document"
	"github.com/sangkips/invoice-generator/internal/infrastructure/database"
	"github.com/sangkips/invoice-generator/internal/infrastructure/pdf"
	"github.com/sangkips/invoice-generator/internal/infrastructure/repository"
	"github.com/sangkips/invoice-generator/internal/presentation/http/handler"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	router    *gin.Engine
	outputDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, _ := test.NewNullLogger()
	dir := t.TempDir()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "invoice-generator", Addr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "invoices.db")},
		Document: config.DocumentConfig{OutputDir: filepath.Join(dir, "out"), CompanyName: "Test Co"},
	}
	require.NoError(t, os.MkdirAll(cfg.Document.OutputDir, 0o755))

	db, err := database.Open(&cfg.Database, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() { _ = database.Close(db) })

	renderer := document.NewRenderer(pdf.NewCanvas, document.Branding{CompanyName: cfg.Document.CompanyName}, log)
	invoiceService := service.NewInvoiceService(repository.NewInvoiceRepository(db), renderer, cfg.Document.OutputDir, log)
	draftService := service.NewDraftService(invoiceService)

	router := Setup(&Handlers{
		Draft:   handler.NewDraftHandler(draftService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}, &Deps{Cfg: cfg, Log: log})

	return &testServer{router: router, outputDir: cfg.Document.OutputDir}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) createDraft(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/drafts", map[string]string{
		"customer_name":    "Acme Traders",
		"customer_address": "12 Market Street\nPune",
		"date":             "2026-03-04 10:11:12",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var draft struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	return draft.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodGet, "/api/v1/nowhere", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, env.Success)
}

func TestDraftToInvoice(t *testing.T) {
	s := newTestServer(t)
	id := s.createDraft(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/items", map[string]string{
		"description": "Widget",
		"quantity":    "two",
		"unit_rate":   "100",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "validation", env.Kind)
	require.Len(t, env.Errors, 1)
	require.Equal(t, "quantity", env.Errors[0].Field)

	w, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/items", map[string]string{
		"description": "Widget",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Errors, 2)

	w, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/items", map[string]string{
		"description": "Widget",
		"quantity":    "2",
		"unit_rate":   "100",
		"tax_percent": "18",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var draft struct {
		Items []struct {
			Amount string `json:"amount"`
		} `json:"items"`
		Totals struct {
			Total string `json:"total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Len(t, draft.Items, 1)
	require.Equal(t, "236.00", draft.Items[0].Amount)
	require.Equal(t, "236.00", draft.Totals.Total)

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices/next-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "INV-0001")

	w, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/finalize", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var result struct {
		InvoiceID     uint   `json:"invoice_id"`
		InvoiceNumber string `json:"invoice_number"`
		OutputPath    string `json:"output_path"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, "INV-0001", result.InvoiceNumber)
	require.Equal(t, filepath.Join(s.outputDir, "INV-0001.pdf"), result.OutputPath)
	require.FileExists(t, result.OutputPath)

	// the draft is gone once saved
	w, _ = s.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "INV-0001")

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, string(env.Data), "Widget")

	require.NoError(t, os.Remove(result.OutputPath))
	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices/1/render", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.FileExists(t, result.OutputPath)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	require.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestFinalizeEmptyDraft(t *testing.T) {
	s := newTestServer(t)
	id := s.createDraft(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/finalize", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "empty_invoice", env.Kind)
	require.Empty(t, string(env.Data))

	// refused drafts stay editable
	w, _ = s.do(t, http.MethodGet, "/api/v1/drafts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := os.ReadDir(s.outputDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRemoveAndDiscard(t *testing.T) {
	s := newTestServer(t)
	id := s.createDraft(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/drafts/"+id+"/items", map[string]string{"quantity": "1", "unit_rate": "5"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id+"/items/3", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id+"/items/x", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id+"/items/0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadIdentifiers(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/drafts/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "validation", env.Kind)
	require.Equal(t, "Invalid draft ID", env.Message)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices/0", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
