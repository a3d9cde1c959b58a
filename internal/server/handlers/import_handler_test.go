package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ousmanedev/receiptwatch/internal/config"
	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository/memory"
	"github.com/ousmanedev/receiptwatch/internal/server/handlers"
	"github.com/ousmanedev/receiptwatch/internal/server/router"
	"github.com/ousmanedev/receiptwatch/internal/service/alerts"
	"github.com/ousmanedev/receiptwatch/internal/service/ingest"
	"github.com/ousmanedev/receiptwatch/internal/service/receipts"
)

// stubExtractor answers every extraction call successfully.
type stubExtractor struct{}

func (stubExtractor) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	return "total 42.00", nil
}

func (stubExtractor) ExtractOrderDate(_ context.Context, _ string) (string, error) {
	return "2025-10-12", nil
}

func newImportTestRouter(t *testing.T) (*gin.Engine, *receipts.Service) {
	t.Helper()

	clock := func() time.Time { return testNow }
	store := memory.NewRepository()
	receiptSvc := receipts.NewService(store, nil).WithClock(clock)
	alertSvc := alerts.NewService(store, noopNotifier{}, nil).WithClock(clock)
	ingestSvc := ingest.NewService(stubExtractor{}, receiptSvc, nil)

	receiptHandler := handlers.NewReceiptHandler(receiptSvc, alertSvc, nil)
	importHandler := handlers.NewImportHandler(ingestSvc, nil, config.DriveConfig{}, nil)

	return router.New(receiptHandler, importHandler, nil), receiptSvc
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file %s: %v", name, err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestUploadBatch(t *testing.T) {
	engine, receiptSvc := newImportTestRouter(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"ok.jpg": []byte("tiny image bytes"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/receipts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	results := decode[[]models.ImportResult](t, rec)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error != "" || results[0].Receipt == nil {
		t.Fatalf("upload should succeed, got error %q", results[0].Error)
	}
	if results[0].Receipt.OrderDate != "2025-10-12" {
		t.Errorf("orderDate = %q, want 2025-10-12", results[0].Receipt.OrderDate)
	}

	listed, err := receiptSvc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 || listed[0].FileName != "ok.jpg" {
		t.Errorf("expected ok.jpg persisted, got %+v", listed)
	}
}

func TestUploadIsolatesOversizedFile(t *testing.T) {
	engine, receiptSvc := newImportTestRouter(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"ok.jpg":  []byte("tiny image bytes"),
		"big.jpg": bytes.Repeat([]byte("x"), 10*1024*1024+1),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/receipts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	results := decode[[]models.ImportResult](t, rec)
	if len(results) != 2 {
		t.Fatalf("expected one result per file, got %d", len(results))
	}

	byName := map[string]models.ImportResult{}
	for _, r := range results {
		byName[r.FileName] = r
	}

	if r := byName["ok.jpg"]; r.Error != "" || r.Receipt == nil {
		t.Errorf("ok.jpg must still be processed, got error %q", r.Error)
	}
	if r := byName["big.jpg"]; r.Error == "" || r.Receipt != nil {
		t.Errorf("big.jpg should fail with a per-file error, got %+v", r)
	}

	listed, err := receiptSvc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 || listed[0].FileName != "ok.jpg" {
		t.Errorf("expected only ok.jpg persisted, got %d records", len(listed))
	}
}

func TestUploadWithoutFiles(t *testing.T) {
	engine, _ := newImportTestRouter(t)

	body, contentType := multipartUpload(t, map[string][]byte{})

	req := httptest.NewRequest(http.MethodPost, "/api/receipts/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
