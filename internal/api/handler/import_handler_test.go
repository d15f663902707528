package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/notehub/notehub-api/internal/core/ports"
)

type stubImportService struct {
	importFn func(ctx context.Context, r io.Reader) (*ports.ImportSummary, error)
}

func (s *stubImportService) ImportUsers(ctx context.Context, r io.Reader) (*ports.ImportSummary, error) {
	return s.importFn(ctx, r)
}

func newUploadContext(t *testing.T, field, filename, content string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/admin/import-users", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestImportHandler_ImportUsers(t *testing.T) {
	csv := "username,email,password,role\nalice,alice@example.com,p4ssw0rd!,MEMBER\n"
	stub := &stubImportService{
		importFn: func(_ context.Context, r io.Reader) (*ports.ImportSummary, error) {
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read upload: %v", err)
			}
			if string(got) != csv {
				t.Fatalf("file content not forwarded: %q", got)
			}
			return &ports.ImportSummary{
				Total:     1,
				Succeeded: 1,
				Results: []ports.ImportRowResult{
					{Username: "alice", Email: "alice@example.com", Success: true},
				},
			}, nil
		},
	}
	h := NewImportHandler(stub)

	c, rec := newUploadContext(t, "file", "users.csv", csv)
	if err := h.ImportUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if msg, _ := resp["message"].(string); !strings.Contains(msg, "1 succeeded") {
		t.Fatalf("unexpected message: %q", msg)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing from envelope: %+v", resp)
	}
	if data["total"] != float64(1) || data["success"] != float64(1) || data["failed"] != float64(0) {
		t.Fatalf("unexpected summary: %+v", data)
	}
	rows, ok := data["results"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one row result, got %+v", data["results"])
	}
}

func TestImportHandler_ImportUsers_MissingFile(t *testing.T) {
	h := NewImportHandler(&stubImportService{})

	c, _ := newTestContext(t, http.MethodPost, "/admin/import-users", "")
	err := h.ImportUsers(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestImportHandler_ImportUsers_RejectsNonCSV(t *testing.T) {
	h := NewImportHandler(&stubImportService{
		importFn: func(_ context.Context, _ io.Reader) (*ports.ImportSummary, error) {
			t.Fatalf("importer must not run for a non-csv upload")
			return nil, nil
		},
	})

	c, _ := newUploadContext(t, "file", "users.txt", "not a csv")
	err := h.ImportUsers(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
