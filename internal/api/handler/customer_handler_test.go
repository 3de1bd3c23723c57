package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

type stubDistService struct {
	uploadFn       func(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error)
	distributionFn func(ctx context.Context) ([]ports.DistributionEntry, error)
}

func (s *stubDistService) Upload(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, input)
}

func (s *stubDistService) Distribution(ctx context.Context) ([]ports.DistributionEntry, error) {
	return s.distributionFn(ctx)
}

func multipartUpload(t *testing.T, field, filename, content string) (*http.Request, *httptest.ResponseRecorder) {
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
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/customers/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestCustomerHandler_Upload_Success(t *testing.T) {
	e := echo.New()
	stub := &stubDistService{
		uploadFn: func(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
			if input.Filename != "leads.csv" {
				t.Fatalf("unexpected filename: %s", input.Filename)
			}
			if len(input.Data) == 0 {
				t.Fatalf("expected file data")
			}
			return &ports.UploadResult{
				Uploaded: 2,
				Distribution: []ports.DistributionEntry{
					{AgentID: "ag1", AgentName: "Alice", Email: "alice@example.com", CustomersCount: 2,
						Customers: []domain.Customer{{ID: "c1"}, {ID: "c2"}}},
				},
			}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req, rec := multipartUpload(t, "file", "leads.csv", "FirstName,Phone\nAda,+5550001\nBob,+5550002\n")
	c := e.NewContext(req, rec)

	if err := handler.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success true")
	}
	if resp["message"] != "successfully uploaded and distributed 2 customers" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	dist, ok := resp["distribution"].([]any)
	if !ok || len(dist) != 1 {
		t.Fatalf("unexpected distribution: %+v", resp["distribution"])
	}
	entry := dist[0].(map[string]any)
	if entry["agentName"] != "Alice" || entry["customersCount"] != float64(2) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if _, hasID := entry["agentId"]; hasID {
		t.Fatalf("upload response should not include agentId")
	}
}

func TestCustomerHandler_Upload_NoFile(t *testing.T) {
	e := echo.New()
	stub := &stubDistService{
		uploadFn: func(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req, rec := multipartUpload(t, "wrong_field", "leads.csv", "data")
	c := e.NewContext(req, rec)

	err := handler.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestCustomerHandler_Upload_ServiceError(t *testing.T) {
	e := echo.New()
	stub := &stubDistService{
		uploadFn: func(ctx context.Context, input ports.UploadInput) (*ports.UploadResult, error) {
			return nil, domain.ErrNoActiveAgents
		},
	}
	handler := NewCustomerHandler(stub)

	req, rec := multipartUpload(t, "file", "leads.csv", "FirstName,Phone\nAda,+5550001\n")
	c := e.NewContext(req, rec)

	if err := handler.Upload(c); !errors.Is(err, domain.ErrNoActiveAgents) {
		t.Fatalf("expected ErrNoActiveAgents, got %v", err)
	}
}

func TestCustomerHandler_Distribution(t *testing.T) {
	e := echo.New()
	stub := &stubDistService{
		distributionFn: func(ctx context.Context) ([]ports.DistributionEntry, error) {
			return []ports.DistributionEntry{
				{AgentID: "ag1", AgentName: "Alice", Email: "alice@example.com", Mobile: "+1", CustomersCount: 1,
					Customers: []domain.Customer{{ID: "c1", FirstName: "Ada"}}},
			}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/customers/distribution", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Distribution(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	dist, ok := resp["distribution"].([]any)
	if !ok || len(dist) != 1 {
		t.Fatalf("unexpected distribution: %+v", resp["distribution"])
	}
	entry := dist[0].(map[string]any)
	if entry["agentId"] != "ag1" || entry["mobile"] != "+1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
