package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradermatch_client/utils"

	"github.com/google/uuid"
)

// ErrNotFound is matched with errors.Is when the backend answers 404.
var ErrNotFound = errors.New("resource not found")

// APIError carries a non-2xx backend answer
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// APIService is the thin JSON-over-HTTP client every endpoint service shares.
type APIService struct {
	BaseURL string
	Client  *http.Client
	Logger  utils.ILogger
}

// NewAPIService builds the shared client. A zero timeout leaves requests
// unbounded, matching the browser fetch behaviour.
func NewAPIService(baseURL string, timeout time.Duration, logger utils.ILogger) *APIService {
	return &APIService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

// PathEscape joins escaped segments under /api.
func PathEscape(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/api/" + strings.Join(escaped, "/")
}

// GetJSON issues a GET and decodes the body into out.
func (as *APIService) GetJSON(ctx context.Context, path string, out interface{}) error {
	return as.do(ctx, http.MethodGet, path, nil, "", out)
}

// PostJSON issues a POST with a JSON body. body and out may be nil.
func (as *APIService) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	return as.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PutJSON issues a PUT with a JSON body.
func (as *APIService) PutJSON(ctx context.Context, path string, body, out interface{}) error {
	return as.sendJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE and decodes an optional answer.
func (as *APIService) Delete(ctx context.Context, path string, out interface{}) error {
	return as.do(ctx, http.MethodDelete, path, nil, "", out)
}

// PostMultipart uploads one file under fileField plus plain form fields.
func (as *APIService) PostMultipart(ctx context.Context, path, fileField, fileName string, file io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return as.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

func (as *APIService) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return as.do(ctx, method, path, reader, contentType, out)
}

func (as *APIService) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, as.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	as.Logger.Debug("API", "🔍 Sending request", map[string]interface{}{
		"method": method, "path": path, "request_id": requestID,
	})

	resp, err := as.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
