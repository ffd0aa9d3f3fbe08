package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrOCRUnavailable is returned when image recognition is requested but
// no OCR endpoint is configured.
var ErrOCRUnavailable = errors.New("ocr service not configured")

// Recognizer turns image bytes into raw text. It is a black box: the
// implementation never inspects or post-processes the text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, fileName string) (string, error)
}

// HTTPClient calls a remote OCR endpoint that accepts a multipart image
// upload plus a language hint and answers {"text": "..."}.
type HTTPClient struct {
	BaseURL   string
	Languages string
	HTTP      *http.Client
}

// NewHTTPClient constructs an HTTPClient with the ron+eng hint the
// Romanian recommendation scans need.
func NewHTTPClient(baseURL, languages string) *HTTPClient {
	if languages == "" {
		languages = "ron+eng"
	}
	return &HTTPClient{
		BaseURL:   baseURL,
		Languages: languages,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Recognize(ctx context.Context, image []byte, fileName string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if err := writer.WriteField("languages", c.Languages); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/recognize", body)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr request: status %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return payload.Text, nil
}

var _ Recognizer = (*HTTPClient)(nil)
