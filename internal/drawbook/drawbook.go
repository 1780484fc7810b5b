// Package drawbook talks to the external services behind the drawbook page:
// an upload worker that stores a drawing and returns its URL, a form that
// records the URL, and a published sheet listing every recorded drawing.
package drawbook

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
)

var ErrNotConfigured = errors.New("drawbook endpoint not configured")

type Drawing struct {
	Timestamp string `json:"timestamp"`
	ImageURL  string `json:"imageUrl"`
}

type Client struct {
	WorkerURL   string
	FormURL     string
	FormEntryID string
	SheetURL    string
	HTTP        *http.Client // Defaults to http.DefaultClient.
}

func (c *Client) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// Gallery reads the sheet export, a CSV of timestamp and image URL with a
// header row, and returns the drawings newest first. Rows without an http(s)
// image URL are skipped.
func (c *Client) Gallery(ctx context.Context) ([]Drawing, error) {
	if c.SheetURL == "" {
		return nil, fmt.Errorf("sheet: %w", ErrNotConfigured)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SheetURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch sheet: %s", resp.Status)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}

	var out []Drawing
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		u := strings.Trim(strings.TrimSpace(row[1]), `"`)
		if !strings.HasPrefix(u, "http") {
			continue
		}
		out = append(out, Drawing{Timestamp: strings.TrimSpace(row[0]), ImageURL: u})
	}
	slices.Reverse(out)
	return out, nil
}

// Submit uploads a PNG to the worker and records the returned URL in the
// form. The form is write-only from here: its response is not inspected.
func (c *Client) Submit(ctx context.Context, png io.Reader) (string, error) {
	if c.WorkerURL == "" {
		return "", fmt.Errorf("worker: %w", ErrNotConfigured)
	}
	if c.FormURL == "" || c.FormEntryID == "" {
		return "", fmt.Errorf("form: %w", ErrNotConfigured)
	}

	imageURL, err := c.upload(ctx, png)
	if err != nil {
		return "", err
	}

	body, contentType, err := formBody(func(w *multipart.Writer) error {
		return w.WriteField(c.FormEntryID, imageURL)
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.FormURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("record drawing: %w", err)
	}
	resp.Body.Close()
	return imageURL, nil
}

func (c *Client) upload(ctx context.Context, png io.Reader) (string, error) {
	body, contentType, err := formBody(func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("image", "drawing.png")
		if err != nil {
			return err
		}
		_, err = io.Copy(part, png)
		return err
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WorkerURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("upload drawing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("upload drawing: %s", resp.Status)
	}

	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.ImageURL == "" {
		return "", errors.New("upload response has no image URL")
	}
	return out.ImageURL, nil
}

func formBody(fill func(*multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return nil, "", fmt.Errorf("build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("build form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
