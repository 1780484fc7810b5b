package drawbook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGallery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Timestamp,Image\n"+
			"1/1/2025 10:00:00,https://img.example/a.png\n"+
			"1/2/2025 11:00:00,\"https://img.example/b.png\"\n"+
			"bad row\n"+
			"1/3/2025 12:00:00,not-a-url\n")
	}))
	defer srv.Close()

	c := &Client{SheetURL: srv.URL, HTTP: srv.Client()}
	got, err := c.Gallery(context.Background())
	if err != nil {
		t.Fatalf("Gallery: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 drawings, got %+v", got)
	}
	if got[0].ImageURL != "https://img.example/b.png" || got[1].Timestamp != "1/1/2025 10:00:00" {
		t.Errorf("Expected newest first, got %+v", got)
	}

	if _, err := (&Client{}).Gallery(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	var recorded string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /worker", func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("image")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		if string(b) != "PNGDATA" {
			http.Error(w, "bad image", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": "https://img.example/new.png"})
	})
	mux.HandleFunc("POST /form", func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		recorded = r.FormValue("entry.123")
	})
	mux.HandleFunc("POST /broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &Client{
		WorkerURL:   srv.URL + "/worker",
		FormURL:     srv.URL + "/form",
		FormEntryID: "entry.123",
		HTTP:        srv.Client(),
	}
	got, err := c.Submit(context.Background(), strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got != "https://img.example/new.png" || recorded != got {
		t.Errorf("Expected URL to be uploaded and recorded, got %q / %q", got, recorded)
	}

	c.WorkerURL = srv.URL + "/broken"
	if _, err := c.Submit(context.Background(), strings.NewReader("PNGDATA")); err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("Expected worker status error, got %v", err)
	}

	c.FormEntryID = ""
	if _, err := c.Submit(context.Background(), strings.NewReader("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
