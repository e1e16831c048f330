package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUploadSendsSignedRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("api_key"); got != "key" {
			t.Errorf("unexpected api_key %q", got)
		}
		if got := r.FormValue("folder"); got != "shoe-store" {
			t.Errorf("unexpected folder %q", got)
		}
		if r.FormValue("signature") == "" {
			t.Error("missing signature")
		}
		_ = json.NewEncoder(w).Encode(UploadResult{
			PublicID:  "shoe-store/abc123",
			SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/shoe-store/abc123.png",
		})
	}))
	defer server.Close()

	client := &Client{
		httpClient: server.Client(),
		cloudName:  "demo",
		apiKey:     "key",
		apiSecret:  "secret",
		folder:     "shoe-store",
		endpoint:   server.URL,
		now:        func() time.Time { return time.Unix(1700000000, 0) },
	}

	result, err := client.Upload(context.Background(), []byte("png-bytes"), "shoe.png")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if result.SecureURL == "" {
		t.Fatal("expected secure url")
	}
	if result.PublicID != "shoe-store/abc123" {
		t.Fatalf("unexpected public id %s", result.PublicID)
	}
}

func TestUploadRejectsEmptyData(t *testing.T) {
	t.Parallel()

	client := &Client{httpClient: http.DefaultClient, now: time.Now}
	if _, err := client.Upload(context.Background(), nil, "shoe.png"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestDeleteDerivesPublicID(t *testing.T) {
	t.Parallel()

	var gotPublicID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/destroy" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotPublicID = r.FormValue("public_id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &Client{
		httpClient: server.Client(),
		cloudName:  "demo",
		apiKey:     "key",
		apiSecret:  "secret",
		endpoint:   server.URL,
		now:        func() time.Time { return time.Unix(1700000000, 0) },
	}

	err := client.Delete(context.Background(), "https://res.cloudinary.com/demo/image/upload/v1700000000/shoe-store/abc123.png")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if gotPublicID != "shoe-store/abc123" {
		t.Fatalf("unexpected public id %q", gotPublicID)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v17/shoe-store/abc.png": "shoe-store/abc",
		"https://res.cloudinary.com/demo/image/upload/shoe-store/abc.webp":    "shoe-store/abc",
		"shoe-store/abc": "shoe-store/abc",
		"":               "",
		"https://res.cloudinary.com/demo/other/path.png": "",
	}
	for input, want := range cases {
		if got := PublicIDFromURL(input); got != want {
			t.Fatalf("PublicIDFromURL(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSignIsDeterministic(t *testing.T) {
	t.Parallel()

	client := &Client{apiSecret: "secret"}
	first := client.sign(map[string]string{"timestamp": "100", "folder": "shoe-store"})
	second := client.sign(map[string]string{"folder": "shoe-store", "timestamp": "100"})
	if first != second {
		t.Fatal("signature should not depend on map iteration order")
	}
	if len(first) != 40 {
		t.Fatalf("expected sha1 hex signature, got %q", first)
	}
}
