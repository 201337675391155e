package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchHashesAndSamples(t *testing.T) {
	body := []byte("Hello world")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/test")
		w.Write(body)
	}))
	defer server.Close()

	res := NewClient().Fetch(context.Background(), "GET", server.URL, nil)

	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Status is %d", res.StatusCode)
	}
	if !res.Complete {
		t.Fatal("Response not complete")
	}
	if string(res.Body) != "Hello world" {
		t.Fatalf("Body is %s", res.Body)
	}
	sum := sha256.Sum256(body)
	if res.SHA256 != hex.EncodeToString(sum[:]) {
		t.Fatalf("Hash is %s", res.SHA256)
	}
	if ct := res.Header("content-type"); ct != "text/test" {
		t.Fatalf("Content-Type is %s", ct)
	}
	if res.HasHeader("x-missing") {
		t.Fatal("Found a header that was never sent")
	}
}

func TestFetchCapsSampleButHashesWholeBody(t *testing.T) {
	body := bytes.Repeat([]byte("abcd"), 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	client := NewClient()
	client.SampleLimit = 16
	res := client.Fetch(context.Background(), "GET", server.URL, nil)

	if len(res.Body) != 16 {
		t.Fatalf("Sample is %d bytes", len(res.Body))
	}
	sum := sha256.Sum256(body)
	if res.SHA256 != hex.EncodeToString(sum[:]) {
		t.Fatalf("Hash is %s", res.SHA256)
	}
	if !res.Complete {
		t.Fatal("Response not complete")
	}
}

func TestFetchSendsGivenHeaders(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("If-None-Match")
	}))
	defer server.Close()

	NewClient().Fetch(context.Background(), "GET", server.URL, []Header{
		{Name: "If-None-Match", Value: `"v1"`},
	})

	if got != `"v1"` {
		t.Fatalf("If-None-Match is %q", got)
	}
}

func TestFetchDoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer server.Close()

	res := NewClient().Fetch(context.Background(), "GET", server.URL, nil)

	if res.StatusCode != http.StatusFound {
		t.Fatalf("Status is %d", res.StatusCode)
	}
}

func TestFetchDoesNotDecompress(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte("Hello world"))
	zw.Close()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(gz.Bytes())
	}))
	defer server.Close()

	res := NewClient().Fetch(context.Background(), "GET", server.URL, []Header{
		{Name: "Accept-Encoding", Value: "gzip"},
	})

	if res.Header("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding is %q", res.Header("Content-Encoding"))
	}
	if !bytes.Equal(res.Body, gz.Bytes()) {
		t.Fatalf("Body was transformed: %v", res.Body)
	}
}

func TestFetchReportsTimeoutAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := NewClient().Fetch(ctx, "GET", server.URL, nil)

	if res.Err == nil {
		t.Fatal("Expected an error")
	}
	if res.Complete {
		t.Fatal("Result claims completeness")
	}
}
