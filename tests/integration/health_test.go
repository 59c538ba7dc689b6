//go:build integration

package integration

import (
	"io"
	"net/http"
	"testing"
)

func TestLivez(t *testing.T) {
	resp := doGet(t, "/livez")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
}

func TestReadyz(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
}

func TestGreeting(t *testing.T) {
	resp := doGet(t, "/")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "Backend Kasir berjalan!" {
		t.Fatalf("unexpected greeting: %q", body)
	}
}
