package logger

import (
	"net/http"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskCookie(t *testing.T) {
	got := MaskCookie("session=abcdef1234; other=xyz")
	want := "session=****1234; other=****xyz"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskIdentity(t *testing.T) {
	if got := MaskIdentity("device-8842"); got != "****8842" {
		t.Fatalf("expected ****8842, got %q", got)
	}
	if got := MaskIdentity("ab"); got != "****ab" {
		t.Fatalf("expected ****ab, got %q", got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer tok_abcdef1234")
	headers.Set("X-Device-Id", "device-8842")
	headers.Set("Accept", "application/json")

	masked := MaskHeaders(headers)
	if masked["Authorization"] != "Bearer ****1234" {
		t.Fatalf("expected masked bearer token, got %q", masked["Authorization"])
	}
	if masked["X-Device-Id"] != "****8842" {
		t.Fatalf("expected masked device id, got %q", masked["X-Device-Id"])
	}
	if masked["Accept"] != "application/json" {
		t.Fatalf("expected accept header untouched, got %q", masked["Accept"])
	}
}
