package libs

import (
	"strings"
	"testing"
	"time"
)

func TestNewMailerRequiresConfig(t *testing.T) {
	if _, err := NewMailer("", 587, "user", "pass", "", "owner@example.com"); err == nil {
		t.Fatal("expected error without host")
	}
	if _, err := NewMailer("smtp.example.com", 587, "user", "pass", "", ""); err == nil {
		t.Fatal("expected error without recipient")
	}

	m, err := NewMailer("smtp.example.com", 587, "user@example.com", "pass", "", "owner@example.com")
	if err != nil {
		t.Fatalf("NewMailer: %v", err)
	}
	if m.from != "user@example.com" {
		t.Fatalf("expected sender to default to user, got %q", m.from)
	}
}

func TestPasswordChangedBody(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	body := passwordChangedBody("owner", at)

	if !strings.Contains(body, "owner") {
		t.Fatalf("body does not name the admin: %q", body)
	}
	if !strings.Contains(body, "2026") {
		t.Fatalf("body does not carry the change time: %q", body)
	}
}
