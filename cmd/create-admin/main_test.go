package main

import (
	"handmade-store/config"
	"testing"
)

func TestRunValidatesInput(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "memory://"}

	if err := run(cfg, "", "s3cret-pass", "bcrypt"); err == nil {
		t.Fatal("expected error without username")
	}
	if err := run(cfg, "owner", "short", "bcrypt"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := run(cfg, "owner", "s3cret-pass", "md5"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if err := run(cfg, "owner", "s3cret-pass", "argon2"); err != nil {
		t.Fatalf("run: %v", err)
	}
}
