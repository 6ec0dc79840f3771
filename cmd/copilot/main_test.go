package main

import (
	"strings"
	"testing"
)

func TestSignedToken(t *testing.T) {
	first := signedToken("secret")
	second := signedToken("secret")

	if first == second {
		t.Fatal("tokens must be unique per call")
	}

	parts := strings.Split(first, ".")
	if len(parts) != 2 {
		t.Fatalf("expected material.mac shape, got %q", first)
	}
	if len(parts[0]) != 64 || len(parts[1]) != 64 {
		t.Fatalf("expected 32-byte hex halves, got lengths %d and %d", len(parts[0]), len(parts[1]))
	}
}
