package services_test

import (
	"errors"
	"strings"
	"testing"

	"gazette/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection reset")
	err := services.Wrap(services.ErrTransient, "delivering", "send document", "telegram", base)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
	for _, fragment := range []string{"delivering", "send document", "telegram"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", services.Wrap(services.ErrTransient, "delivering", "send", "", nil), true},
		{"permanent", services.Wrap(services.ErrPermanent, "delivering", "send", "", nil), false},
		{"both markers", services.Wrap(services.ErrPermanent, "x", "y", "", services.ErrTransient), false},
		{"unrelated", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := services.IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsItemFailure(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "processing", "resolve", "no content root", nil)
	if !services.IsItemFailure(err) {
		t.Fatalf("expected item failure classification, got %v", err)
	}
	if services.IsItemFailure(services.ErrExternalTool) {
		t.Fatal("external tool failures must abort the run, not drop an item")
	}
}
