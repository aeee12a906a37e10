package soffice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gazette/internal/services"
)

type stubExecutor struct {
	run func(ctx context.Context, binary string, args []string, onOutput func(string)) error

	binary string
	args   []string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.binary = binary
	s.args = args
	return s.run(ctx, binary, args, onOutput)
}

func TestConvertReturnsOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "article.odt")
	outDir := filepath.Join(dir, "out")

	stub := &stubExecutor{run: func(ctx context.Context, binary string, args []string, onOutput func(string)) error {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outDir, "article.pdf"), []byte("%PDF-1.4"), 0o644)
	}}

	client, err := New("soffice", 30, WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := client.Convert(context.Background(), input, outDir)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := filepath.Join(outDir, "article.pdf")
	if got != want {
		t.Errorf("Convert path = %q, want %q", got, want)
	}

	if stub.binary != "soffice" {
		t.Errorf("binary = %q, want soffice", stub.binary)
	}
	wantArgs := []string{"--headless", "--convert-to", "pdf", "--outdir", outDir, input}
	if len(stub.args) != len(wantArgs) {
		t.Fatalf("args = %v, want %v", stub.args, wantArgs)
	}
	for i, arg := range wantArgs {
		if stub.args[i] != arg {
			t.Errorf("args[%d] = %q, want %q", i, stub.args[i], arg)
		}
	}
}

func TestConvertWrapsCommandFailure(t *testing.T) {
	dir := t.TempDir()
	stub := &stubExecutor{run: func(ctx context.Context, binary string, args []string, onOutput func(string)) error {
		onOutput("Error: source file could not be loaded")
		return errors.New("exit status 1")
	}}

	client, err := New("soffice", 30, WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Convert(context.Background(), filepath.Join(dir, "article.odt"), filepath.Join(dir, "out"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("Convert error = %v, want ErrExternalTool", err)
	}
}

func TestConvertFailsOnMissingOutput(t *testing.T) {
	dir := t.TempDir()
	stub := &stubExecutor{run: func(ctx context.Context, binary string, args []string, onOutput func(string)) error {
		return nil
	}}

	client, err := New("soffice", 30, WithExecutor(stub))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Convert(context.Background(), filepath.Join(dir, "article.odt"), filepath.Join(dir, "out"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("Convert error = %v, want ErrExternalTool", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 30); err == nil {
		t.Fatal("expected error for blank binary")
	}
}
