package soffice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gazette/internal/services"
)

// Converter defines the behaviour required by the rendering stage.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps LibreOffice headless conversion.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a LibreOffice client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("soffice binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert renders the input document to PDF inside outputDir and returns
// the resulting file path.
func (c *Client) Convert(ctx context.Context, inputPath, outputDir string) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", errors.New("input path required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", errors.New("output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	convertCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		convertCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--headless", "--convert-to", "pdf", "--outdir", outputDir, inputPath}

	var outputLines []string
	err := c.exec.Run(convertCtx, c.binary, args, func(line string) {
		outputLines = append(outputLines, line)
	})
	if err != nil {
		detail := strings.Join(outputLines, "; ")
		if detail != "" {
			return "", services.Wrap(services.ErrExternalTool, "render", "convert_pdf", fmt.Sprintf("soffice failed: %s", detail), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "render", "convert_pdf", "soffice failed", err)
	}

	outputPath := pdfPath(inputPath, outputDir)
	info, err := os.Stat(outputPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "render", "convert_pdf", fmt.Sprintf("expected output %s missing", outputPath), err)
	}
	if info.Size() == 0 {
		return "", services.Wrap(services.ErrExternalTool, "render", "convert_pdf", fmt.Sprintf("output %s is empty", outputPath), nil)
	}
	return outputPath, nil
}

// pdfPath mirrors LibreOffice's naming: input base with the extension
// replaced by .pdf, placed inside the output directory.
func pdfPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+".pdf")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
