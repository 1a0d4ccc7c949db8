// Package converter shells out to a LibreOffice-compatible engine to turn
// PDF files into Word documents.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

// maxStderrDetail caps how much engine output is carried into errors.
const maxStderrDetail = 2048

type Config struct {
	Command   string
	OutputDir string
	Timeout   time.Duration
}

type Engine struct {
	cfg Config

	// The engine shares a single user profile across invocations, so runs
	// must not overlap.
	mu sync.Mutex
}

var _ ports.Converter = (*Engine)(nil)

func New(cfg Config) (*Engine, error) {
	if cfg.Command == "" {
		return nil, errors.New("converter: command is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("converter: output directory is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("converter: timeout must be positive")
	}
	return &Engine{cfg: cfg}, nil
}

// Convert runs the engine on inputPath and returns the path of the
// generated document.
func (e *Engine) Convert(ctx context.Context, inputPath string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.cfg.Command,
		"--headless",
		"--convert-to", "docx",
		"--outdir", e.cfg.OutputDir,
		inputPath,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", domain.ErrConversionTimeout, e.cfg.Timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", domain.ErrConversionFailed, commandDetail(exitErr.ExitCode(), stderr.Bytes()))
		}
		return "", fmt.Errorf("run %s: %w", e.cfg.Command, err)
	}

	output := filepath.Join(e.cfg.OutputDir, outputName(inputPath))
	if _, err := os.Stat(output); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: engine produced no output", domain.ErrConversionFailed)
		}
		return "", fmt.Errorf("stat converted document: %w", err)
	}
	return output, nil
}

func outputName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".docx"
}

func commandDetail(code int, stderr []byte) string {
	detail := strings.TrimSpace(string(stderr))
	if len(detail) > maxStderrDetail {
		detail = detail[:maxStderrDetail] + " (truncated)"
	}
	if detail == "" {
		return fmt.Sprintf("exit status %d", code)
	}
	return fmt.Sprintf("exit status %d: %s", code, detail)
}
