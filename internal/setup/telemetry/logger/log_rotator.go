package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogRotator is an io.Writer that keeps a log file from growing without
// bound: it tracks the newest maxLines lines and periodically rewrites
// the file down to just those.
type LogRotator struct {
	writer   io.Writer
	ring     *lineRing
	filePath string
	mu       sync.Mutex
}

// NewLogRotator wraps writer with line-count-based rotation of filePath.
func NewLogRotator(writer io.Writer, maxLines int, filePath string) *LogRotator {
	return &LogRotator{
		writer:   writer,
		ring:     newLineRing(maxLines),
		filePath: filePath,
	}
}

// Write passes p through to the underlying file and records its lines.
// Once twice the retained line count has accumulated, the file is
// rewritten from the ring.
func (w *LogRotator) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.writer.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.ring.push(line)

		if w.ring.written == w.ring.capacity*2 {
			if err := w.rotate(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
			w.ring.written = w.ring.size
		}
	}

	return n, nil
}

// rotate rewrites the log file to hold only the retained lines, then
// reopens it for appending.
func (w *LogRotator) rotate() error {
	lines := w.ring.snapshot()
	if len(lines) == 0 {
		return nil
	}

	temp, err := os.CreateTemp(filepath.Dir(w.filePath), "temp-log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	content := strings.Join(lines, "\n") + "\n"
	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	temp.Close()

	if closer, ok := w.writer.(io.Closer); ok {
		closer.Close()
	}

	// Rename cannot replace an open file on Windows.
	os.Remove(w.filePath)

	if err := os.Rename(tempPath, w.filePath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(w.filePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.writer = newFile

	return nil
}
