package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// cappedBuffer accumulates stream chunks in arrival order up to a byte
// limit. Writes past the cap are acknowledged but dropped, so the
// candidate never blocks on a full pipe.
type cappedBuffer struct {
	max int64
	buf bytes.Buffer
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remain := b.max - int64(b.buf.Len())
	if remain > 0 {
		if int64(len(p)) > remain {
			b.buf.Write(p[:remain])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

// resolveInputBytes turns the request's input text into the bytes fed
// to the candidate, following an origin-file reference when the
// resolver detects one. A failed origin read notifies and yields empty
// input rather than aborting the run.
func (e *Engine) resolveInputBytes(ctx context.Context, input string) []byte {
	if e.origins != nil {
		if path, ok := e.origins.Resolve(input); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				e.notifier.Notify(ctx, fmt.Sprintf("could not read input origin file %q: %v", path, err))
				return nil
			}
			return data
		}
	}
	return []byte(input)
}

// writeInputFile materializes the input inside the working directory
// before the process starts. File-mode delivery never touches the
// process's input stream.
func (e *Engine) writeInputFile(ctx context.Context, workDir, name, input string) {
	data := e.resolveInputBytes(ctx, input)
	target := filepath.Join(workDir, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		e.notifier.Notify(ctx, fmt.Sprintf("could not write input file %q: %v", target, err))
	}
}

// readOutputFile reads the designated output file after exit. A failed
// read notifies and reports empty output.
func (e *Engine) readOutputFile(ctx context.Context, workDir, name string) string {
	target := filepath.Join(workDir, name)
	file, err := os.Open(target)
	if err != nil {
		e.notifier.Notify(ctx, fmt.Sprintf("could not read output file %q: %v", target, err))
		return ""
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, e.cfg.StdoutStderrMaxBytes))
	if err != nil {
		e.notifier.Notify(ctx, fmt.Sprintf("could not read output file %q: %v", target, err))
		return ""
	}
	return string(data)
}

// safeFileName rejects names that could escape the working directory.
func safeFileName(name string) bool {
	if name == "" {
		return true
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		return false
	}
	return name == filepath.Base(name) && name != "." && name != ".."
}

// MarkerOriginResolver treats input beginning with a marker prefix as a
// reference to another file: everything after the marker, trimmed, is
// the file path.
type MarkerOriginResolver struct {
	Marker string
}

func (r MarkerOriginResolver) Resolve(text string) (string, bool) {
	if r.Marker == "" {
		return "", false
	}
	if !strings.HasPrefix(text, r.Marker) {
		return "", false
	}
	path := strings.TrimSpace(strings.TrimPrefix(text, r.Marker))
	return path, path != ""
}
