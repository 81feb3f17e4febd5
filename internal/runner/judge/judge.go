// Package judge implements output comparison for finished runs.
package judge

import (
	"context"
	"strings"

	"cprun/internal/runner/result"
	"cprun/internal/runner/service"
)

// LineComparator compares actual and expected output line by line,
// ignoring trailing whitespace on each line and trailing blank lines.
// A run that did not exit cleanly never passes.
type LineComparator struct{}

func (LineComparator) IsCorrect(_ context.Context, tc service.TestCase, res result.RunResult) (bool, error) {
	if !res.Exited() || *res.ExitCode != 0 || res.TimedOut {
		return false, nil
	}
	return normalize(res.Stdout) == normalize(tc.Expected), nil
}

func normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	return strings.TrimRight(out, "\n")
}
