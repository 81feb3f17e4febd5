package judge

import (
	"context"
	"testing"

	"cprun/internal/runner/result"
	"cprun/internal/runner/service"
)

func okResult(stdout string) result.RunResult {
	code := 0
	return result.RunResult{Stdout: stdout, ExitCode: &code}
}

func TestLineComparator(t *testing.T) {
	j := LineComparator{}
	cases := []struct {
		name     string
		stdout   string
		expected string
		want     bool
	}{
		{"exact", "7\n", "7\n", true},
		{"trailing spaces ignored", "7  \n", "7\n", true},
		{"trailing newlines ignored", "7\n\n\n", "7", true},
		{"crlf normalized", "1\r\n2\r\n", "1\n2\n", true},
		{"wrong answer", "8\n", "7\n", false},
		{"interior whitespace matters", "1  2\n", "1 2\n", false},
		{"missing line", "1\n", "1\n2\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := j.IsCorrect(context.Background(), service.TestCase{Expected: tc.expected}, okResult(tc.stdout))
			if err != nil {
				t.Fatalf("judge: %v", err)
			}
			if got != tc.want {
				t.Fatalf("verdict = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLineComparatorRejectsAbnormalTermination(t *testing.T) {
	j := LineComparator{}
	tc := service.TestCase{Expected: "7\n"}

	nonZero := 1
	bad := result.RunResult{Stdout: "7\n", ExitCode: &nonZero}
	if got, _ := j.IsCorrect(context.Background(), tc, bad); got {
		t.Fatalf("non-zero exit must not pass")
	}

	killed := result.RunResult{Stdout: "7\n", Signal: "SIGKILL", TimedOut: true}
	if got, _ := j.IsCorrect(context.Background(), tc, killed); got {
		t.Fatalf("killed run must not pass")
	}
}
