package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"cprun/internal/runner/profile"
	"cprun/internal/runner/registry"
	appErr "cprun/pkg/errors"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

func newTestEngine(t *testing.T, cfg Config, origins OriginResolver) (*Engine, *registry.Registry, *recordingNotifier) {
	t.Helper()
	reg := registry.New()
	notifier := &recordingNotifier{}
	eng, err := NewEngine(cfg, reg, notifier, origins)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng, reg, notifier
}

// writeScript drops an executable shell script into its own temp dir
// and returns its path. The script is the run artifact for a native
// launch, which keeps these tests toolchain-free.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("script artifacts require a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "candidate.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func scriptLang() profile.LanguageSpec {
	return profile.LanguageSpec{ID: "script", Name: "Shell", Kind: profile.KindNative, SkipCompile: true}
}

func TestExecuteStreamInput(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)
	artifact := writeScript(t, "cat")

	res, err := eng.Execute(context.Background(), Request{
		Language:     scriptLang(),
		ArtifactPath: artifact,
		Input:        "3\n4\n",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "3\n4\n" {
		t.Fatalf("stdout = %q, want input echoed byte-for-byte", res.Stdout)
	}
	if !res.Exited() || *res.ExitCode != 0 {
		t.Fatalf("exit code = %v, want 0", res.ExitCode)
	}
	if res.TimedOut || res.Signal != "" {
		t.Fatalf("unexpected termination: %+v", res)
	}
}

func TestExecuteCapturesStderr(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)
	artifact := writeScript(t, `echo out; echo err >&2; exit 3`)

	res, err := eng.Execute(context.Background(), Request{
		Language:     scriptLang(),
		ArtifactPath: artifact,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Fatalf("stderr = %q", res.Stderr)
	}
	if !res.Exited() || *res.ExitCode != 3 {
		t.Fatalf("exit code = %v, want 3", res.ExitCode)
	}
}

func TestExecuteTimeout(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)
	artifact := writeScript(t, "sleep 30")

	start := time.Now()
	res, err := eng.Execute(context.Background(), Request{
		Language:     scriptLang(),
		ArtifactPath: artifact,
		TimeoutMs:    200,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.TimedOut {
		t.Fatalf("expected timed out: %+v", res)
	}
	if !res.Killed() {
		t.Fatalf("expected kill signal, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("run took %v, kill did not land", elapsed)
	}
}

func TestExecuteFileInput(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)
	// The candidate must find in.txt in its working directory; anything
	// on stdin would hang cat without a closed stream, so reading the
	// file proves delivery mode.
	artifact := writeScript(t, "cat in.txt")

	res, err := eng.Execute(context.Background(), Request{
		Language:      scriptLang(),
		ArtifactPath:  artifact,
		Input:         "file input\n",
		InputFileName: "in.txt",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "file input\n" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	written, err := os.ReadFile(filepath.Join(filepath.Dir(artifact), "in.txt"))
	if err != nil || string(written) != "file input\n" {
		t.Fatalf("input file = %q, %v", written, err)
	}
}

func TestExecuteOutputFileCapture(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)
	artifact := writeScript(t, `echo "stream text"; printf 'file text' > out.txt; echo oops >&2`)

	res, err := eng.Execute(context.Background(), Request{
		Language:       scriptLang(),
		ArtifactPath:   artifact,
		OutputFileName: "out.txt",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "file text" {
		t.Fatalf("stdout = %q, want out.txt contents to win over the stream", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Fatalf("stderr = %q, must stay stream-captured", res.Stderr)
	}
}

func TestExecuteMissingOutputFileNotifies(t *testing.T) {
	eng, _, notifier := newTestEngine(t, Config{}, nil)
	artifact := writeScript(t, "true")

	res, err := eng.Execute(context.Background(), Request{
		Language:       scriptLang(),
		ArtifactPath:   artifact,
		OutputFileName: "missing.txt",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "" {
		t.Fatalf("stdout = %q, want empty", res.Stdout)
	}
	if !res.Exited() {
		t.Fatalf("run must still finalize: %+v", res)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.count())
	}
}

func TestExecuteSpawnFailure(t *testing.T) {
	eng, reg, notifier := newTestEngine(t, Config{}, nil)

	res, err := eng.Execute(context.Background(), Request{
		Language: profile.LanguageSpec{
			ID:       "python",
			Name:     "Python 3",
			Kind:     profile.KindInterpreted,
			Compiler: "cprun-no-such-interpreter",
		},
		ArtifactPath: filepath.Join(t.TempDir(), "sol.py"),
	})
	if err != nil {
		t.Fatalf("spawn failure must not surface as error: %v", err)
	}
	if !res.Exited() || *res.ExitCode != 1 {
		t.Fatalf("exit code = %v, want synthetic 1", res.ExitCode)
	}
	if res.Signal == "" {
		t.Fatalf("signal must name the failure category")
	}
	if res.TimedOut {
		t.Fatalf("spawn failure is not a timeout")
	}
	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want exactly 1", notifier.count())
	}
	if !strings.Contains(notifier.msgs[0], "cprun-no-such-interpreter") {
		t.Fatalf("notification %q must quote the configured compiler", notifier.msgs[0])
	}
	if reg.Size() != 0 {
		t.Fatalf("nothing should stay registered after spawn failure")
	}
}

func TestExecuteOriginFileStreamInput(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, MarkerOriginResolver{Marker: "@file:"})
	artifact := writeScript(t, "cat")

	origin := filepath.Join(t.TempDir(), "origin.txt")
	if err := os.WriteFile(origin, []byte("origin bytes\n"), 0644); err != nil {
		t.Fatalf("write origin: %v", err)
	}

	res, err := eng.Execute(context.Background(), Request{
		Language:     scriptLang(),
		ArtifactPath: artifact,
		Input:        "@file:" + origin,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "origin bytes\n" {
		t.Fatalf("stdout = %q, want origin file contents", res.Stdout)
	}
}

func TestExecuteKillAllFinalizesRun(t *testing.T) {
	eng, reg, _ := newTestEngine(t, Config{DefaultTimeoutMs: 60000}, nil)
	artifact := writeScript(t, "sleep 30")

	type outcome struct {
		res resultHolder
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := eng.Execute(context.Background(), Request{
			Language:     scriptLang(),
			ArtifactPath: artifact,
		})
		done <- outcome{resultHolder{res.TimedOut, res.Killed()}, err}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for reg.Size() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("execution never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n := eng.KillAll(context.Background()); n != 1 {
		t.Fatalf("killed = %d, want 1", n)
	}

	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("execute: %v", out.err)
		}
		if out.res.timedOut {
			t.Fatalf("cancellation is not a timeout")
		}
		if !out.res.killed {
			t.Fatalf("expected signal-terminated result")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("killed run did not finalize")
	}
	if reg.Size() != 0 {
		t.Fatalf("registry size = %d after finalize", reg.Size())
	}
}

type resultHolder struct {
	timedOut bool
	killed   bool
}

func TestExecuteRejectsUnsafeFileNames(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{}, nil)

	_, err := eng.Execute(context.Background(), Request{
		Language:      scriptLang(),
		ArtifactPath:  "/work/sol",
		InputFileName: "../in.txt",
	})
	if !appErr.Is(err, appErr.UnsafeFileName) {
		t.Fatalf("err = %v, want UnsafeFileName", err)
	}

	_, err = eng.Execute(context.Background(), Request{
		Language:       scriptLang(),
		ArtifactPath:   "/work/sol",
		OutputFileName: "sub/out.txt",
	})
	if !appErr.Is(err, appErr.UnsafeFileName) {
		t.Fatalf("err = %v, want UnsafeFileName", err)
	}
}

func TestExecuteExportsHarnessEnv(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{Debug: true}, nil)
	artifact := writeScript(t, `printf '%s,%s' "$CPRUN" "$DEBUG"`)

	res, err := eng.Execute(context.Background(), Request{
		Language:     scriptLang(),
		ArtifactPath: artifact,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Stdout != "true,true" {
		t.Fatalf("env flags = %q, want true,true", res.Stdout)
	}
}
