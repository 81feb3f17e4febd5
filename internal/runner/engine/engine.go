// Package engine executes one candidate program against one test input
// under a wall-clock budget and reports a structured outcome.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cprun/internal/runner/launch"
	"cprun/internal/runner/notify"
	"cprun/internal/runner/profile"
	"cprun/internal/runner/registry"
	"cprun/internal/runner/result"
	appErr "cprun/pkg/errors"
	"cprun/pkg/utils/contextkey"
	"cprun/pkg/utils/logger"
)

// Request describes one execution: which language launches which
// artifact against which input, and how I/O is routed.
type Request struct {
	// RunID identifies the execution in the registry and the logs.
	// Assigned when empty.
	RunID        string
	Language     profile.LanguageSpec
	ArtifactPath string
	// Input is the test input text, or an origin-file reference the
	// configured resolver recognizes.
	Input string
	// InputFileName, when non-empty, selects file-mode input: the
	// input is written to this name inside the working directory and
	// the process's input stream stays untouched.
	InputFileName string
	// OutputFileName, when non-empty, selects file-capture output:
	// after exit its contents replace stream-captured stdout.
	OutputFileName string
	// TimeoutMs overrides the engine's default deadline when > 0.
	TimeoutMs int64
}

// Engine orchestrates launches. One Execute call yields exactly one
// RunResult; every failure the engine detects still finalizes a result.
type Engine struct {
	cfg      Config
	registry *registry.Registry
	notifier notify.Notifier
	origins  OriginResolver
}

// NewEngine creates an execution engine. The registry is shared with
// whoever exposes bulk cancellation; notifier must not be nil.
func NewEngine(cfg Config, reg *registry.Registry, notifier notify.Notifier, origins OriginResolver) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("process registry is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	cfg.applyDefaults()
	return &Engine{
		cfg:      cfg,
		registry: reg,
		notifier: notifier,
		origins:  origins,
	}, nil
}

// Execute runs one request to completion. The returned error covers
// request validation only; spawn failures, timeouts and I/O trouble
// all resolve inside the RunResult.
func (e *Engine) Execute(ctx context.Context, req Request) (result.RunResult, error) {
	if err := validateRequest(req); err != nil {
		return result.RunResult{}, err
	}

	plan := launch.Resolve(req.Language, req.ArtifactPath, launch.Options{OnlineJudge: e.cfg.OnlineJudge})
	timeout := durationFromMs(req.TimeoutMs, e.cfg.DefaultTimeoutMs)
	ctx = context.WithValue(ctx, contextkey.RunID, req.RunID)

	// Hard backstop on the spawn itself, slightly past the guard
	// deadline so the guard owns the timed-out verdict.
	spawnCtx, cancel := context.WithTimeout(ctx, timeout+durationFromMs(e.cfg.SpawnGraceMs, defaultSpawnGraceMs))
	defer cancel()

	cmd := exec.CommandContext(spawnCtx, plan.Executable, plan.Args...)
	cmd.Dir = plan.WorkDir
	cmd.Env = e.processEnv(plan.ExtraEnv)
	cmd.SysProcAttr = sysProcAttr()

	stdout := &cappedBuffer{max: e.cfg.StdoutStderrMaxBytes}
	stderr := &cappedBuffer{max: e.cfg.StdoutStderrMaxBytes}
	cmd.Stderr = stderr
	if req.OutputFileName != "" {
		// File-capture mode: the stream is drained but ignored.
		cmd.Stdout = io.Discard
	} else {
		cmd.Stdout = stdout
	}

	if req.InputFileName != "" {
		e.writeInputFile(ctx, plan.WorkDir, req.InputFileName, req.Input)
	} else {
		cmd.Stdin = bytes.NewReader(e.resolveInputBytes(ctx, req.Input))
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return e.spawnFailure(ctx, req.Language, err, start), nil
	}

	entry := e.registry.Add(req.RunID, cmd.Process)
	guard := armGuard(timeout, entry.Kill)

	waitErr := cmd.Wait()
	guard.Disarm()
	e.registry.Remove(entry.ID)

	res := result.RunResult{
		TimeMs:   time.Since(start).Milliseconds(),
		TimedOut: guard.Expired(),
		Stderr:   stderr.String(),
	}
	if !res.TimedOut && spawnCtx.Err() != nil && ctx.Err() == nil {
		// Backstop deadline fired before the guard could.
		res.TimedOut = errors.Is(spawnCtx.Err(), context.DeadlineExceeded)
	}

	if cmd.ProcessState != nil {
		res.ExitCode, res.Signal = termination(cmd.ProcessState)
	} else {
		// Wait failed without a process state; finalize the same way
		// a spawn failure does so the caller still gets one result.
		code := 1
		res.ExitCode = &code
		res.Signal = failureCategory(waitErr)
	}

	if req.OutputFileName != "" {
		res.Stdout = e.readOutputFile(ctx, plan.WorkDir, req.OutputFileName)
	} else {
		res.Stdout = stdout.String()
	}

	logger.Debug(ctx, "execution finished",
		zap.String("language", req.Language.ID),
		zap.Int64("time_ms", res.TimeMs),
		zap.Bool("timed_out", res.TimedOut),
		zap.String("signal", res.Signal),
	)
	return res, nil
}

// KillAll signals every live execution. Best-effort; each execution
// still finalizes through its own exit path.
func (e *Engine) KillAll(ctx context.Context) int {
	n := e.registry.KillAll()
	logger.Info(ctx, "killed all live executions", zap.Int("count", n))
	return n
}

// spawnFailure finalizes a result for a process that never started,
// naming the configured toolchain in exactly one user notification.
func (e *Engine) spawnFailure(ctx context.Context, lang profile.LanguageSpec, err error, start time.Time) result.RunResult {
	e.notifier.Notify(ctx, fmt.Sprintf("could not launch %q: is %q installed?", lang.Name, lang.Compiler))
	logger.Warn(ctx, "spawn failed",
		zap.String("language", lang.ID),
		zap.String("compiler", lang.Compiler),
		zap.Error(err),
	)
	code := 1
	return result.RunResult{
		ExitCode: &code,
		Signal:   failureCategory(err),
		TimeMs:   time.Since(start).Milliseconds(),
	}
}

// processEnv builds the candidate's environment: the host environment
// plus the harness flags and any strategy extras.
func (e *Engine) processEnv(extra []string) []string {
	env := append(os.Environ(), "CPRUN=true", fmt.Sprintf("DEBUG=%t", e.cfg.Debug))
	return append(env, extra...)
}

// failureCategory names the spawn failure's cause for the result's
// signal field.
func failureCategory(err error) string {
	if err == nil {
		return "SPAWN"
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "ENOENT"
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoName(errno); name != "" {
			return name
		}
	}
	return "SPAWN"
}

func validateRequest(req Request) error {
	if req.ArtifactPath == "" {
		return appErr.ValidationError("artifact_path", "required")
	}
	if req.Language.Kind != profile.KindNative && req.Language.Compiler == "" {
		return appErr.ValidationError("compiler", "required")
	}
	if !safeFileName(req.InputFileName) {
		return appErr.New(appErr.UnsafeFileName).WithDetail("field", "input_file_name")
	}
	if !safeFileName(req.OutputFileName) {
		return appErr.New(appErr.UnsafeFileName).WithDetail("field", "output_file_name")
	}
	return nil
}

func durationFromMs(ms, fallback int64) time.Duration {
	if ms <= 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}
