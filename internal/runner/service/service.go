// Package service composes the execution engine with the language
// catalog and the external judging adapter.
package service

import (
	"context"

	"go.uber.org/zap"

	"cprun/internal/runner/engine"
	"cprun/internal/runner/profile"
	"cprun/internal/runner/result"
	appErr "cprun/pkg/errors"
	"cprun/pkg/utils/logger"
)

// Engine is the execution surface the service depends on.
type Engine interface {
	Execute(ctx context.Context, req engine.Request) (result.RunResult, error)
	KillAll(ctx context.Context) int
	DeleteArtifact(ctx context.Context, lang profile.LanguageSpec, artifactPath string)
}

// TestCase carries what the judging adapter needs besides the result.
type TestCase struct {
	ID       string
	Input    string
	Expected string
}

// Judge decides pass/fail between actual and expected output. The
// comparison rule lives outside this service.
type Judge interface {
	IsCorrect(ctx context.Context, tc TestCase, res result.RunResult) (bool, error)
}

// RunRequest is one execution request at the service boundary.
type RunRequest struct {
	RunID          string  `json:"run_id"`
	LanguageID     string  `json:"language_id" binding:"required"`
	ArtifactPath   string  `json:"artifact_path" binding:"required"`
	Input          string  `json:"input"`
	InputFileName  string  `json:"input_file_name"`
	OutputFileName string  `json:"output_file_name"`
	TimeoutMs      int64   `json:"timeout_ms"`
	TestID         string  `json:"test_id"`
	Expected       *string `json:"expected"`
}

// RunResponse is the finalized outcome handed back to the caller.
type RunResponse struct {
	RunID  string           `json:"run_id"`
	TestID string           `json:"test_id,omitempty"`
	Result result.RunResult `json:"result"`
	// Passed is present only when a judge is configured and the
	// request carried expected output.
	Passed *bool `json:"passed,omitempty"`
}

// Config wires the service.
type Config struct {
	Engine    Engine
	Judge     Judge // optional
	Languages map[string]profile.LanguageSpec
	// MaxConcurrent bounds in-flight executions; <= 0 serializes.
	MaxConcurrent int
}

// Service is the application layer over the engine.
type Service struct {
	eng   Engine
	judge Judge
	langs map[string]profile.LanguageSpec
	slots chan struct{}
}

// NewService validates and builds the service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Engine == nil {
		return nil, appErr.New(appErr.InternalServerError).WithMessage("engine is required")
	}
	if len(cfg.Languages) == 0 {
		return nil, appErr.New(appErr.LanguageMisconfig).WithMessage("language catalog is empty")
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Service{
		eng:   cfg.Engine,
		judge: cfg.Judge,
		langs: cfg.Languages,
		slots: make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// Run executes one request and returns exactly one response.
func (s *Service) Run(ctx context.Context, req RunRequest) (RunResponse, error) {
	lang, ok := s.langs[req.LanguageID]
	if !ok {
		return RunResponse{}, appErr.Newf(appErr.LanguageNotFound, "unknown language: %s", req.LanguageID)
	}

	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return RunResponse{}, appErr.Wrap(ctx.Err(), appErr.ExecInterrupt)
	}
	defer func() { <-s.slots }()

	runRes, err := s.eng.Execute(ctx, engine.Request{
		RunID:          req.RunID,
		Language:       lang,
		ArtifactPath:   req.ArtifactPath,
		Input:          req.Input,
		InputFileName:  req.InputFileName,
		OutputFileName: req.OutputFileName,
		TimeoutMs:      req.TimeoutMs,
	})
	if err != nil {
		return RunResponse{}, err
	}

	resp := RunResponse{
		RunID:  req.RunID,
		TestID: req.TestID,
		Result: runRes,
	}
	if s.judge != nil && req.Expected != nil {
		tc := TestCase{ID: req.TestID, Input: req.Input, Expected: *req.Expected}
		passed, judgeErr := s.judge.IsCorrect(ctx, tc, runRes)
		if judgeErr != nil {
			// The run itself finalized; a judging failure is logged,
			// not fatal.
			logger.Warn(ctx, "judging failed",
				zap.String("test_id", req.TestID),
				zap.Error(judgeErr),
			)
		} else {
			resp.Passed = &passed
		}
	}
	return resp, nil
}

// KillAll bulk-cancels every live execution.
func (s *Service) KillAll(ctx context.Context) int {
	return s.eng.KillAll(ctx)
}

// DeleteArtifact removes a compiled artifact for the given language.
func (s *Service) DeleteArtifact(ctx context.Context, languageID, artifactPath string) error {
	lang, ok := s.langs[languageID]
	if !ok {
		return appErr.Newf(appErr.LanguageNotFound, "unknown language: %s", languageID)
	}
	s.eng.DeleteArtifact(ctx, lang, artifactPath)
	return nil
}

// Languages lists the configured catalog.
func (s *Service) Languages() []profile.LanguageSpec {
	out := make([]profile.LanguageSpec, 0, len(s.langs))
	for _, lang := range s.langs {
		out = append(out, lang)
	}
	return out
}
