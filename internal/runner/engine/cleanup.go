package engine

import (
	"context"
	"os"

	"go.uber.org/zap"

	"cprun/internal/runner/profile"
	"cprun/pkg/utils/logger"
)

// DeleteArtifact removes a compiled artifact, recursively when it is a
// directory. Languages without a build step keep their artifact (it is
// the source itself). Best-effort: failures are logged, never returned.
func (e *Engine) DeleteArtifact(ctx context.Context, lang profile.LanguageSpec, artifactPath string) {
	if lang.SkipCompile {
		logger.Debug(ctx, "artifact cleanup skipped",
			zap.String("language", lang.ID),
			zap.String("artifact", artifactPath),
		)
		return
	}
	if err := os.RemoveAll(artifactPath); err != nil {
		logger.Warn(ctx, "artifact cleanup failed",
			zap.String("artifact", artifactPath),
			zap.Error(err),
		)
		return
	}
	logger.Debug(ctx, "artifact removed", zap.String("artifact", artifactPath))
}
