package engine

const (
	defaultTimeoutMs            int64 = 10000
	defaultSpawnGraceMs         int64 = 1000
	defaultStdoutStderrMaxBytes int64 = 64 * 1024
)

// OriginResolver detects an origin-file reference embedded in test-case
// text: a marker meaning "read actual content from this other file"
// instead of using the text literally. The matching rule is an external
// heuristic; the engine treats it as an opaque predicate.
type OriginResolver interface {
	Resolve(text string) (path string, ok bool)
}

// Config controls execution engine behavior.
type Config struct {
	// DefaultTimeoutMs is the per-run deadline used when a request
	// does not carry its own.
	DefaultTimeoutMs int64
	// SpawnGraceMs widens the spawn context's hard deadline past the
	// guard deadline; it is a backstop, not a second budget.
	SpawnGraceMs int64
	// StdoutStderrMaxBytes caps captured stream output per stream.
	StdoutStderrMaxBytes int64
	// OnlineJudge marks the host as an online-judge environment for
	// class-file launches.
	OnlineJudge bool
	// Debug is exported to candidates through the DEBUG flag.
	Debug bool
}

func (c *Config) applyDefaults() {
	if c.DefaultTimeoutMs <= 0 {
		c.DefaultTimeoutMs = defaultTimeoutMs
	}
	if c.SpawnGraceMs <= 0 {
		c.SpawnGraceMs = defaultSpawnGraceMs
	}
	if c.StdoutStderrMaxBytes <= 0 {
		c.StdoutStderrMaxBytes = defaultStdoutStderrMaxBytes
	}
}
