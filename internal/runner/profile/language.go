// Package profile defines language descriptors consumed by the runner.
package profile

import (
	"strings"

	"github.com/google/shlex"

	appErr "cprun/pkg/errors"
)

// Strategy kinds. Each language resolves to exactly one launch strategy.
const (
	KindInterpreted    = "interpreted"
	KindClassFile      = "classfile"
	KindManagedProject = "project"
	KindNative         = "native"
)

// LanguageSpec describes one runnable language variant. It is immutable
// input to the runner; the only normalization applied later is the
// Windows python3 alias substitution in the launch resolver.
type LanguageSpec struct {
	// ID is the catalog key clients use ("python", "java", ...).
	ID string
	// Name is the display name.
	Name string
	// Kind selects the launch strategy variant.
	Kind string
	// Compiler is the interpreter or toolchain entry point.
	Compiler string
	// Args are extra arguments appended after the artifact path.
	Args []string
	// SkipCompile marks languages whose artifact exists without a
	// build step; DeleteArtifact is a no-op for them.
	SkipCompile bool
}

// ConfigEntry is the YAML shape of one language catalog entry. Compiler
// and Args are command strings and get shlex-split, the same way run
// command templates are expanded elsewhere in this codebase.
type ConfigEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Compiler    string `yaml:"compiler"`
	Args        string `yaml:"args"`
	SkipCompile bool   `yaml:"skipCompile"`
}

// Build converts a config entry into a LanguageSpec.
func (e ConfigEntry) Build() (LanguageSpec, error) {
	if strings.TrimSpace(e.ID) == "" {
		return LanguageSpec{}, appErr.ValidationError("id", "required")
	}
	kind := e.Kind
	if kind == "" {
		kind = KindInterpreted
	}
	switch kind {
	case KindInterpreted, KindClassFile, KindManagedProject, KindNative:
	default:
		return LanguageSpec{}, appErr.Newf(appErr.LanguageMisconfig, "unknown strategy kind: %s", kind)
	}

	compiler := ""
	var args []string
	if strings.TrimSpace(e.Compiler) != "" {
		fields, err := shlex.Split(e.Compiler)
		if err != nil {
			return LanguageSpec{}, appErr.Wrapf(err, appErr.LanguageMisconfig, "parse compiler command failed")
		}
		if len(fields) > 0 {
			compiler = fields[0]
			args = append(args, fields[1:]...)
		}
	}
	if kind != KindNative && compiler == "" {
		return LanguageSpec{}, appErr.ValidationError("compiler", "required")
	}
	if strings.TrimSpace(e.Args) != "" {
		extra, err := shlex.Split(e.Args)
		if err != nil {
			return LanguageSpec{}, appErr.Wrapf(err, appErr.LanguageMisconfig, "parse extra args failed")
		}
		args = append(args, extra...)
	}

	name := e.Name
	if name == "" {
		name = e.ID
	}
	return LanguageSpec{
		ID:          e.ID,
		Name:        name,
		Kind:        kind,
		Compiler:    compiler,
		Args:        args,
		SkipCompile: e.SkipCompile,
	}, nil
}

// BuildCatalog converts config entries into a catalog keyed by ID.
func BuildCatalog(entries []ConfigEntry) (map[string]LanguageSpec, error) {
	catalog := make(map[string]LanguageSpec, len(entries))
	for _, entry := range entries {
		lang, err := entry.Build()
		if err != nil {
			return nil, err
		}
		if _, dup := catalog[lang.ID]; dup {
			return nil, appErr.Newf(appErr.LanguageMisconfig, "duplicate language id: %s", lang.ID)
		}
		catalog[lang.ID] = lang
	}
	return catalog, nil
}
