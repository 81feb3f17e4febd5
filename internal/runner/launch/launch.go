// Package launch resolves how a candidate artifact is started: the
// executable, its argument vector, working directory, and any extra
// environment a strategy requires. Resolution itself never fails;
// launch failures surface later on the spawn path.
package launch

import (
	"path/filepath"
	"runtime"
	"strings"

	"cprun/internal/runner/profile"
)

// Fixed binary name produced by project-style toolchains inside the
// artifact directory.
const projectBinaryName = ".cphcsrun"

// Elevated default stack for project-style managed binaries. The
// candidate does not parse arguments, so the stack bump travels as a
// runtime environment knob (16 MiB).
const projectStackEnv = "DOTNET_DefaultStackSize=0x1000000"

// Options carry environment-dependent resolution inputs.
type Options struct {
	// OnlineJudge injects the -DONLINE_JUDGE define for class-file
	// launches.
	OnlineJudge bool
	// GOOS overrides the platform for resolution; empty means the
	// host platform. Tests use this to pin platform quirks.
	GOOS string
}

// Plan is the resolved launch description for one execution.
type Plan struct {
	Executable string
	Args       []string
	WorkDir    string
	ExtraEnv   []string
}

type strategy interface {
	plan(lang profile.LanguageSpec, artifactPath string, opts Options) Plan
}

type interpreted struct{}
type classFile struct{}
type managedProject struct{}
type native struct{}

// Resolve maps a language descriptor and artifact path to a launch plan.
func Resolve(lang profile.LanguageSpec, artifactPath string, opts Options) Plan {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return strategyFor(lang.Kind).plan(lang, artifactPath, opts)
}

func strategyFor(kind string) strategy {
	switch kind {
	case profile.KindInterpreted:
		return interpreted{}
	case profile.KindClassFile:
		return classFile{}
	case profile.KindManagedProject:
		return managedProject{}
	default:
		return native{}
	}
}

func (interpreted) plan(lang profile.LanguageSpec, artifactPath string, opts Options) Plan {
	compiler := lang.Compiler
	// Windows images commonly ship the generic alias only; the
	// python3 name is a POSIX convention.
	if opts.GOOS == "windows" && compiler == "python3" {
		compiler = "python"
	}
	args := append([]string{artifactPath}, lang.Args...)
	return Plan{
		Executable: compiler,
		Args:       args,
		WorkDir:    filepath.Dir(artifactPath),
	}
}

func (classFile) plan(lang profile.LanguageSpec, artifactPath string, opts Options) Plan {
	dir := filepath.Dir(artifactPath)
	var args []string
	if opts.OnlineJudge {
		args = append(args, "-DONLINE_JUDGE")
	}
	args = append(args, "-cp", dir, derivedClassName(artifactPath))
	return Plan{
		Executable: lang.Compiler,
		Args:       args,
		WorkDir:    dir,
	}
}

// derivedClassName strips the extension and the trailing compiled-unit
// marker character from the artifact's file stem.
func derivedClassName(artifactPath string) string {
	base := filepath.Base(artifactPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) <= 1 {
		return stem
	}
	return stem[:len(stem)-1]
}

func (managedProject) plan(lang profile.LanguageSpec, artifactPath string, opts Options) Plan {
	if strings.Contains(lang.Compiler, "dotnet") {
		// Project-style toolchain: the build placed a fixed-name
		// binary inside the artifact directory.
		return Plan{
			Executable: filepath.Join(artifactPath, projectBinaryName+ExecutableSuffix(opts.GOOS)),
			WorkDir:    artifactPath,
			ExtraEnv:   []string{projectStackEnv},
		}
	}
	// Lightweight-VM launcher invoked against the artifact directly.
	return Plan{
		Executable: lang.Compiler,
		Args:       []string{artifactPath},
		WorkDir:    filepath.Dir(artifactPath),
	}
}

func (native) plan(lang profile.LanguageSpec, artifactPath string, opts Options) Plan {
	return Plan{
		Executable: artifactPath,
		WorkDir:    filepath.Dir(artifactPath),
	}
}

// ExecutableSuffix returns the platform suffix appended to generated
// project-style binaries.
func ExecutableSuffix(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}
