package profile

import (
	"testing"

	appErr "cprun/pkg/errors"
)

func TestBuildSplitsCompilerCommand(t *testing.T) {
	entry := ConfigEntry{ID: "python", Compiler: "python3 -u", Args: "-X faulthandler"}
	lang, err := entry.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if lang.Compiler != "python3" {
		t.Fatalf("compiler = %q", lang.Compiler)
	}
	want := []string{"-u", "-X", "faulthandler"}
	if len(lang.Args) != len(want) {
		t.Fatalf("args = %v, want %v", lang.Args, want)
	}
	for i := range want {
		if lang.Args[i] != want[i] {
			t.Fatalf("args = %v, want %v", lang.Args, want)
		}
	}
	if lang.Kind != KindInterpreted {
		t.Fatalf("kind = %q, want default interpreted", lang.Kind)
	}
	if lang.Name != "python" {
		t.Fatalf("name = %q, want id fallback", lang.Name)
	}
}

func TestBuildQuotedArgs(t *testing.T) {
	entry := ConfigEntry{ID: "js", Compiler: `node --title "my runner"`}
	lang, err := entry.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(lang.Args) != 2 || lang.Args[1] != "my runner" {
		t.Fatalf("args = %v", lang.Args)
	}
}

func TestBuildRejectsUnknownKind(t *testing.T) {
	entry := ConfigEntry{ID: "x", Kind: "container", Compiler: "docker"}
	if _, err := entry.Build(); !appErr.Is(err, appErr.LanguageMisconfig) {
		t.Fatalf("err = %v, want LanguageMisconfig", err)
	}
}

func TestBuildRequiresCompilerForNonNative(t *testing.T) {
	entry := ConfigEntry{ID: "python"}
	if _, err := entry.Build(); !appErr.Is(err, appErr.ValidationFailed) {
		t.Fatalf("err = %v, want ValidationFailed", err)
	}

	native := ConfigEntry{ID: "cpp", Kind: KindNative}
	if _, err := native.Build(); err != nil {
		t.Fatalf("native without compiler: %v", err)
	}
}

func TestBuildCatalogRejectsDuplicates(t *testing.T) {
	entries := []ConfigEntry{
		{ID: "python", Compiler: "python3"},
		{ID: "python", Compiler: "python"},
	}
	if _, err := BuildCatalog(entries); !appErr.Is(err, appErr.LanguageMisconfig) {
		t.Fatalf("err = %v, want LanguageMisconfig", err)
	}
}

func TestBuildCatalog(t *testing.T) {
	entries := []ConfigEntry{
		{ID: "python", Compiler: "python3", SkipCompile: true},
		{ID: "cpp", Kind: KindNative},
	}
	catalog, err := BuildCatalog(entries)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog size = %d", len(catalog))
	}
	if !catalog["python"].SkipCompile {
		t.Fatalf("python should skip compile")
	}
}
