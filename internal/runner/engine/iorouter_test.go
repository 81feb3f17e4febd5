package engine

import (
	"context"
	"strings"
	"testing"
)

func TestCappedBufferTruncates(t *testing.T) {
	b := &cappedBuffer{max: 8}

	n, err := b.Write([]byte("12345"))
	if err != nil || n != 5 {
		t.Fatalf("write = %d, %v", n, err)
	}
	// The write past the cap is acknowledged in full so the producer
	// never sees a short-write error.
	n, err = b.Write([]byte("6789abcd"))
	if err != nil || n != 8 {
		t.Fatalf("write = %d, %v", n, err)
	}
	if got := b.String(); got != "12345678" {
		t.Fatalf("buffer = %q, want first 8 bytes", got)
	}

	n, err = b.Write([]byte("more"))
	if err != nil || n != 4 {
		t.Fatalf("write = %d, %v", n, err)
	}
	if got := b.String(); got != "12345678" {
		t.Fatalf("buffer = %q, must stay capped", got)
	}
}

func TestSafeFileName(t *testing.T) {
	valid := []string{"", "in.txt", "output", "a.b.c"}
	for _, name := range valid {
		if !safeFileName(name) {
			t.Errorf("safeFileName(%q) = false, want true", name)
		}
	}
	invalid := []string{"../in.txt", "sub/out.txt", "/abs", ".", ".."}
	for _, name := range invalid {
		if safeFileName(name) {
			t.Errorf("safeFileName(%q) = true, want false", name)
		}
	}
}

func TestMarkerOriginResolver(t *testing.T) {
	r := MarkerOriginResolver{Marker: "@file:"}

	path, ok := r.Resolve("@file: /data/case1.txt")
	if !ok || path != "/data/case1.txt" {
		t.Fatalf("resolve = %q, %v", path, ok)
	}

	if _, ok := r.Resolve("plain input text"); ok {
		t.Fatalf("plain text must not resolve")
	}
	if _, ok := r.Resolve("@file:"); ok {
		t.Fatalf("empty path must not resolve")
	}
	if _, ok := (MarkerOriginResolver{}).Resolve("@file:/x"); ok {
		t.Fatalf("unset marker must never match")
	}
}

func TestResolveInputBytesPassthrough(t *testing.T) {
	eng, _, notifier := newTestEngine(t, Config{}, MarkerOriginResolver{Marker: "@file:"})

	if got := eng.resolveInputBytes(context.Background(), "1 2 3\n"); string(got) != "1 2 3\n" {
		t.Fatalf("input = %q", got)
	}

	// A dangling origin reference notifies and degrades to empty input.
	got := eng.resolveInputBytes(context.Background(), "@file:/no/such/origin")
	if len(got) != 0 {
		t.Fatalf("input = %q, want empty", got)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.count())
	}
	if !strings.Contains(notifier.msgs[0], "/no/such/origin") {
		t.Fatalf("notification %q must name the origin path", notifier.msgs[0])
	}
}
