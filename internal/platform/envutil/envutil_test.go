package envutil

import (
	"testing"
	"time"
)

func TestHelpers(t *testing.T) {
	t.Setenv("FS_STR", "  gemini ")
	t.Setenv("FS_INT", "42")
	t.Setenv("FS_BAD_INT", "x")
	t.Setenv("FS_BOOL", "off")
	t.Setenv("FS_DUR", "1500ms")
	t.Setenv("FS_DUR_SECS", "7")
	t.Setenv("FS_FLOAT", "0.25")

	if got := String("FS_STR", "mock"); got != "gemini" {
		t.Fatalf("String = %q", got)
	}
	if got := String("FS_MISSING", "mock"); got != "mock" {
		t.Fatalf("String default = %q", got)
	}
	if got := Int("FS_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := Int("FS_BAD_INT", 1); got != 1 {
		t.Fatalf("Int fallback = %d", got)
	}
	if got := Bool("FS_BOOL", true); got {
		t.Fatalf("Bool = %v", got)
	}
	if got := Bool("FS_MISSING", true); !got {
		t.Fatalf("Bool default = %v", got)
	}
	if got := Duration("FS_DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("Duration = %v", got)
	}
	if got := Duration("FS_DUR_SECS", time.Second); got != 7*time.Second {
		t.Fatalf("Duration secs = %v", got)
	}
	if got := Float("FS_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float = %v", got)
	}
}
