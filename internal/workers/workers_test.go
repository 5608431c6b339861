package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	cpus := runtime.GOMAXPROCS(0)

	if got := Count(1.0, 0); got != cpus {
		t.Errorf("Count(1.0, 0) = %d, want %d", got, cpus)
	}
	if got := Count(2.0, 0); got != cpus*2 {
		t.Errorf("Count(2.0, 0) = %d, want %d", got, cpus*2)
	}
	if got := Count(1.0, 1); got != 1 {
		t.Errorf("Count(1.0, 1) = %d, want capped 1", got)
	}
	if got := Count(0.0, 0); got != 1 {
		t.Errorf("Count(0.0, 0) = %d, want floor 1", got)
	}
}

func TestCountEnvOverride(t *testing.T) {
	t.Setenv("PREVIEW_WORKERS", "7")
	if got := Count(1.0, 0); got != 7 {
		t.Errorf("env override ignored: got %d, want 7", got)
	}
	if got := Count(1.0, 4); got != 4 {
		t.Errorf("limit should cap env override: got %d, want 4", got)
	}

	t.Setenv("PREVIEW_WORKERS", "bogus")
	if got := Count(1.0, 0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("invalid override not ignored: got %d", got)
	}
}
