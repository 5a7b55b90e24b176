package observability

import (
	"strings"
	"sync"
	"testing"
)

func TestTextLoggerLevels(t *testing.T) {
	var sb strings.Builder
	log := NewTextLogger(&sb, LevelWarn)
	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("capacity exceeded", Int("count", 12))
	log.Error("boom", String("file", "badges.pdf"))

	out := sb.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("entries below the minimum level leaked: %q", out)
	}
	if !strings.Contains(out, "WARN capacity exceeded count=12") {
		t.Fatalf("warn line malformed: %q", out)
	}
	if !strings.Contains(out, "ERROR boom file=badges.pdf") {
		t.Fatalf("error line malformed: %q", out)
	}
}

func TestTextLoggerWith(t *testing.T) {
	var sb strings.Builder
	log := NewTextLogger(&sb, LevelDebug).With(String("stage", "layout"))
	log.Info("placed", Int("slots", 3))
	if !strings.Contains(sb.String(), "INFO placed stage=layout slots=3") {
		t.Fatalf("bound fields not emitted: %q", sb.String())
	}
}

func TestTextLoggerWithSharesWriterLock(t *testing.T) {
	var sb strings.Builder
	parent := NewTextLogger(&sb, LevelDebug)
	child := parent.With(String("stage", "solid"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			parent.Info("parent")
		}()
		go func() {
			defer wg.Done()
			child.Info("child")
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		if line != "INFO parent" && line != "INFO child stage=solid" {
			t.Fatalf("interleaved line %q", line)
		}
	}
}

func TestNopLogger(t *testing.T) {
	var log Logger = NopLogger{}
	log = log.With(String("k", "v"))
	log.Warn("ignored")
}
