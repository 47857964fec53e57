package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func TestSweepRemovesOnlyAgedFiles(t *testing.T) {
	dir := t.TempDir()
	aged := filepath.Join(dir, "upload_old.wav")
	fresh := filepath.Join(dir, "upload_new.wav")
	writeAged(t, aged, 10*time.Hour)
	writeAged(t, fresh, time.Minute)

	s := NewScheduler(dir, time.Hour, 6*time.Hour)
	s.sweep()

	if _, err := os.Stat(aged); !os.IsNotExist(err) {
		t.Errorf("aged file survived sweep: %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed by sweep: %v", err)
	}
}

func TestSweepStaysInsideItsDirectory(t *testing.T) {
	// The sweeper owns exactly one directory; files elsewhere, however
	// old, are someone else's.
	root := t.TempDir()
	owned := filepath.Join(root, "stt")
	foreign := filepath.Join(root, "other")
	for _, d := range []string{owned, foreign} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	outside := filepath.Join(foreign, "some-other-process.lock")
	writeAged(t, outside, 10*time.Hour)

	s := NewScheduler(owned, time.Hour, 6*time.Hour)
	s.sweep()

	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside the swept directory was touched: %v", err)
	}
}
