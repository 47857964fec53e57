// Package cleanup periodically removes aged files from the temp
// directory. Every request path cleans up after itself; this catches
// what crashes and kills leave behind.
package cleanup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	tempDir  string
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

func NewScheduler(tempDir string, interval, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		tempDir:  tempDir,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Info().
		Dur("interval", s.interval).
		Dur("max_age", s.maxAge).
		Str("dir", s.tempDir).
		Msg("Cleanup scheduler started")
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) sweep() {
	now := time.Now()
	var deleted int

	err := filepath.Walk(s.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now.Sub(info.ModTime()) > s.maxAge {
			if err := os.Remove(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to delete old temp file")
			} else {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Temp cleanup walk failed")
	}

	if deleted > 0 {
		log.Info().Int("deleted", deleted).Msg("Temp cleanup completed")
	}
}
