package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler writes a dated JSON backup file on a cron schedule. A failed run
// is logged and the next run still happens; backups never block the farm.
type Scheduler struct {
	svc  *Service
	dir  string
	cron *cron.Cron
}

func NewScheduler(svc *Service, dir string) *Scheduler {
	return &Scheduler{
		svc:  svc,
		dir:  dir,
		cron: cron.New(),
	}
}

func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("scheduling backup: %w", err)
	}

	s.cron.Start()
	slog.Info("backup scheduler started", "schedule", spec, "dir", s.dir)

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	path, err := s.WriteFile()
	if err != nil {
		slog.Error("scheduled backup failed", "error", err)
		return
	}

	slog.Info("scheduled backup written", "path", path)
}

// WriteFile dumps the current snapshot to <dir>/coopledger-backup-<date>.json
// and returns the path.
func (s *Scheduler) WriteFile() (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	name := fmt.Sprintf("coopledger-backup-%s.json", time.Now().Format(time.DateOnly))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating backup file: %w", err)
	}
	defer f.Close()

	if err := s.svc.ExportJSON(f); err != nil {
		return "", err
	}

	return path, nil
}
