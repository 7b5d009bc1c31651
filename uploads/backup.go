package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const backupStampLayout = "2006-01-02_15-04-05"

// Backup copies the upload directory into a timestamped folder once a day
// and prunes copies older than Retention.
type Backup struct {
	Src       string
	Dest      string
	Retention time.Duration
	Hour      int
	Log       *zap.Logger
}

// Run blocks until ctx is cancelled.
func (b *Backup) Run(ctx context.Context) {
	for {
		next := NextRun(time.Now(), b.Hour)
		b.Log.Info("next uploads backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := b.RunOnce(time.Now()); err != nil {
			b.Log.Error("uploads backup failed", zap.Error(err))
		} else {
			b.Log.Info("uploads backed up", zap.String("dest", dest))
		}
	}
}

// NextRun is the first time at hour:00 strictly after now.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce takes one backup stamped with now and prunes old ones.
func (b *Backup) RunOnce(now time.Time) (string, error) {
	dest := filepath.Join(b.Dest, now.Format(backupStampLayout))
	if err := copyDir(b.Src, dest); err != nil {
		return "", errors.Wrap(err, "uploads: backup")
	}
	b.prune(now)
	return dest, nil
}

func (b *Backup) prune(now time.Time) {
	if b.Retention <= 0 {
		return
	}
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		b.Log.Warn("reading backup directory", zap.Error(err))
		return
	}
	cutoff := now.Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		taken, err := time.ParseInLocation(backupStampLayout, entry.Name(), now.Location())
		if err != nil || !taken.Before(cutoff) {
			continue
		}
		old := filepath.Join(b.Dest, entry.Name())
		if err := os.RemoveAll(old); err != nil {
			b.Log.Warn("removing old backup", zap.String("path", old), zap.Error(err))
			continue
		}
		b.Log.Info("removed old backup", zap.String("path", old))
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(from, to)
		} else {
			err = copyFile(from, to)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
