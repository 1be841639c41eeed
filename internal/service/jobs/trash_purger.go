package jobs

import (
	"context"
	"time"

	"notekeeper/internal/domain/entity"
	"notekeeper/internal/infrastructure/aws/storage"
	"notekeeper/internal/utils"

	"github.com/labstack/gommon/log"
)

type TrashRepository interface {
	FindDeletedBefore(cutoff int64) ([]*entity.Note, error)
	HardDelete(note *entity.Note) error
}

// TrashPurger permanently removes notes that have sat in DELETED past the
// retention window, together with their attachment rows and objects. This
// is the only place a note row is ever physically removed.
type TrashPurger struct {
	NoteRepo  TrashRepository
	S3        storage.S3Client
	Retention time.Duration
	Interval  time.Duration
}

func NewTrashPurger(noteRepo TrashRepository, s3 storage.S3Client, retention time.Duration) *TrashPurger {
	return &TrashPurger{
		NoteRepo:  noteRepo,
		S3:        s3,
		Retention: retention,
		Interval:  1 * time.Hour,
	}
}

func (p *TrashPurger) Start(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	log.Info("Trash purger cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping trash purger...")
			return
		case <-ticker.C:
			p.purge()
		}
	}
}

func (p *TrashPurger) purge() {
	cutoff := utils.NowUTC() - p.Retention.Milliseconds()
	notes, err := p.NoteRepo.FindDeletedBefore(cutoff)
	if err != nil {
		log.Errorf("Purger: failed to fetch expired notes: %v", err)
		return
	}

	if len(notes) == 0 {
		return
	}

	log.Infof("Purger: found %d expired notes. Removing...", len(notes))

	for _, note := range notes {
		// Objects go first; DeleteFile is idempotent, so a retry after a
		// partial failure converges.
		failed := false
		for _, att := range note.Attachments {
			if err := p.S3.DeleteFile(att.StorageKey); err != nil {
				log.Errorf("Purger: failed to delete object %s: %v", att.StorageKey, err)
				failed = true
			}
		}
		if failed {
			continue // try again next tick
		}

		if err := p.NoteRepo.HardDelete(note); err != nil {
			log.Errorf("Purger: failed to remove note %d: %v", note.ID, err)
		}
	}
}
