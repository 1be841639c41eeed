package jobs

import (
	"errors"
	"testing"
	"time"

	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"

	"github.com/stretchr/testify/assert"
)

type fakeTrashRepo struct {
	expired []*entity.Note
	removed []int
}

func (f *fakeTrashRepo) FindDeletedBefore(cutoff int64) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, n := range f.expired {
		if n.UpdatedAt < cutoff {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeTrashRepo) HardDelete(note *entity.Note) error {
	f.removed = append(f.removed, note.ID)
	return nil
}

type fakePurgerS3 struct {
	deleted []string
	failKey string
}

func (f *fakePurgerS3) UploadFile(data []byte, key string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakePurgerS3) DeleteFile(key string) error {
	if key == f.failKey {
		return errors.New("transient failure")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestTrashPurger_RemovesExpiredWithObjects(t *testing.T) {
	old := utils.NowUTC() - (48 * time.Hour).Milliseconds()
	repo := &fakeTrashRepo{
		expired: []*entity.Note{
			{
				ID:        1,
				Status:    entity.StatusDeleted,
				UpdatedAt: old,
				Attachments: []entity.Attachment{
					{ID: 1, NoteID: 1, StorageKey: "attachments/a.pdf"},
				},
			},
			{
				ID:        2,
				Status:    entity.StatusDeleted,
				UpdatedAt: utils.NowUTC(), // still inside the retention window
			},
		},
	}
	s3 := &fakePurgerS3{}

	purger := NewTrashPurger(repo, s3, 24*time.Hour)
	purger.purge()

	assert.Equal(t, []int{1}, repo.removed)
	assert.Equal(t, []string{"attachments/a.pdf"}, s3.deleted)
}

func TestTrashPurger_KeepsRowWhenObjectDeleteFails(t *testing.T) {
	old := utils.NowUTC() - (48 * time.Hour).Milliseconds()
	repo := &fakeTrashRepo{
		expired: []*entity.Note{
			{
				ID:        1,
				Status:    entity.StatusDeleted,
				UpdatedAt: old,
				Attachments: []entity.Attachment{
					{ID: 1, NoteID: 1, StorageKey: "attachments/stuck.pdf"},
				},
			},
		},
	}
	s3 := &fakePurgerS3{failKey: "attachments/stuck.pdf"}

	purger := NewTrashPurger(repo, s3, 24*time.Hour)
	purger.purge()

	// The row survives so the next tick can retry the object delete.
	assert.Empty(t, repo.removed)
}
