package repository

import (
	"errors"
	"strings"

	"notekeeper/internal/domain/entity"

	"gorm.io/gorm"
)

// NoteSearch narrows a note query. Zero values mean "no constraint",
// except OwnerID which is always enforced for non-admin callers by the
// service layer.
type NoteSearch struct {
	OwnerID  int // 0 = all owners
	Query    string
	Category string
	Priority string
	Tag      string
	Status   entity.Status
	DateFrom int64 // inclusive, epoch millis
	DateTo   int64 // inclusive, epoch millis
}

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

// FindByID returns nil for missing AND soft-deleted notes. Deleted rows are
// invisible everywhere, which also makes a repeated delete a clean 404.
func (d *DefaultNoteRepository) FindByID(id int) (*entity.Note, error) {
	var note entity.Note
	err := d.db.
		Preload("Attachments").
		Where("status <> ?", entity.StatusDeleted).
		First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindAll returns non-deleted notes, newest first. ownerID 0 means all owners.
func (d *DefaultNoteRepository) FindAll(ownerID int) ([]*entity.Note, error) {
	q := d.db.
		Preload("Attachments").
		Where("status <> ?", entity.StatusDeleted).
		Order("created_at DESC, id DESC")

	if ownerID > 0 {
		q = q.Where("owner_id = ?", ownerID)
	}

	var notes []*entity.Note
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Search applies the filter conjunction on top of the usual scoping.
// The title match is a case-insensitive substring.
func (d *DefaultNoteRepository) Search(filter NoteSearch) ([]*entity.Note, error) {
	q := d.db.
		Preload("Attachments").
		Where("status <> ?", entity.StatusDeleted).
		Order("created_at DESC, id DESC")

	if filter.OwnerID > 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where("LOWER(title) LIKE ?", pattern)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Tag != "" {
		// Tags are stored lowercased and space-joined; pad both sides so
		// "go" never matches "golang".
		q = q.Where("' ' || tags || ' ' LIKE ?", "% "+strings.ToLower(filter.Tag)+" %")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom > 0 {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo > 0 {
		q = q.Where("date <= ?", filter.DateTo)
	}

	var notes []*entity.Note
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

// SoftDeleteAllByOwner flips every non-deleted note of the owner to DELETED
// and returns how many rows were touched.
func (d *DefaultNoteRepository) SoftDeleteAllByOwner(ownerID int, now int64) (int64, error) {
	result := d.db.Model(&entity.Note{}).
		Where("owner_id = ? AND status <> ?", ownerID, entity.StatusDeleted).
		Updates(map[string]any{"status": entity.StatusDeleted, "updated_at": now})
	return result.RowsAffected, result.Error
}

// FindDeletedBefore returns notes soft-deleted before the cutoff, with
// attachments preloaded so the purger can remove their objects.
func (d *DefaultNoteRepository) FindDeletedBefore(cutoff int64) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.
		Preload("Attachments").
		Where("status = ? AND updated_at < ?", entity.StatusDeleted, cutoff).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// HardDelete physically removes a note row. Attachment rows go first so the
// foreign key never dangles.
func (d *DefaultNoteRepository) HardDelete(note *entity.Note) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&entity.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
}
