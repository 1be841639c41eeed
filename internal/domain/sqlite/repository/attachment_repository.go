package repository

import (
	"notekeeper/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *DefaultAttachmentRepository {
	return &DefaultAttachmentRepository{db: db}
}

func (a *DefaultAttachmentRepository) Save(attachment *entity.Attachment) error {
	return a.db.Save(attachment).Error
}

func (a *DefaultAttachmentRepository) FindByNoteID(noteID int) ([]*entity.Attachment, error) {
	var attachments []*entity.Attachment
	err := a.db.Where("note_id = ?", noteID).Order("id ASC").Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
