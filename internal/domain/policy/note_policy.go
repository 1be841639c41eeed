package policy

import (
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils/apierror"
)

// NotePolicy encapsulates all business rules for note access.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// CanSee checks read access: admins and owners always, anyone else only
// when the note is public.
func (p *NotePolicy) CanSee(note *entity.Note, actor *entity.User) apierror.ErrorResponse {
	if note == nil {
		return apierror.NotFoundError
	}

	if actor.Role.IsAdmin() || note.OwnerID == actor.ID {
		return nil
	}

	if note.Visibility != entity.VisibilityPublic {
		return apierror.NewForbiddenError("Access denied")
	}
	return nil
}

// CanModify checks write access (update, status transition, delete, upload):
// owners and admins only. Visibility grants reads, never writes.
func (p *NotePolicy) CanModify(note *entity.Note, actor *entity.User) apierror.ErrorResponse {
	if note == nil {
		return apierror.NotFoundError
	}

	if actor.Role.IsAdmin() || note.OwnerID == actor.ID {
		return nil
	}
	return apierror.NewForbiddenError("Access denied")
}
