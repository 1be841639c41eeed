package policy

import (
	"testing"

	"notekeeper/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestNotePolicy_CanSee(t *testing.T) {
	p := NewNotePolicy()

	owner := &entity.User{ID: 1, Role: entity.RoleUser}
	stranger := &entity.User{ID: 2, Role: entity.RoleUser}
	admin := &entity.User{ID: 3, Role: entity.RoleAdmin}

	private := &entity.Note{ID: 10, OwnerID: 1, Visibility: entity.VisibilityPrivate}
	public := &entity.Note{ID: 11, OwnerID: 1, Visibility: entity.VisibilityPublic}

	assert.Nil(t, p.CanSee(private, owner))
	assert.Nil(t, p.CanSee(private, admin))
	assert.Nil(t, p.CanSee(public, stranger))

	apierr := p.CanSee(private, stranger)
	assert.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())
}

func TestNotePolicy_CanSee_NilNote(t *testing.T) {
	p := NewNotePolicy()
	admin := &entity.User{ID: 3, Role: entity.RoleAdmin}

	apierr := p.CanSee(nil, admin)
	assert.NotNil(t, apierr)
	assert.Equal(t, 404, apierr.Code())
}

func TestNotePolicy_CanModify(t *testing.T) {
	p := NewNotePolicy()

	owner := &entity.User{ID: 1, Role: entity.RoleUser}
	stranger := &entity.User{ID: 2, Role: entity.RoleUser}
	admin := &entity.User{ID: 3, Role: entity.RoleAdmin}

	// Public visibility grants reads, never writes.
	public := &entity.Note{ID: 11, OwnerID: 1, Visibility: entity.VisibilityPublic}

	assert.Nil(t, p.CanModify(public, owner))
	assert.Nil(t, p.CanModify(public, admin))

	apierr := p.CanModify(public, stranger)
	assert.NotNil(t, apierr)
	assert.Equal(t, 403, apierr.Code())

	assert.Equal(t, 404, p.CanModify(nil, owner).Code())
}
