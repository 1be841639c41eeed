package service

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"notekeeper/internal/contract"
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/domain/policy"
	"notekeeper/internal/domain/sqlite/repository"
	"notekeeper/internal/infrastructure/aws/storage"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(id int) (*entity.Note, error)
	FindAll(ownerID int) ([]*entity.Note, error)
	Search(filter repository.NoteSearch) ([]*entity.Note, error)
	Save(note *entity.Note) error
	SoftDeleteAllByOwner(ownerID int, now int64) (int64, error)
}

type AttachmentRepository interface {
	Save(attachment *entity.Attachment) error
}

type DefaultNoteService struct {
	NoteRepo       NoteRepository
	AttachmentRepo AttachmentRepository
	Policy         *policy.NotePolicy
	S3             storage.S3Client
	Validate       *validator.Validate
}

func NewNoteService(
	noteRepo NoteRepository,
	attachmentRepo AttachmentRepository,
	notePolicy *policy.NotePolicy,
	s3 storage.S3Client,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:       noteRepo,
		AttachmentRepo: attachmentRepo,
		Policy:         notePolicy,
		S3:             s3,
		Validate:       validate,
	}
}

// GetNotes lists non-deleted notes, newest first. Admins see every owner's
// notes, everyone else only their own.
func (n *DefaultNoteService) GetNotes(actor *entity.User) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	ownerScope := actor.ID
	if actor.Role.IsAdmin() {
		ownerScope = 0
	}

	notes, err := n.NoteRepo.FindAll(ownerScope)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

func (n *DefaultNoteService) GetNoteByID(actor *entity.User, noteId int) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanSee(note, actor); apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	date := now
	if req.Date != nil && *req.Date != "" {
		parsed, derr := utils.ParseEpoch(*req.Date)
		if derr != nil {
			return nil, apierror.InvalidDateError
		}
		date = parsed
	}

	category := req.Category
	if category == "" {
		category = "personal"
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	visibility := entity.VisibilityPrivate
	if req.Visibility != "" {
		visibility = entity.Visibility(req.Visibility)
	}

	note := &entity.Note{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     actor.ID,
		Category:    category,
		Priority:    priority,
		Tags:        joinTags(req.Tags),
		Status:      entity.StatusActive,
		Visibility:  visibility,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

// UpdateNote applies a partial update. Fields left out of the request keep
// their prior values; status never changes here.
func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteId int, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, err := n.NoteRepo.FindByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanModify(note, actor); apierr != nil {
		return nil, apierr
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Description != nil {
		note.Description = *req.Description
	}
	if req.Date != nil {
		parsed, derr := utils.ParseEpoch(*req.Date)
		if derr != nil {
			return nil, apierror.InvalidDateError
		}
		note.Date = parsed
	}
	if req.Category != nil {
		note.Category = *req.Category
	}
	if req.Priority != nil {
		note.Priority = *req.Priority
	}
	if req.Visibility != nil {
		note.Visibility = entity.Visibility(*req.Visibility)
	}
	if req.Tags != nil {
		note.Tags = joinTags(req.Tags)
	}

	note.UpdatedAt = utils.NowUTC()
	if err = n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

// UpdateNoteStatus flips the lifecycle state. Only ACTIVE <-> ARCHIVED is
// reachable here; deletion has its own operations.
func (n *DefaultNoteService) UpdateNoteStatus(actor *entity.User, noteId int, req *contract.UpdateStatusRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, err := n.NoteRepo.FindByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanModify(note, actor); apierr != nil {
		return nil, apierr
	}

	target := entity.Status(req.Status)
	if note.Status == target {
		// No-op transition, return the note unchanged.
		return toNoteResponse(note), nil
	}

	if !note.Status.CanTransitionTo(target) {
		return nil, apierror.NewInvalidTransitionError(string(note.Status), string(target))
	}

	note.Status = target
	note.UpdatedAt = utils.NowUTC()
	if err = n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note status: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

// DeleteNote soft-deletes: the row stays, flagged DELETED and excluded from
// every subsequent lookup. Deleting an already-deleted note is a 404 since
// FindByID no longer sees it.
func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteId int) apierror.ErrorResponse {
	note, err := n.NoteRepo.FindByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return apierror.InternalServerError
	}

	if apierr := n.Policy.CanModify(note, actor); apierr != nil {
		return apierr
	}

	note.Status = entity.StatusDeleted
	note.UpdatedAt = utils.NowUTC()
	if err = n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to delete note: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

// DeleteAllNotes soft-deletes every note owned by the caller. The route is
// admin-gated, but the scope is deliberately the caller's own notes; there
// is no cross-tenant wipe.
func (n *DefaultNoteService) DeleteAllNotes(actor *entity.User) (*contract.BulkDeleteResponse, apierror.ErrorResponse) {
	deleted, err := n.NoteRepo.SoftDeleteAllByOwner(actor.ID, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to bulk delete notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return &contract.BulkDeleteResponse{Deleted: deleted}, nil
}

// SearchNotes matches the query against titles (case-insensitive substring)
// and narrows by the optional filters. Non-admin callers are always pinned
// to their own notes regardless of the filters supplied.
func (n *DefaultNoteService) SearchNotes(actor *entity.User, req *contract.SearchNotesRequest) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	filter := repository.NoteSearch{
		Query:    req.Query,
		Category: req.Category,
		Priority: req.Priority,
		Tag:      req.Tag,
		Status:   entity.Status(req.Status),
	}
	if !actor.Role.IsAdmin() {
		filter.OwnerID = actor.ID
	}

	if req.From != "" {
		from, derr := utils.ParseEpoch(req.From)
		if derr != nil {
			return nil, apierror.InvalidDateRangeError
		}
		filter.DateFrom = from
	}
	if req.To != "" {
		to, derr := utils.ParseEpoch(req.To)
		if derr != nil {
			return nil, apierror.InvalidDateRangeError
		}
		filter.DateTo = to
	}
	if filter.DateFrom > 0 && filter.DateTo > 0 && filter.DateFrom > filter.DateTo {
		return nil, apierror.InvalidDateRangeError
	}

	notes, err := n.NoteRepo.Search(filter)
	if err != nil {
		log.Errorf("failed to search notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponses(notes), nil
}

// UploadAttachment stores the file in the object store under a fresh uuid
// key and records its metadata against the note.
func (n *DefaultNoteService) UploadAttachment(actor *entity.User, noteId int, fileHeader *multipart.FileHeader) (*contract.AttachmentResponse, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteId)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if apierr := n.Policy.CanModify(note, actor); apierr != nil {
		return nil, apierr
	}

	if apierr := checkAttachmentFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	data, apierr := readAttachmentFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	key := storage.PathAttachments + uuid.NewString() + filepath.Ext(fileHeader.Filename)
	mimeType, err := n.S3.UploadFile(data, key)
	if err != nil {
		log.Errorf("failed to upload attachment: %v", err)
		return nil, apierror.InternalServerError
	}

	attachment := &entity.Attachment{
		NoteID:     note.ID,
		Filename:   fileHeader.Filename,
		StorageKey: key,
		MimeType:   mimeType,
		SizeBytes:  int64(len(data)),
		CreatedAt:  utils.NowUTC(),
	}

	if err := n.AttachmentRepo.Save(attachment); err != nil {
		log.Errorf("failed to save attachment: %v", err)
		// Keep storage and DB in sync, the orphan object is removed best-effort.
		if delErr := n.S3.DeleteFile(key); delErr != nil {
			log.Warnf("failed to remove orphan object %s: %v", key, delErr)
		}
		return nil, apierror.InternalServerError
	}
	return toAttachmentResponse(attachment), nil
}

// checkAttachmentFile rejects oversized or unnamed files before the body is
// read, so nothing is partially stored.
func checkAttachmentFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader.Size > contract.MaxAttachmentSizeBytes {
		return apierror.NewFileTooLargeError(contract.MaxAttachmentSizeBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidAttachmentFileTypes); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

func readAttachmentFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return data, nil
}

func joinTags(tags []string) string {
	return strings.ToLower(strings.Join(tags, " "))
}

func toTagsArray(tags string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	return strings.Split(tags, " ")
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	attachments := make([]*contract.AttachmentResponse, len(note.Attachments))
	for i := range note.Attachments {
		attachments[i] = toAttachmentResponse(&note.Attachments[i])
	}

	return &contract.NoteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Description: note.Description,
		Category:    note.Category,
		Priority:    note.Priority,
		Tags:        toTagsArray(note.Tags),
		Status:      string(note.Status),
		Visibility:  string(note.Visibility),
		OwnerID:     note.OwnerID,
		Date:        utils.FormatEpoch(note.Date),
		Attachments: attachments,
		CreatedAt:   utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(note.UpdatedAt),
	}
}

func toNoteResponses(notes []*entity.Note) []*contract.NoteResponse {
	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp
}

func toAttachmentResponse(a *entity.Attachment) *contract.AttachmentResponse {
	return &contract.AttachmentResponse{
		ID:        a.ID,
		Filename:  a.Filename,
		MimeType:  a.MimeType,
		SizeBytes: a.SizeBytes,
		CreatedAt: utils.FormatEpoch(a.CreatedAt),
	}
}
