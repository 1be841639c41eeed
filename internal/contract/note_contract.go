package contract

// MaxAttachmentSizeBytes caps a single upload. The check runs against the
// multipart header before the body is read, so oversized files fail fast
// without partial storage.
const MaxAttachmentSizeBytes = 5 * 1024 * 1024

var ValidAttachmentFileTypes = []string{"pdf", "png", "jpg", "jpeg", "webp", "gif", "txt", "md"}

type NoteResponse struct {
	ID          int                   `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    string                `json:"priority"`
	Tags        []string              `json:"tags"`
	Status      string                `json:"status"`
	Visibility  string                `json:"visibility"`
	OwnerID     int                   `json:"owner_id"`
	Date        string                `json:"date"`
	Attachments []*AttachmentResponse `json:"attachments"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

type AttachmentResponse struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

type CreateNoteRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"required,min=1"`
	Date        *string  `json:"date" validate:"omitempty"` // RFC3339, defaults to now
	Category    string   `json:"category" validate:"omitempty,min=1,max=40"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	Tags        []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,min=1,max=30,nospaces"`
}

// UpdateNoteRequest is a partial update: nil pointers leave the prior value
// untouched. Status is deliberately absent, transitions have their own route.
type UpdateNoteRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Date        *string  `json:"date" validate:"omitempty"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=40"`
	Priority    *string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Visibility  *string  `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	Tags        []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,min=1,max=30,nospaces"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE ARCHIVED"`
}

// SearchNotesRequest mirrors the /api/notes/search query string.
type SearchNotesRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Priority string `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Tag      string `query:"tag"`
	Status   string `query:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
	From     string `query:"from"` // RFC3339, inclusive
	To       string `query:"to"`   // RFC3339, inclusive
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
