package entity

// Attachment is file metadata for a file uploaded to a note. The bytes
// themselves live in the object store under StorageKey; removing the owning
// note removes the object as well (see the trash purger job).
type Attachment struct {
	ID         int    `gorm:"primaryKey"`
	NoteID     int    `gorm:"not null;index"` // References: notes(id)
	Filename   string `gorm:"not null"`       // original client filename
	StorageKey string `gorm:"not null"`       // uuid-named object key
	MimeType   string `gorm:"not null"`
	SizeBytes  int64  `gorm:"not null"`
	CreatedAt  int64  `gorm:"not null"`
}
