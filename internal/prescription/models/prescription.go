package models

import "time"

// Prescription represents one uploaded document plus submitter metadata.
// UserID is nullable: anonymous submissions are permitted, and deleting a
// user orphans their records rather than cascading. Once set at creation the
// owner never changes.
type Prescription struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	FileMime  string    `json:"file_mime,omitempty"`
	FileSize  int64     `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Owner contact fields, populated only on admin listings via the join
	// with the users table. Nil for orphaned records.
	OwnerName  *string `json:"owner_name,omitempty"`
	OwnerPhone *string `json:"owner_phone,omitempty"`
}

// File is the stored document returned by the download path. Bytes are kept
// out of Prescription so listings never drag blobs through the pool.
type File struct {
	Name  string
	Mime  string
	Bytes []byte
}

// CreateRequest carries the caller-supplied record fields. FullName and
// Phone are mandatory; the file is optional.
type CreateRequest struct {
	FullName string
	Phone    string
	Address  string
	FileName string
	FileMime string
	FileData []byte
}
