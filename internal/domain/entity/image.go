package entity

import "time"

// ImageAsset is the stored metadata for an uploaded site photo. The encoded
// bytes live in file storage under FilePath; CreatedAt is the ordering key
// used when assets are numbered for export.
type ImageAsset struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Source    string    `json:"source"`
	OwnerID   int64     `json:"owner_id"`
	FilePath  string    `json:"file_path"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
