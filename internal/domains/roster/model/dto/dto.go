package dto

import "mime/multipart"

type IngestRosterRequest struct {
	File *multipart.FileHeader `validate:"required,extensions=.xlsx .csv"`
}

// Upload is the raw spreadsheet handed to the reconciler.
type Upload struct {
	EventID     string
	FileName    string
	ContentType string
	Content     []byte
}

type IngestRosterResponse struct {
	Message    string `json:"message"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Unchanged  int    `json:"unchanged"`
	Merged     int    `json:"merged"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Total      int    `json:"total"`
	ArchiveURL string `json:"archive_url,omitempty"`
}
