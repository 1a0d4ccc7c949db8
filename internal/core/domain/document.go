package domain

import "time"

// Document is a converted file available for download.
type Document struct {
	ID        string
	FileName  string
	Size      int64
	CreatedAt time.Time
}
