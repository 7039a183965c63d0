package domain

import (
	"fmt"
	"io"
)

// Upload is a file received from a client, streamed to file storage.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredFile struct {
	ID             string
	Name           string
	WebViewLink    string
	WebContentLink string
}

// Link returns the best shareable URL for the file.
func (f *StoredFile) Link() string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	if f.WebContentLink != "" {
		return f.WebContentLink
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.ID)
}
