package storage

import (
	"context"
	"io"
	"path"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores archive objects and resolves their public URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}

// BracketArchiveKey is the object key of a bracket set's JSON archive.
func BracketArchiveKey(setID string) string {
	return path.Join("brackets", setID+".json")
}
