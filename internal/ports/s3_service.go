package ports

import (
	"context"
	"io"
)

type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type S3Service interface {
	// UploadAudio stores synthesized audio and returns its public URL.
	UploadAudio(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
