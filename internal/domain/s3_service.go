package domain

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Vovarama1992/whisper_relay/internal/error_notificator"
	"github.com/Vovarama1992/whisper_relay/internal/ports"
)

type s3Service struct {
	client   ports.S3Client
	notifier error_notificator.Notificator
}

func NewS3Service(client ports.S3Client, notifier error_notificator.Notificator) ports.S3Service {
	return &s3Service{
		client:   client,
		notifier: notifier,
	}
}

func (s *s3Service) UploadAudio(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url, err := s.client.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		_ = s.notifier.Notify(ctx, "s3", err, fmt.Sprintf("audio upload failed, key=%s", key))
		return "", err
	}
	return url, nil
}
