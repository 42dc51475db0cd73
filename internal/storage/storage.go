package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("object storage is not configured")

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Remover interface {
	// DeletePrefix removes every object under prefix and returns how many were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

type Store interface {
	Uploader
	Remover
}

// Disabled satisfies Store when GCS_BUCKET is empty.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

func (Disabled) DeletePrefix(context.Context, string) (int, error) { return 0, nil }

func ResumeObject(userID, fileID string) string { return "resumes/" + userID + "/" + fileID + ".pdf" }

func ResumePrefix(userID string) string { return "resumes/" + userID + "/" }

func PhotoPrefix(userID string) string { return "photos/" + userID + "/" }
