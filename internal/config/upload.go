package config

import (
	"os"
	"strconv"
)

const (
	maxDocumentBytesEnv = "MAX_DOCUMENT_BYTES"
	maxPhotoBytesEnv    = "MAX_PHOTO_BYTES"

	defaultMaxDocumentBytes int64 = 20 << 20
	defaultMaxPhotoBytes    int64 = 5 << 20
)

type UploadConfig struct {
	MaxDocumentBytes int64
	MaxPhotoBytes    int64
}

func LoadUploadConfig() (*UploadConfig, error) {
	doc, err := parseByteLimit(maxDocumentBytesEnv, defaultMaxDocumentBytes)
	if err != nil {
		return nil, err
	}
	photo, err := parseByteLimit(maxPhotoBytesEnv, defaultMaxPhotoBytes)
	if err != nil {
		return nil, err
	}
	return &UploadConfig{
		MaxDocumentBytes: doc,
		MaxPhotoBytes:    photo,
	}, nil
}

func parseByteLimit(env string, fallback int64) (int64, error) {
	raw := os.Getenv(env)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, &InvalidValueError{Env: env, Value: raw}
	}
	return v, nil
}
