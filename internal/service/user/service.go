package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KasumiMercury/policy-hub/internal/domain"
)

type Service struct {
	userRepo      domain.UserRepository
	files         domain.FileStorage
	maxPhotoBytes int64
}

func NewService(userRepo domain.UserRepository, files domain.FileStorage, maxPhotoBytes int64) *Service {
	return &Service{
		userRepo:      userRepo,
		files:         files,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// Initialize writes the blank profile created right after registration.
func (s *Service) Initialize(ctx context.Context, uid, email, username string) (*domain.UserProfile, error) {
	if uid == "" {
		return nil, domain.ErrInvalidUserID
	}

	profile := &domain.UserProfile{
		UID:      uid,
		Email:    email,
		Username: username,
	}
	if err := s.userRepo.Initialize(ctx, profile); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user profile initialized",
		slog.String("event", "user.initialize.success"),
		slog.String("uid", uid),
	)
	return profile, nil
}

func (s *Service) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if uid == "" {
		return nil, domain.ErrInvalidUserID
	}
	return s.userRepo.Get(ctx, uid)
}

// Update merges the editable fields of changes into the profile. Other keys,
// including uid and createdAt, are dropped.
func (s *Service) Update(ctx context.Context, uid string, changes map[string]any) error {
	if uid == "" {
		return domain.ErrInvalidUserID
	}

	fields := make(map[string]any, len(changes))
	var ignored []string
	for k, v := range changes {
		if _, ok := domain.EditableUserFields[k]; ok {
			fields[k] = v
		} else {
			ignored = append(ignored, k)
		}
	}

	if len(ignored) > 0 {
		slog.DebugContext(ctx, "ignored non-editable profile fields",
			slog.String("uid", uid),
			slog.String("fields", strings.Join(ignored, ",")),
		)
	}

	return s.userRepo.Update(ctx, uid, fields)
}

// UploadPhoto stores an image and points the profile's photoURL at it.
func (s *Service) UploadPhoto(ctx context.Context, uid string, photo *domain.Upload) (string, error) {
	if uid == "" {
		return "", domain.ErrInvalidUserID
	}
	if photo == nil || photo.Body == nil {
		return "", domain.ErrFileRequired
	}
	if !strings.HasPrefix(photo.ContentType, "image/") {
		return "", domain.ErrUnsupportedFileType
	}
	if s.maxPhotoBytes > 0 && photo.Size > s.maxPhotoBytes {
		return "", domain.ErrFileTooLarge
	}

	stored, err := s.files.Upload(ctx, photo)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	link := stored.Link()
	if err := s.userRepo.Update(ctx, uid, map[string]any{"photoURL": link}); err != nil {
		return "", err
	}

	return link, nil
}
