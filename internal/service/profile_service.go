package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/session"
	"fitpro/manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxAvatarSize caps avatar uploads at 5 MiB.
const MaxAvatarSize = 5 << 20

// ProfileInput holds the editable profile fields. Nil fields are left unchanged.
type ProfileInput struct {
	Name     *string `json:"name"`
	DarkMode *bool   `json:"darkMode"`
}

type ProfileService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID primitive.ObjectID, contentType string, size int64, body io.Reader) (*domain.User, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
	bus         *session.Bus
}

func NewProfileService(userRepo repository.UserRepository, uploadRepo repository.UploadRepository, fileStorage storage.FileStorage, bus *session.Bus) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		uploadRepo:  uploadRepo,
		fileStorage: fileStorage,
		bus:         bus,
	}
}

func (s *profileService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) Update(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalid("name is required")
		}
		user.Name = name
	}
	if in.DarkMode != nil {
		user.DarkMode = *in.DarkMode
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to update profile", "userID", userID.Hex(), "error", err)
		return nil, err
	}
	s.bus.Publish(session.Event{Kind: session.ProfileUpdated, User: user})
	return user, nil
}

// UploadAvatar stores a new avatar image, points the profile at it and
// removes the previous avatar object.
func (s *profileService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, contentType string, size int64, body io.Reader) (*domain.User, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") {
		return nil, invalid("avatar must be an image")
	}
	if size <= 0 {
		return nil, invalid("avatar is empty")
	}
	if size > MaxAvatarSize {
		return nil, invalid("avatar exceeds %d MB", MaxAvatarSize>>20)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous, err := s.uploadRepo.LatestByOwner(ctx, userID, domain.UploadAvatar)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	objectKey := storage.AvatarKey(userID.Hex(), extensionFor(ct))
	url, err := s.fileStorage.PutObject(ctx, objectKey, ct, io.LimitReader(body, MaxAvatarSize), size)
	if err != nil {
		slog.Error("Failed to store avatar", "userID", userID.Hex(), "key", objectKey, "error", err)
		return nil, ErrUploadFailed
	}

	uploadID, err := s.uploadRepo.Create(ctx, &domain.Upload{
		OwnerID:     userID,
		Kind:        domain.UploadAvatar,
		ObjectKey:   objectKey,
		URL:         url,
		ContentType: ct,
		Size:        size,
	})
	if err != nil {
		slog.Error("Failed to record avatar upload", "userID", userID.Hex(), "error", err)
		s.deleteObject(ctx, objectKey)
		return nil, err
	}

	user.AvatarURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to update avatar url", "userID", userID.Hex(), "error", err)
		if err := s.uploadRepo.Delete(ctx, uploadID); err != nil {
			slog.Warn("Failed to remove avatar upload record", "uploadID", uploadID.Hex(), "error", err)
		}
		s.deleteObject(ctx, objectKey)
		return nil, err
	}

	if previous != nil && previous.ObjectKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, previous.ObjectKey); err != nil {
			slog.Warn("Failed to delete previous avatar", "userID", userID.Hex(), "key", previous.ObjectKey, "error", err)
		}
	}

	s.bus.Publish(session.Event{Kind: session.ProfileUpdated, User: user})
	return user, nil
}

// deleteObject removes an avatar object that never became the current one.
func (s *profileService) deleteObject(ctx context.Context, objectKey string) {
	if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
		slog.Warn("Failed to delete orphaned avatar", "key", objectKey, "error", err)
	}
}
