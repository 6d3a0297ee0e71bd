package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

var avatarContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type ProfileService struct {
	users   store.Users
	storage ObjectStorage
	now     func() time.Time
}

func NewProfileService(users store.Users, storage ObjectStorage) *ProfileService {
	return &ProfileService{users: users, storage: storage, now: time.Now}
}

// GetCaller resolves the acting identity for an authenticated user id.
func (s *ProfileService) GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr("getting user", err)
	}
	return models.CallerFromUser(user), nil
}

// UploadAvatar stores body under avatars/<user>_<unix-ms>.<ext> and points
// the caller's profile at the returned URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, caller *models.Caller, filename string, body io.Reader) (string, error) {
	if caller == nil {
		return "", ErrUnauthenticated
	}
	if body == nil {
		return "", ErrEmptyAvatar
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	contentType, ok := avatarContentTypes[ext]
	if !ok {
		return "", ErrInvalidAvatarType
	}

	key := avatarKey(caller.ID, s.now(), ext)
	url, err := s.storage.Save(ctx, key, body, contentType)
	if err != nil {
		return "", storeErr("uploading avatar", err)
	}

	if err := s.users.UpdateAvatar(ctx, caller.ID, &url); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logging.Warn("Failed to remove orphaned avatar", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", storeErr("updating avatar", err)
	}

	return url, nil
}

func avatarKey(userID uuid.UUID, at time.Time, ext string) string {
	return fmt.Sprintf("avatars/%s_%d.%s", userID, at.UnixMilli(), ext)
}
