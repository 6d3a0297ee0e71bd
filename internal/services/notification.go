package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/logging"
	"github.com/TrueSergey/websitewishlist/internal/models"
	"github.com/TrueSergey/websitewishlist/internal/store"
)

const (
	unreadCountKeyPrefix      = "notifications:unread:"
	unreadGenerationKeyPrefix = "notifications:unread-gen:"
	defaultUnreadCacheTTL     = 5 * time.Minute
	unreadGenerationTTL       = 24 * time.Hour
	defaultNotificationCap    = 50
	maxNotificationCap        = 100
	systemSenderName          = "System"
)

// Emission describes a notification to append for RecipientID.
type Emission struct {
	RecipientID    uuid.UUID
	SenderID       *uuid.UUID
	Type           models.NotificationType
	Content        string
	RelationshipID *uuid.UUID
	GiftID         *uuid.UUID
}

type NotificationService struct {
	notifications store.Notifications
	cache         RedisClient
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewNotificationService creates the service. cache may be nil, in which
// case unread counts always come from the store.
func NewNotificationService(notifications store.Notifications, cache RedisClient) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		cache:         cache,
		cacheTTL:      defaultUnreadCacheTTL,
		now:           time.Now,
	}
}

func (s *NotificationService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

func (s *NotificationService) Emit(ctx context.Context, e Emission) (*models.Notification, error) {
	if e.RecipientID == uuid.Nil || !e.Type.Valid() {
		return nil, ErrInvalidNotification
	}

	n, err := s.notifications.Insert(ctx, models.NewNotification{
		RecipientID:    e.RecipientID,
		SenderID:       e.SenderID,
		Type:           e.Type,
		Content:        e.Content,
		RelationshipID: e.RelationshipID,
		GiftID:         e.GiftID,
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr("inserting notification", err)
	}

	s.invalidateUnread(ctx, e.RecipientID)
	fillSender(n)
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, caller *models.Caller, params models.NotificationListParams) ([]models.Notification, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	switch {
	case params.Limit <= 0:
		params.Limit = defaultNotificationCap
	case params.Limit > maxNotificationCap:
		params.Limit = maxNotificationCap
	}

	list, err := s.notifications.List(ctx, caller.ID, params)
	if err != nil {
		return nil, storeErr("listing notifications", err)
	}
	for i := range list {
		fillSender(&list[i])
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error {
	if err := s.authorize(ctx, caller, notificationID); err != nil {
		return err
	}

	err := s.notifications.MarkRead(ctx, notificationID, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return storeErr("marking notification read", err)
	}

	s.invalidateUnread(ctx, caller.ID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error) {
	if caller == nil {
		return 0, ErrUnauthenticated
	}

	updated, err := s.notifications.MarkAllRead(ctx, caller.ID)
	if err != nil {
		return 0, storeErr("marking all notifications read", err)
	}

	s.invalidateUnread(ctx, caller.ID)
	return updated, nil
}

func (s *NotificationService) Delete(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error {
	if err := s.authorize(ctx, caller, notificationID); err != nil {
		return err
	}

	err := s.notifications.Delete(ctx, notificationID, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return storeErr("deleting notification", err)
	}

	s.invalidateUnread(ctx, caller.ID)
	return nil
}

// UnreadCount reads through the redis cache. A cached count is only served
// while the user's generation is unchanged, so a write-back racing an
// invalidation is never read. Cache failures fall back to the store count
// and are never returned to the caller.
func (s *NotificationService) UnreadCount(ctx context.Context, caller *models.Caller) (int, error) {
	if caller == nil {
		return 0, ErrUnauthenticated
	}

	gen, cached := s.unreadGeneration(ctx, caller.ID)
	key := unreadCountKey(caller.ID)
	if cached {
		val, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			if count, ok := parseUnreadEntry(val, gen); ok {
				return count, nil
			}
		case !errors.Is(err, ErrCacheMiss):
			s.logCacheFailure("Unread count cache read failed", caller.ID, err)
		}
	}

	count, err := s.notifications.UnreadCount(ctx, caller.ID)
	if err != nil {
		return 0, storeErr("counting unread notifications", err)
	}

	if cached {
		if err := s.cache.Set(ctx, key, formatUnreadEntry(gen, count), s.cacheTTL); err != nil {
			s.logCacheFailure("Unread count cache write failed", caller.ID, err)
		} else if err := s.cache.Expire(ctx, unreadGenerationKey(caller.ID), s.generationTTL()); err != nil {
			s.logCacheFailure("Unread count generation refresh failed", caller.ID, err)
		}
	}
	return count, nil
}

// CleanupOld deletes notifications created more than olderThan ago. Cached
// unread counts are left to expire.
func (s *NotificationService) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	deleted, err := s.notifications.DeleteOlderThan(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, storeErr("cleanup notifications", err)
	}
	return deleted, nil
}

func (s *NotificationService) authorize(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	n, err := s.notifications.Get(ctx, notificationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return storeErr("getting notification", err)
	}
	if n.RecipientID != caller.ID {
		return ErrNotNotificationOwner
	}
	return nil
}

// invalidateUnread bumps the user's generation so every count cached before
// this call stops matching.
func (s *NotificationService) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	genKey := unreadGenerationKey(userID)
	if _, err := s.cache.Incr(ctx, genKey); err != nil {
		s.logCacheFailure("Unread count cache invalidation failed", userID, err)
		// Without a new generation the stale entry has to go.
		_ = s.cache.Del(ctx, unreadCountKey(userID))
		return
	}
	if err := s.cache.Expire(ctx, genKey, s.generationTTL()); err != nil {
		s.logCacheFailure("Unread count generation refresh failed", userID, err)
	}
}

// unreadGeneration returns the current generation and whether the cache is
// usable for this call. A missing generation key is generation 0.
func (s *NotificationService) unreadGeneration(ctx context.Context, userID uuid.UUID) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	val, err := s.cache.Get(ctx, unreadGenerationKey(userID))
	if errors.Is(err, ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		s.logCacheFailure("Unread count generation read failed", userID, err)
		return 0, false
	}
	gen, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// generationTTL keeps generation keys alive well past any count tagged with them.
func (s *NotificationService) generationTTL() time.Duration {
	return max(unreadGenerationTTL, 2*s.cacheTTL)
}

func (s *NotificationService) logCacheFailure(msg string, userID uuid.UUID, err error) {
	logging.Warn(msg, map[string]interface{}{
		"user_id": userID.String(),
		"error":   err.Error(),
	})
}

func unreadCountKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", unreadCountKeyPrefix, userID)
}

func unreadGenerationKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", unreadGenerationKeyPrefix, userID)
}

// Cached counts are stored as "<generation>:<count>".
func formatUnreadEntry(gen int64, count int) string {
	return strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(count)
}

func parseUnreadEntry(val string, gen int64) (int, bool) {
	genPart, countPart, ok := strings.Cut(val, ":")
	if !ok || genPart != strconv.FormatInt(gen, 10) {
		return 0, false
	}
	count, err := strconv.Atoi(countPart)
	if err != nil {
		return 0, false
	}
	return count, true
}

func fillSender(n *models.Notification) {
	if n.SenderUsername == "" {
		n.SenderUsername = systemSenderName
	}
}
