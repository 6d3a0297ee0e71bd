package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/TrueSergey/websitewishlist/internal/models"
)

type mockFriendService struct {
	SendRequestFunc          func(ctx context.Context, caller *models.Caller, recipientID uuid.UUID) (*models.Relationship, error)
	RespondToRequestFunc     func(ctx context.Context, caller *models.Caller, requestID uuid.UUID, accept bool) (*models.Relationship, error)
	CancelRequestFunc        func(ctx context.Context, caller *models.Caller, requestID uuid.UUID) error
	RemoveFriendshipFunc     func(ctx context.Context, caller *models.Caller, otherUserID uuid.UUID) error
	ListFriendsFunc          func(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	ListIncomingRequestsFunc func(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	ListOutgoingRequestsFunc func(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error)
	SearchCandidateUsersFunc func(ctx context.Context, caller *models.Caller, query string) ([]models.UserSummary, error)
	IsFriendFunc             func(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, caller *models.Caller, recipientID uuid.UUID) (*models.Relationship, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, caller, recipientID)
	}
	return &models.Relationship{}, nil
}

func (m *mockFriendService) RespondToRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID, accept bool) (*models.Relationship, error) {
	if m.RespondToRequestFunc != nil {
		return m.RespondToRequestFunc(ctx, caller, requestID, accept)
	}
	return nil, nil
}

func (m *mockFriendService) CancelRequest(ctx context.Context, caller *models.Caller, requestID uuid.UUID) error {
	if m.CancelRequestFunc != nil {
		return m.CancelRequestFunc(ctx, caller, requestID)
	}
	return nil
}

func (m *mockFriendService) RemoveFriendship(ctx context.Context, caller *models.Caller, otherUserID uuid.UUID) error {
	if m.RemoveFriendshipFunc != nil {
		return m.RemoveFriendshipFunc(ctx, caller, otherUserID)
	}
	return nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, caller)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockFriendService) ListIncomingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if m.ListIncomingRequestsFunc != nil {
		return m.ListIncomingRequestsFunc(ctx, caller)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockFriendService) ListOutgoingRequests(ctx context.Context, caller *models.Caller) ([]models.RelationshipWithUser, error) {
	if m.ListOutgoingRequestsFunc != nil {
		return m.ListOutgoingRequestsFunc(ctx, caller)
	}
	return []models.RelationshipWithUser{}, nil
}

func (m *mockFriendService) SearchCandidateUsers(ctx context.Context, caller *models.Caller, query string) ([]models.UserSummary, error) {
	if m.SearchCandidateUsersFunc != nil {
		return m.SearchCandidateUsersFunc(ctx, caller, query)
	}
	return nil, nil
}

func (m *mockFriendService) IsFriend(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	if m.IsFriendFunc != nil {
		return m.IsFriendFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

type mockNotificationService struct {
	ListFunc        func(ctx context.Context, caller *models.Caller, params models.NotificationListParams) ([]models.Notification, error)
	MarkReadFunc    func(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error
	MarkAllReadFunc func(ctx context.Context, caller *models.Caller) (int64, error)
	DeleteFunc      func(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error
	UnreadCountFunc func(ctx context.Context, caller *models.Caller) (int, error)
}

func (m *mockNotificationService) List(ctx context.Context, caller *models.Caller, params models.NotificationListParams) ([]models.Notification, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, caller, params)
	}
	return nil, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, caller, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, caller *models.Caller) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, caller)
	}
	return 0, nil
}

func (m *mockNotificationService) Delete(ctx context.Context, caller *models.Caller, notificationID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, caller, notificationID)
	}
	return nil
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, caller *models.Caller) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, caller)
	}
	return 0, nil
}

type mockGiftService struct {
	ListFriendGiftsFunc func(ctx context.Context, caller *models.Caller, friendID uuid.UUID) ([]models.Gift, error)
	BookFunc            func(ctx context.Context, caller *models.Caller, giftID uuid.UUID) (*models.Booking, error)
	UnbookFunc          func(ctx context.Context, caller *models.Caller, giftID uuid.UUID) error
}

func (m *mockGiftService) ListFriendGifts(ctx context.Context, caller *models.Caller, friendID uuid.UUID) ([]models.Gift, error) {
	if m.ListFriendGiftsFunc != nil {
		return m.ListFriendGiftsFunc(ctx, caller, friendID)
	}
	return nil, nil
}

func (m *mockGiftService) Book(ctx context.Context, caller *models.Caller, giftID uuid.UUID) (*models.Booking, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, caller, giftID)
	}
	return &models.Booking{GiftID: giftID, BookedBy: caller.ID}, nil
}

func (m *mockGiftService) Unbook(ctx context.Context, caller *models.Caller, giftID uuid.UUID) error {
	if m.UnbookFunc != nil {
		return m.UnbookFunc(ctx, caller, giftID)
	}
	return nil
}

type mockProfileService struct {
	GetCallerFunc    func(ctx context.Context, userID uuid.UUID) (*models.Caller, error)
	UploadAvatarFunc func(ctx context.Context, caller *models.Caller, filename string, body io.Reader) (string, error)
}

func (m *mockProfileService) GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error) {
	if m.GetCallerFunc != nil {
		return m.GetCallerFunc(ctx, userID)
	}
	return &models.Caller{ID: userID}, nil
}

func (m *mockProfileService) UploadAvatar(ctx context.Context, caller *models.Caller, filename string, body io.Reader) (string, error) {
	if m.UploadAvatarFunc != nil {
		return m.UploadAvatarFunc(ctx, caller, filename, body)
	}
	return "", nil
}

func withCaller(ctx context.Context, caller *models.Caller) context.Context {
	return SetCallerInContext(ctx, caller)
}
