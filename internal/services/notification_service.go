package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"phoneadmin_backend/internal/email"
	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

type NotificationService interface {
	ListNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetNotification(db *gorm.DB, userID, notificationID string) (*dto.NotificationResponse, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	DeleteNotification(db *gorm.DB, userID, notificationID string) error
	SendNotification(db *gorm.DB, req *dto.SendNotificationRequest) (int, error)
	NotifyUser(db *gorm.DB, userID string, nType models.NotificationType, title, message string, data map[string]interface{}) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
	}
}

func (s *notificationService) ListNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, dto.NotificationToDTO(&notifications[i]))
	}
	return &dto.NotificationListResponse{
		Notifications: out,
		Total:         total,
		Unread:        unread,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    totalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) GetNotification(db *gorm.DB, userID, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return nil, apperrors.InternalError(err)
	}
	// Users only ever see their own inbox.
	if notification.UserID != userID {
		return nil, apperrors.NewNotFoundError("notification", "Notification not found")
	}
	return dto.NotificationToDTO(notification), nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil || notification.UserID != userID {
		return apperrors.NewNotFoundError("notification", "Notification not found")
	}
	if err := s.notificationRepo.MarkAsRead(db, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return updated, nil
}

func (s *notificationService) DeleteNotification(db *gorm.DB, userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil || notification.UserID != userID {
		return apperrors.NewNotFoundError("notification", "Notification not found")
	}
	if err := s.notificationRepo.Delete(db, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// SendNotification fans a message out to the requested users, or to
// every active user when Broadcast is set. Returns the number created.
func (s *notificationService) SendNotification(db *gorm.DB, req *dto.SendNotificationRequest) (int, error) {
	if !req.Broadcast && len(req.UserIDs) == 0 {
		return 0, apperrors.NewBadRequestError("Either user_ids or broadcast must be set")
	}

	userIDs := req.UserIDs
	var recipients []models.User
	if req.Broadcast {
		active := true
		users, _, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
			IsActive: &active,
			Page:     1,
			PageSize: 10000,
		})
		if err != nil {
			return 0, apperrors.InternalError(err)
		}
		recipients = users
		userIDs = userIDs[:0]
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	}

	var data datatypes.JSON
	if len(req.Data) > 0 {
		if b, err := json.Marshal(req.Data); err == nil {
			data = datatypes.JSON(b)
		}
	}

	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, &models.Notification{
			UserID:  id,
			Type:    models.NotificationType(req.Type),
			Title:   req.Title,
			Message: req.Message,
			Data:    data,
		})
	}

	if err := s.notificationRepo.CreateBulk(db, notifications); err != nil {
		return 0, apperrors.InternalError(err)
	}

	if req.SendEmail && req.Broadcast {
		for _, u := range recipients {
			if err := s.emailProvider.Send(u.Email, req.Title, email.NotificationBody(req.Title, req.Message)); err != nil {
				logger.Warn("broadcast email failed", "user_id", u.ID, "error", err)
			}
		}
	}

	return len(notifications), nil
}

// NotifyUser is the internal hook other services use to drop a message
// into a user's inbox.
func (s *notificationService) NotifyUser(db *gorm.DB, userID string, nType models.NotificationType, title, message string, data map[string]interface{}) error {
	var payload datatypes.JSON
	if len(data) > 0 {
		if b, err := json.Marshal(data); err == nil {
			payload = datatypes.JSON(b)
		}
	}
	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Message: message,
		Data:    payload,
	})
}
