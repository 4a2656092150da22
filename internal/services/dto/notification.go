package dto

import (
	"encoding/json"
	"time"

	"phoneadmin_backend/internal/models"
)

// ---------------- Requests ----------------

// SendNotificationRequest targets either an explicit user list or, when
// Broadcast is set, every active user.
type SendNotificationRequest struct {
	UserIDs   []string               `json:"user_ids" validate:"omitempty,dive,uuid"`
	Broadcast bool                   `json:"broadcast"`
	Type      string                 `json:"type" validate:"required,oneof=info success warning error"`
	Title     string                 `json:"title" validate:"required,max=255"`
	Message   string                 `json:"message" validate:"required,max=2000"`
	Data      map[string]interface{} `json:"data"`
	SendEmail bool                   `json:"send_email"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Unread        int64                   `json:"unread"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

func NotificationToDTO(n *models.Notification) *NotificationResponse {
	resp := &NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
