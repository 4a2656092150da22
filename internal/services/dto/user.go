package dto

import (
	"time"

	"phoneadmin_backend/internal/models"
)

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"omitempty,oneof=admin manager user"`
	IsActive  *bool  `json:"is_active"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager user"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type BulkDeleteRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=100,dive,uuid"`
}

type UserListResponse struct {
	Users      []*UserDTO `json:"users"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

type ActivityLogDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ActivityLogToDTO(l *models.ActivityLog) *ActivityLogDTO {
	d := &ActivityLogDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Details:   l.Details,
		IPAddress: l.IPAddress,
		CreatedAt: l.CreatedAt,
	}
	if l.User != nil {
		d.UserEmail = l.User.Email
	}
	return d
}
