package services

import (
	"gorm.io/gorm"

	"phoneadmin_backend/internal/auth"
	"phoneadmin_backend/internal/models"
	"phoneadmin_backend/internal/repositories"
	"phoneadmin_backend/internal/services/dto"
	"phoneadmin_backend/pkg/apperrors"
)

type UserService interface {
	GetUser(db *gorm.DB, id string) (*dto.UserDTO, error)
	ListUsers(db *gorm.DB, filter repositories.UserFilter) (*dto.UserListResponse, error)
	CreateUser(db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserDTO, error)
	UpdateUser(db *gorm.DB, actorID, targetID string, req *dto.UpdateUserRequest) (*dto.UserDTO, error)
	DeleteUser(db *gorm.DB, actorID, targetID string) error
	BulkDeleteUsers(db *gorm.DB, actorID string, userIDs []string) (int64, error)
	GetUserActivity(db *gorm.DB, userID string, page, pageSize int) ([]*dto.ActivityLogDTO, int64, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(db *gorm.DB, id string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.UserToDTO(user), nil
}

func (s *userService) ListUsers(db *gorm.DB, filter repositories.UserFilter) (*dto.UserListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	users, total, err := s.userRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]*dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.UserToDTO(&users[i]))
	}

	return &dto.UserListResponse{
		Users:      out,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages(total, filter.PageSize),
	}, nil
}

func (s *userService) CreateUser(db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserDTO, error) {
	role := models.UserRoleUser
	if req.Role != "" {
		if err := auth.ValidateRole(req.Role); err != nil {
			return nil, apperrors.NewBadRequestError("Unknown role: " + req.Role)
		}
		role = models.UserRole(req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     isActive,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.UserToDTO(user), nil
}

func (s *userService) UpdateUser(db *gorm.DB, actorID, targetID string, req *dto.UpdateUserRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, targetID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Admins cannot demote or deactivate themselves.
	if actorID == targetID {
		if req.Role != nil && *req.Role != string(user.Role) {
			return nil, apperrors.ErrCannotModifySelf
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, apperrors.ErrCannotModifySelf
		}
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		if err := auth.ValidateRole(*req.Role); err != nil {
			return nil, apperrors.NewBadRequestError("Unknown role: " + *req.Role)
		}
		user.Role = models.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(db, user); err != nil {
		if apperrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.UserToDTO(user), nil
}

func (s *userService) DeleteUser(db *gorm.DB, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.ErrCannotModifySelf
	}

	if err := s.userRepo.Delete(db, targetID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewNotFoundError("user", "User not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) BulkDeleteUsers(db *gorm.DB, actorID string, userIDs []string) (int64, error) {
	for _, id := range userIDs {
		if id == actorID {
			return 0, apperrors.ErrCannotModifySelf
		}
	}

	deleted, err := s.userRepo.BulkDelete(db, userIDs)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return deleted, nil
}

func (s *userService) GetUserActivity(db *gorm.DB, userID string, page, pageSize int) ([]*dto.ActivityLogDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	logs, total, err := s.userRepo.FindUserActivity(db, userID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]*dto.ActivityLogDTO, 0, len(logs))
	for i := range logs {
		out = append(out, dto.ActivityLogToDTO(&logs[i]))
	}
	return out, total, nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
