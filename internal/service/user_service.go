package service

import (
	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/rbac"
	"go-fabric-ledger/internal/repository"
	"go-fabric-ledger/pkg/validator"

	"github.com/google/uuid"
)

// UserInput is the admin-facing user form.
type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=INWARD_CLERK QUALITY_CHECKER APPROVER SUPERADMIN"`
}

type UserService interface {
	ListUsers(actor Actor) ([]model.UserResponse, error)
	CreateUser(input UserInput, actor Actor) (*model.UserResponse, error)
	SetUserActive(id uuid.UUID, active bool, actor Actor) error
	DeleteUser(id uuid.UUID, actor Actor) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(actor Actor) ([]model.UserResponse, error) {
	if !rbac.Has(actor.Role, rbac.CapUserManage) {
		return nil, forbidden("role %s may not manage users", actor.Role)
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, storeErr("users", err)
	}
	out := make([]model.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, nil
}

func (s *userService) CreateUser(input UserInput, actor Actor) (*model.UserResponse, error) {
	if !rbac.Has(actor.Role, rbac.CapUserManage) {
		return nil, forbidden("role %s may not manage users", actor.Role)
	}
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		first := errs[0]
		return nil, validation(first.FailedField, "failed on %q", first.Tag)
	}

	user := &model.User{
		Email:    input.Email,
		FullName: input.FullName,
		Role:     input.Role,
		IsActive: true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, storeErr("user", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, storeErr("user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) SetUserActive(id uuid.UUID, active bool, actor Actor) error {
	if !rbac.Has(actor.Role, rbac.CapUserManage) {
		return forbidden("role %s may not manage users", actor.Role)
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return storeErr("user", err)
	}
	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return storeErr("user", err)
	}
	return nil
}

func (s *userService) DeleteUser(id uuid.UUID, actor Actor) error {
	if !rbac.Has(actor.Role, rbac.CapUserManage) {
		return forbidden("role %s may not manage users", actor.Role)
	}
	if _, err := s.userRepo.FindByID(id); err != nil {
		return storeErr("user", err)
	}
	if err := s.userRepo.Delete(id); err != nil {
		return storeErr("user", err)
	}
	return nil
}
