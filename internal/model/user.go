package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Role codes. The role is a plain code on the user; what a role may do is
// derived from the static tables in internal/rbac, never stored.
const (
	RoleInwardClerk    = "INWARD_CLERK"
	RoleQualityChecker = "QUALITY_CHECKER"
	RoleApprover       = "APPROVER"
	RoleSuperadmin     = "SUPERADMIN"
)

// User is an authenticated actor in the workflow.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	Role         string `gorm:"type:varchar(30);not null;index" json:"role" validate:"required,oneof=INWARD_CLERK QUALITY_CHECKER APPROVER SUPERADMIN"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"` // Single-session enforcement
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// UserResponse is the API shape without sensitive fields.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
