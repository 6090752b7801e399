package model

import "time"

// Permission codes embedded in admin JWTs.
type Permission string

const (
	PermissionQuestionsRead  Permission = "questions:read"
	PermissionQuestionsWrite Permission = "questions:write"
	PermissionExamsRead      Permission = "exams:read"
	PermissionExamsWrite     Permission = "exams:write"
	PermissionUsersRead      Permission = "users:read"
	PermissionUsersWrite     Permission = "users:write"
	PermissionStatsRead      Permission = "stats:read"
)

// AllPermissions is granted to admins created via cmd/create-admin.
var AllPermissions = []Permission{
	PermissionQuestionsRead,
	PermissionQuestionsWrite,
	PermissionExamsRead,
	PermissionExamsWrite,
	PermissionUsersRead,
	PermissionUsersWrite,
	PermissionStatsRead,
}

// Admin represents a back-office administrator.
type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest carries back-office credentials.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse pairs the signed token with the admin profile.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
