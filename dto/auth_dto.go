package dto

// RegisterDTO binds the multipart registration form; avatar/coverImage files
// are pulled off the form separately.
type RegisterDTO struct {
	FullName string `form:"fullName" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,min=3"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginDTO accepts username or email; at least one must be present.
type LoginDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// RefreshDTO is the body fallback when the refresh cookie is absent.
type RefreshDTO struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangeMyPasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
