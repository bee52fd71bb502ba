package dto

// SignupRequest payload for new accounts.
type SignupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmEmailURL string `json:"confirm_email_url"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// ConfirmEmailRequest payload for the confirmation handshake.
type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

// ProfileUpdateRequest payload for profile changes. A non-empty email
// starts a new confirmation handshake rather than updating in place.
type ProfileUpdateRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	ConfirmEmailURL string `json:"confirm_email_url"`
}

// ProfileResponse is the authenticated user's public view.
type ProfileResponse struct {
	UUID     string  `json:"uuid"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

// PasswordChangeRequest payload for authenticated password change.
type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// PasswordResetRequest payload for the forgotten-password flow.
type PasswordResetRequest struct {
	Email           string `json:"email"`
	ConfirmEmailURL string `json:"confirm_email_url"`
}

// PasswordResetConfirmRequest payload for completing a reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
