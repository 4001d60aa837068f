package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

// LoginRequest payload for login. Username is an email or mobile number.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest body fallback when the refresh cookie is absent.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse standard response for session-issuing endpoints.
type SessionResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

// ProfileResponse describes the authenticated account.
type ProfileResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Roles       []string `json:"roles"`
	CreatedAt   string   `json:"created_at"`
	LastLoginAt string   `json:"last_login_at,omitempty"`
}
