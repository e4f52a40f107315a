package dto

type CanLoginRequest struct {
	Email string `json:"email"`
}

type CanLoginResponse struct {
	CanLogin bool   `json:"canLogin"`
	Error    string `json:"error,omitempty"`
}

type MagicLinkRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type MagicLinkResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type PasswordLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SessionResponse struct {
	OK   bool                `json:"ok"`
	User SessionUserResponse `json:"user"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
