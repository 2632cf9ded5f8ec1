package types

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type NewPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UploadDocumentRequest carries the caller-supplied document metadata from the
// multipart form. Size is deliberately absent; it is measured server-side.
type UploadDocumentRequest struct {
	Title       string
	Description string
	Tags        []string
	Filename    string
	ContentType string
}

type DocumentIDRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}
