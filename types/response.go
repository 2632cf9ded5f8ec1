package types

type DataResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ParseResponse struct {
	DocumentID  string `json:"document_id"`
	PageCount   int    `json:"page_count"`
	TextLength  int    `json:"text_length"`
	ExtractedAt int64  `json:"extracted_at"`
}

type ChatResponse struct {
	Message       string `json:"message"`
	Response      string `json:"response"`
	DocumentTitle string `json:"document_title"`
}
