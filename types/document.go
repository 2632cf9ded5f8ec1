package types

// DocumentMetadata describes an uploaded PDF. The binary itself lives in
// GridFS under FileID; FileSize is measured from the bytes actually written,
// never trusted from the caller.
type DocumentMetadata struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	UserID      string   `json:"user_id" bson:"user_id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string `json:"tags" bson:"tags"`
	Filename    string   `json:"filename" bson:"filename"`
	ContentType string   `json:"content_type" bson:"content_type"`
	FileSize    int64    `json:"file_size" bson:"file_size"`
	UploadDate  int64    `json:"upload_date" bson:"upload_date"`
	PageCount   int      `json:"page_count,omitempty" bson:"page_count,omitempty"`
	FileID      string   `json:"-" bson:"file_id"`
}

// ExtractedText caches the plain-text content of a document. One record per
// (document, owner) pair; re-extraction replaces it.
type ExtractedText struct {
	DocumentID  string `json:"document_id" bson:"document_id"`
	UserID      string `json:"user_id" bson:"user_id"`
	Content     string `json:"content" bson:"content"`
	ExtractedAt int64  `json:"extracted_at" bson:"extracted_at"`
}

// ActiveSelection records the single document an owner has picked as chat
// grounding. The owner id doubles as the record id, one selection per owner.
type ActiveSelection struct {
	UserID     string `json:"user_id" bson:"_id"`
	DocumentID string `json:"document_id" bson:"document_id"`
	Title      string `json:"title" bson:"title"`
	UpdatedAt  int64  `json:"updated_at" bson:"updated_at"`
}
