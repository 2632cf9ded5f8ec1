package types

type User struct {
	ID             string `json:"id" bson:"_id,omitempty"`
	Email          string `json:"email" bson:"email"`
	Password       string `json:"-" bson:"password"`
	FullName       string `json:"full_name" bson:"full_name"`
	ResetToken     string `json:"-" bson:"reset_token,omitempty"`
	ResetExpiresAt int64  `json:"-" bson:"reset_expires_at,omitempty"`
	CreateAt       int64  `json:"created_at" bson:"created_at"`
	UpdateAt       int64  `json:"updated_at" bson:"updated_at"`
}
