package server

import (
	"encoding/json"

	"github.com/nocturna-net/selene/internal/entities"
)

const maxLimit = 100
const defaultLimit = 20

// CreateAccountRequest ...
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest ...
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse ...
type LoginResponse struct {
	Account *entities.Account `json:"account"`
	Session *entities.Session `json:"session"`
}

// CreateUploadRequest ...
// Data carries the raw payload base64-encoded.
type CreateUploadRequest struct {
	OwnerID  string   `json:"ownerId"`
	FileName string   `json:"fileName"`
	FileKind string   `json:"fileKind"`
	Caption  string   `json:"caption"`
	Tags     []string `json:"tags"`
	Data     []byte   `json:"data"`
}

// ListFeedResponse ...
type ListFeedResponse struct {
	Uploads []*entities.Upload `json:"uploads"`
}

// PostCommentRequest ...
type PostCommentRequest struct {
	AccountID string `json:"accountId"`
	Text      string `json:"text"`
}

// ListCommentsResponse ...
type ListCommentsResponse struct {
	Comments []*entities.Comment `json:"comments"`
}

// ToggleLikeRequest ...
type ToggleLikeRequest struct {
	AccountID string `json:"accountId"`
}

// SendTipRequest ...
type SendTipRequest struct {
	SenderID string `json:"senderId"`
	Amount   int64  `json:"amount"`
	Message  string `json:"message"`
}

// ToggleFollowRequest ...
type ToggleFollowRequest struct {
	FollowerID string `json:"followerId"`
}

// ToggleFollowResponse ...
type ToggleFollowResponse struct {
	Following bool `json:"following"`
}

// RegisterViewResponse ...
type RegisterViewResponse struct {
	Views uint32 `json:"views"`
}

// ImportRequest ...
type ImportRequest struct {
	Records []json.RawMessage `json:"records"`
}

func newProfileResponse(a *entities.Account) *entities.Account {
	// The verifier never leaves the process.
	out := *a
	out.PasswordHash = ""
	return &out
}
