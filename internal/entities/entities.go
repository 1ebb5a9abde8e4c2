// Package entities contains main entities of service.
package entities

import (
	"time"
)

// AccountStatus ...
type AccountStatus string

const (
	// AccountActive ...
	AccountActive AccountStatus = "active"
	// AccountInactive ...
	AccountInactive AccountStatus = "inactive"
)

// FileKind is a kind of uploaded media.
type FileKind string

const (
	// ImageKind ...
	ImageKind FileKind = "image"
	// VideoKind ...
	VideoKind FileKind = "video"
)

// Account ...
// PasswordHash holds an argon2id verifier, never the plain secret.
type Account struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	PasswordHash string        `json:"passwordHash,omitempty"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActiveAt time.Time     `json:"lastActiveAt"`

	UploadsCount   uint32 `json:"uploadsCount"`
	FollowersCount uint32 `json:"followersCount"`
	FollowingCount uint32 `json:"followingCount"`
	TipsSent       int64  `json:"tipsSent"`
	TipsReceived   int64  `json:"tipsReceived"`
}

// Upload is content metadata. The raw payload lives in a separate Asset
// record so listing uploads never loads payloads.
type Upload struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	FileName      string    `json:"fileName"`
	FileKind      FileKind  `json:"fileKind"`
	FileSize      int64     `json:"fileSize"`
	Caption       string    `json:"caption,omitempty"`
	Tags          []string  `json:"tags"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`

	LikesCount    uint32 `json:"likesCount"`
	CommentsCount uint32 `json:"commentsCount"`
	TipsCount     uint32 `json:"tipsCount"`
	ViewsCount    uint32 `json:"viewsCount"`

	AssetID string `json:"assetId"`
}

// Asset is the raw payload of an upload.
type Asset struct {
	ID        string    `json:"id"`
	UploadID  string    `json:"uploadId"`
	FileKind  FileKind  `json:"fileKind"`
	FileSize  int64     `json:"fileSize"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment ...
type Comment struct {
	ID            string    `json:"id"`
	UploadID      string    `json:"uploadId"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Like ...
// At most one like exists per (UploadID, OwnerID) pair.
type Like struct {
	ID            string    `json:"id"`
	UploadID      string    `json:"uploadId"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Tip ...
type Tip struct {
	ID         string    `json:"id"`
	UploadID   string    `json:"uploadId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Amount     int64     `json:"amount"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Follow ...
// At most one follow exists per (FollowerID, FolloweeID) pair.
type Follow struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"followerId"`
	FolloweeID string    `json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Session ...
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is a full dump of every collection, suitable for backup.
type Snapshot struct {
	Accounts   []*Account `json:"accounts"`
	Uploads    []*Upload  `json:"uploads"`
	Assets     []*Asset   `json:"assets"`
	Comments   []*Comment `json:"comments"`
	Likes      []*Like    `json:"likes"`
	Tips       []*Tip     `json:"tips"`
	Follows    []*Follow  `json:"follows"`
	ExportedAt time.Time  `json:"exportedAt"`
}
