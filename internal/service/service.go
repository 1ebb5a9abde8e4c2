// Package service contains the business logic of selene.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/storage"
)

//go:generate mockgen -destination=./mock/service.go -package=mock -source=service.go

// ErrNotFound ...
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when a username, email or record id is
// already taken.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrInvalidCredentials is returned on a failed login attempt. It does
// not reveal whether the identifier or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidAmount is returned when a tip amount is not positive.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientBalance is returned when the sender's wallet can not
// cover a tip.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrSelfFollow is returned on an attempt to follow oneself.
var ErrSelfFollow = errors.New("can not follow self")

// ErrEmptyText is returned when a comment has no visible characters.
var ErrEmptyText = errors.New("empty text")

// ErrUnavailable ...
var ErrUnavailable = errors.New("storage unavailable")

// CreateAccountParams ...
type CreateAccountParams struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// CreateUploadParams ...
type CreateUploadParams struct {
	OwnerID  string
	FileName string
	FileKind entities.FileKind
	Caption  string
	Tags     []string
	Data     []byte
}

// SendTipParams ...
type SendTipParams struct {
	UploadID string
	SenderID string
	Amount   int64
	Message  string
}

// LikeState is the result of a like toggle.
type LikeState struct {
	Liked      bool   `json:"liked"`
	LikesCount uint32 `json:"likesCount"`
}

// ImportReport summarizes a legacy import run. Records which could not
// be classified or stored are skipped, not fatal.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Service ...
type Service interface {
	CreateAccount(ctx context.Context, p CreateAccountParams) (*entities.Account, error)
	Authenticate(ctx context.Context, identifier, password string) (*entities.Account, *entities.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context, id string) (*entities.Account, error)

	CreateUpload(ctx context.Context, p CreateUploadParams) (*entities.Upload, error)
	GetUpload(ctx context.Context, id string) (*entities.Upload, error)
	GetUploadAsset(ctx context.Context, uploadID string) (*entities.Asset, error)
	ListFeed(ctx context.Context, p *storage.ListUploadsParams) ([]*entities.Upload, error)
	DeleteUpload(ctx context.Context, id string) error
	RegisterView(ctx context.Context, uploadID string) (uint32, error)

	ToggleLike(ctx context.Context, uploadID, accountID string) (*LikeState, error)
	PostComment(ctx context.Context, uploadID, accountID, text string) (*entities.Comment, error)
	ListComments(ctx context.Context, uploadID string) ([]*entities.Comment, error)
	SendTip(ctx context.Context, p SendTipParams) (*entities.Tip, error)
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)

	ExportAll(ctx context.Context) (*entities.Snapshot, error)
	ImportLegacy(ctx context.Context, records []json.RawMessage) (*ImportReport, error)
	ClearAll(ctx context.Context) error
}
