// Package storage contains a storage interface.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nocturna-net/selene/internal/entities"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when an insert violates a primary key or a
// declared-unique field (username, email, like pair, follow pair).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrUnavailable is returned when the underlying store is closed or was
// never initialized. Operations fail fast instead of waiting.
var ErrUnavailable = errors.New("storage unavailable")

// Storage provides methods for interacting with the embedded database.
//
// Add* counter methods are single-statement atomic increments: concurrent
// compound operations on the same aggregate serialize on the row instead
// of racing through read-modify-write. Decrements floor at zero.
type Storage interface {
	InTx(ctx context.Context, f func(s Storage) error) error
	Ping(ctx context.Context) error

	CreateAccount(ctx context.Context, a *entities.Account) error
	SetAccount(ctx context.Context, a *entities.Account) error
	GetAccount(ctx context.Context, id string) (*entities.Account, error)
	GetAccountByIdentifier(ctx context.Context, identifier string) (*entities.Account, error)
	ListAccounts(ctx context.Context) ([]*entities.Account, error)
	SetAccountLastActive(ctx context.Context, id string, t time.Time) error
	AddAccountUploads(ctx context.Context, id string, delta int32) error
	AddAccountFollowers(ctx context.Context, id string, delta int32) error
	AddAccountFollowing(ctx context.Context, id string, delta int32) error
	AddAccountTipsSent(ctx context.Context, id string, amount int64) error
	AddAccountTipsReceived(ctx context.Context, id string, amount int64) error

	CreateUpload(ctx context.Context, u *entities.Upload) error
	GetUpload(ctx context.Context, id string) (*entities.Upload, error)
	ListUploads(ctx context.Context, p *ListUploadsParams) ([]*entities.Upload, error)
	DeleteUpload(ctx context.Context, id string) error
	AddUploadLikes(ctx context.Context, id string, delta int32) error
	AddUploadComments(ctx context.Context, id string, delta int32) error
	AddUploadTips(ctx context.Context, id string, delta int32) error
	AddUploadViews(ctx context.Context, id string, delta int32) error

	CreateAsset(ctx context.Context, a *entities.Asset) error
	GetAsset(ctx context.Context, id string) (*entities.Asset, error)
	GetAssetByUpload(ctx context.Context, uploadID string) (*entities.Asset, error)
	ListAssets(ctx context.Context) ([]*entities.Asset, error)
	DeleteAssetByUpload(ctx context.Context, uploadID string) error

	CreateComment(ctx context.Context, c *entities.Comment) error
	ListComments(ctx context.Context) ([]*entities.Comment, error)
	ListCommentsByUpload(ctx context.Context, uploadID string) ([]*entities.Comment, error)
	ListCommentsByAccount(ctx context.Context, accountID string) ([]*entities.Comment, error)

	CreateLike(ctx context.Context, l *entities.Like) error
	GetLike(ctx context.Context, uploadID, accountID string) (*entities.Like, error)
	DeleteLike(ctx context.Context, uploadID, accountID string) error
	ListLikes(ctx context.Context) ([]*entities.Like, error)
	ListLikesByUpload(ctx context.Context, uploadID string) ([]*entities.Like, error)
	ListLikesByAccount(ctx context.Context, accountID string) ([]*entities.Like, error)

	CreateTip(ctx context.Context, t *entities.Tip) error
	ListTips(ctx context.Context) ([]*entities.Tip, error)
	ListTipsByUpload(ctx context.Context, uploadID string) ([]*entities.Tip, error)
	ListTipsBySender(ctx context.Context, accountID string) ([]*entities.Tip, error)
	ListTipsByReceiver(ctx context.Context, accountID string) ([]*entities.Tip, error)

	CreateFollow(ctx context.Context, f *entities.Follow) error
	GetFollow(ctx context.Context, followerID, followeeID string) (*entities.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	ListFollows(ctx context.Context) ([]*entities.Follow, error)
	ListFollowing(ctx context.Context, followerID string) ([]*entities.Follow, error)
	ListFollowers(ctx context.Context, followeeID string) ([]*entities.Follow, error)

	CreateSession(ctx context.Context, s *entities.Session) error
	GetSession(ctx context.Context, id string) (*entities.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteAccountSessions(ctx context.Context, accountID string) error

	ClearAll(ctx context.Context) error
}

// SortType ...
type SortType string

const (
	// CreatedAtSortType ...
	CreatedAtSortType SortType = "created_at"
	// LikesSortType ...
	LikesSortType SortType = "likes"
	// ViewsSortType ...
	ViewsSortType SortType = "views"
)

// OrderType ...
type OrderType string

const (
	// AscendingOrder ...
	AscendingOrder OrderType = "asc"
	// DescendingOrder ...
	DescendingOrder OrderType = "desc"
)

// ListUploadsParams ...
type ListUploadsParams struct {
	SortBy     SortType
	OrderBy    OrderType
	Limit      uint16
	Owner      *string
	Kind       *entities.FileKind
	Tag        *string
	LikedBy    *string
	FollowedBy *string
	After      *string
	From       *time.Time
	To         *time.Time
}
