// Package impl is an implementation of service.
package impl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/service"
	"github.com/nocturna-net/selene/internal/storage"
	"github.com/nocturna-net/selene/internal/wallet"
)

var log = logrus.WithField("layer", "service")

type svc struct {
	storage storage.Storage
	wallet  wallet.BalanceProvider
}

// New creates new instance of service.
func New(s storage.Storage, w wallet.BalanceProvider) service.Service {
	return svc{
		storage: s,
		wallet:  w,
	}
}

func (s svc) CreateAccount(ctx context.Context, p service.CreateAccountParams) (*entities.Account, error) {
	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	a := &entities.Account{
		ID:           uuid.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: hash,
		Status:       entities.AccountActive,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	if err := s.storage.CreateAccount(ctx, a); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, service.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create account: %w", translate(err))
	}

	return a, nil
}

func (s svc) Authenticate(ctx context.Context, identifier, password string) (*entities.Account, *entities.Session, error) {
	a, err := s.storage.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, service.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get account: %w", translate(err))
	}

	ok, err := verifyPassword(password, a.PasswordHash)
	if err != nil {
		// Imported accounts may carry no usable verifier at all.
		if errors.Is(err, errMalformedHash) {
			return nil, nil, service.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, nil, service.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	sess := &entities.Session{
		ID:        uuid.New().String(),
		AccountID: a.ID,
		CreatedAt: now,
	}

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		if err := tx.CreateSession(ctx, sess); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := tx.SetAccountLastActive(ctx, a.ID, now); err != nil {
			return fmt.Errorf("failed to touch account: %w", err)
		}
		return nil
	}); err != nil {
		return nil, nil, translate(err)
	}

	a.LastActiveAt = now

	return a, sess, nil
}

func (s svc) EndSession(ctx context.Context, sessionID string) error {
	if err := s.storage.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return service.ErrNotFound
		}
		return fmt.Errorf("failed to delete session: %w", translate(err))
	}

	return nil
}

func (s svc) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	a, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", translate(err))
	}

	return a, nil
}

func (s svc) CreateUpload(ctx context.Context, p service.CreateUploadParams) (*entities.Upload, error) {
	var u *entities.Upload

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		owner, err := tx.GetAccount(ctx, p.OwnerID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to get owner: %w", err)
		}

		now := time.Now().UTC()
		asset := &entities.Asset{
			ID:        uuid.New().String(),
			FileKind:  p.FileKind,
			FileSize:  int64(len(p.Data)),
			Data:      p.Data,
			CreatedAt: now,
		}

		u = &entities.Upload{
			ID:            uuid.New().String(),
			OwnerID:       owner.ID,
			OwnerUsername: owner.Username,
			FileName:      p.FileName,
			FileKind:      p.FileKind,
			FileSize:      asset.FileSize,
			Caption:       p.Caption,
			Tags:          p.Tags,
			Status:        "completed",
			CreatedAt:     now,
			AssetID:       asset.ID,
		}
		asset.UploadID = u.ID

		if err := tx.CreateUpload(ctx, u); err != nil {
			return fmt.Errorf("failed to create upload: %w", err)
		}
		if err := tx.CreateAsset(ctx, asset); err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		if err := tx.AddAccountUploads(ctx, owner.ID, 1); err != nil {
			return fmt.Errorf("failed to bump uploads count: %w", err)
		}

		return nil
	}); err != nil {
		return nil, translate(err)
	}

	return u, nil
}

func (s svc) GetUpload(ctx context.Context, id string) (*entities.Upload, error) {
	u, err := s.storage.GetUpload(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upload: %w", translate(err))
	}

	return u, nil
}

func (s svc) GetUploadAsset(ctx context.Context, uploadID string) (*entities.Asset, error) {
	a, err := s.storage.GetAssetByUpload(ctx, uploadID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", translate(err))
	}

	return a, nil
}

func (s svc) ListFeed(ctx context.Context, p *storage.ListUploadsParams) ([]*entities.Upload, error) {
	if p.SortBy == "" {
		p.SortBy = storage.CreatedAtSortType
	}
	if p.OrderBy == "" {
		p.OrderBy = storage.DescendingOrder
	}

	uu, err := s.storage.ListUploads(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", translate(err))
	}

	return uu, nil
}

func (s svc) DeleteUpload(ctx context.Context, id string) error {
	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		u, err := tx.GetUpload(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to get upload: %w", err)
		}

		if err := tx.DeleteUpload(ctx, id); err != nil {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
		// Asset goes with its upload. An upload without a payload is
		// useless and a payload without an upload is unreachable.
		if err := tx.DeleteAssetByUpload(ctx, id); err != nil {
			return fmt.Errorf("failed to delete asset: %w", err)
		}
		if err := tx.AddAccountUploads(ctx, u.OwnerID, -1); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to drop uploads count: %w", err)
		}

		return nil
	}); err != nil {
		return translate(err)
	}

	return nil
}

func (s svc) RegisterView(ctx context.Context, uploadID string) (uint32, error) {
	var views uint32

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		if err := tx.AddUploadViews(ctx, uploadID, 1); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to bump views count: %w", err)
		}

		u, err := tx.GetUpload(ctx, uploadID)
		if err != nil {
			return fmt.Errorf("failed to get upload: %w", err)
		}
		views = u.ViewsCount

		return nil
	}); err != nil {
		return 0, translate(err)
	}

	return views, nil
}

func (s svc) ToggleLike(ctx context.Context, uploadID, accountID string) (*service.LikeState, error) {
	var state service.LikeState

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUpload(ctx, uploadID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to get upload: %w", err)
		}

		_, err := tx.GetLike(ctx, uploadID, accountID)
		switch {
		case err == nil:
			if err := tx.DeleteLike(ctx, uploadID, accountID); err != nil {
				return fmt.Errorf("failed to delete like: %w", err)
			}
			if err := tx.AddUploadLikes(ctx, uploadID, -1); err != nil {
				return fmt.Errorf("failed to drop likes count: %w", err)
			}
			state.Liked = false
		case errors.Is(err, storage.ErrNotFound):
			owner, err := tx.GetAccount(ctx, accountID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return service.ErrNotFound
				}
				return fmt.Errorf("failed to get account: %w", err)
			}

			if err := tx.CreateLike(ctx, &entities.Like{
				ID:            uuid.New().String(),
				UploadID:      uploadID,
				OwnerID:       owner.ID,
				OwnerUsername: owner.Username,
				CreatedAt:     time.Now().UTC(),
			}); err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			if err := tx.AddUploadLikes(ctx, uploadID, 1); err != nil {
				return fmt.Errorf("failed to bump likes count: %w", err)
			}
			state.Liked = true
		default:
			return fmt.Errorf("failed to get like: %w", err)
		}

		u, err := tx.GetUpload(ctx, uploadID)
		if err != nil {
			return fmt.Errorf("failed to get upload: %w", err)
		}
		state.LikesCount = u.LikesCount

		return nil
	}); err != nil {
		return nil, translate(err)
	}

	return &state, nil
}

func (s svc) PostComment(ctx context.Context, uploadID, accountID, text string) (*entities.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, service.ErrEmptyText
	}

	var c *entities.Comment

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUpload(ctx, uploadID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to get upload: %w", err)
		}

		owner, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return service.ErrNotFound
			}
			return fmt.Errorf("failed to get account: %w", err)
		}

		c = &entities.Comment{
			ID:            uuid.New().String(),
			UploadID:      uploadID,
			OwnerID:       owner.ID,
			OwnerUsername: owner.Username,
			Text:          text,
			CreatedAt:     time.Now().UTC(),
		}

		if err := tx.CreateComment(ctx, c); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		if err := tx.AddUploadComments(ctx, uploadID, 1); err != nil {
			return fmt.Errorf("failed to bump comments count: %w", err)
		}

		return nil
	}); err != nil {
		return nil, translate(err)
	}

	return c, nil
}

func (s svc) ListComments(ctx context.Context, uploadID string) ([]*entities.Comment, error) {
	cc, err := s.storage.ListCommentsByUpload(ctx, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", translate(err))
	}

	return cc, nil
}

func (s svc) SendTip(ctx context.Context, p service.SendTipParams) (*entities.Tip, error) {
	if p.Amount <= 0 {
		return nil, service.ErrInvalidAmount
	}

	u, err := s.GetUpload(ctx, p.UploadID)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetAccount(ctx, p.SenderID); err != nil {
		return nil, err
	}

	if err := s.wallet.Apply(ctx, p.SenderID, u.OwnerID, p.Amount); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return nil, service.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to apply transfer: %w", err)
	}

	t := &entities.Tip{
		ID:         uuid.New().String(),
		UploadID:   p.UploadID,
		SenderID:   p.SenderID,
		ReceiverID: u.OwnerID,
		Amount:     p.Amount,
		Message:    p.Message,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		if err := tx.CreateTip(ctx, t); err != nil {
			return fmt.Errorf("failed to create tip: %w", err)
		}
		if err := tx.AddUploadTips(ctx, p.UploadID, 1); err != nil {
			return fmt.Errorf("failed to bump tips count: %w", err)
		}
		if err := tx.AddAccountTipsSent(ctx, p.SenderID, p.Amount); err != nil {
			return fmt.Errorf("failed to bump tips sent: %w", err)
		}
		if err := tx.AddAccountTipsReceived(ctx, u.OwnerID, p.Amount); err != nil {
			return fmt.Errorf("failed to bump tips received: %w", err)
		}
		return nil
	}); err != nil {
		// The transfer already went through, put the funds back.
		if rerr := s.wallet.Apply(ctx, u.OwnerID, p.SenderID, p.Amount); rerr != nil {
			log.WithError(rerr).Error("failed to refund tip transfer")
		}
		return nil, translate(err)
	}

	return t, nil
}

func (s svc) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, service.ErrSelfFollow
	}

	var following bool

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		_, err := tx.GetFollow(ctx, followerID, followeeID)
		switch {
		case err == nil:
			if err := tx.DeleteFollow(ctx, followerID, followeeID); err != nil {
				return fmt.Errorf("failed to delete follow: %w", err)
			}
			if err := tx.AddAccountFollowers(ctx, followeeID, -1); err != nil {
				return fmt.Errorf("failed to drop followers count: %w", err)
			}
			if err := tx.AddAccountFollowing(ctx, followerID, -1); err != nil {
				return fmt.Errorf("failed to drop following count: %w", err)
			}
			following = false
		case errors.Is(err, storage.ErrNotFound):
			for _, id := range []string{followerID, followeeID} {
				if _, err := tx.GetAccount(ctx, id); err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						return service.ErrNotFound
					}
					return fmt.Errorf("failed to get account: %w", err)
				}
			}

			if err := tx.CreateFollow(ctx, &entities.Follow{
				ID:         uuid.New().String(),
				FollowerID: followerID,
				FolloweeID: followeeID,
				CreatedAt:  time.Now().UTC(),
			}); err != nil {
				return fmt.Errorf("failed to create follow: %w", err)
			}
			if err := tx.AddAccountFollowers(ctx, followeeID, 1); err != nil {
				return fmt.Errorf("failed to bump followers count: %w", err)
			}
			if err := tx.AddAccountFollowing(ctx, followerID, 1); err != nil {
				return fmt.Errorf("failed to bump following count: %w", err)
			}
			following = true
		default:
			return fmt.Errorf("failed to get follow: %w", err)
		}

		return nil
	}); err != nil {
		return false, translate(err)
	}

	return following, nil
}

func (s svc) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if _, err := s.storage.GetFollow(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get follow: %w", translate(err))
	}

	return true, nil
}

func (s svc) ExportAll(ctx context.Context) (*entities.Snapshot, error) {
	var snap entities.Snapshot

	if err := s.storage.InTx(ctx, func(tx storage.Storage) error {
		var err error

		if snap.Accounts, err = tx.ListAccounts(ctx); err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		if snap.Uploads, err = tx.ListUploads(ctx, &storage.ListUploadsParams{
			SortBy:  storage.CreatedAtSortType,
			OrderBy: storage.AscendingOrder,
		}); err != nil {
			return fmt.Errorf("failed to list uploads: %w", err)
		}
		if snap.Assets, err = tx.ListAssets(ctx); err != nil {
			return fmt.Errorf("failed to list assets: %w", err)
		}
		if snap.Comments, err = tx.ListComments(ctx); err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}
		if snap.Likes, err = tx.ListLikes(ctx); err != nil {
			return fmt.Errorf("failed to list likes: %w", err)
		}
		if snap.Tips, err = tx.ListTips(ctx); err != nil {
			return fmt.Errorf("failed to list tips: %w", err)
		}
		if snap.Follows, err = tx.ListFollows(ctx); err != nil {
			return fmt.Errorf("failed to list follows: %w", err)
		}

		return nil
	}); err != nil {
		return nil, translate(err)
	}

	snap.ExportedAt = time.Now().UTC()

	return &snap, nil
}

func (s svc) ClearAll(ctx context.Context) error {
	if err := s.storage.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear storage: %w", translate(err))
	}

	return nil
}

// translate keeps service sentinels as-is and maps storage availability
// failures to the service taxonomy.
func translate(err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		return service.ErrUnavailable
	}
	return err
}

// legacyTime accepts the timestamp shapes found in old browser dumps:
// RFC3339 strings and epoch milliseconds.
type legacyTime struct {
	time.Time
}

func (t *legacyTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	t.Time = parsed.UTC()

	return nil
}

func (t legacyTime) orNow() time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.Time
}
