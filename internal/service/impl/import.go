package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/service"
	"github.com/nocturna-net/selene/internal/storage"
)

// Legacy dumps come straight out of the old browser database: one JSON
// object per record, ideally with a "type" discriminator. Dumps produced
// by older builds have no discriminator, those records are classified by
// their field shape instead.

type legacyRecord struct {
	Type string `json:"type"`

	ID string `json:"id"`

	// user
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
	Status       string `json:"status"`

	// upload / asset
	OwnerID       string `json:"ownerId"`
	OwnerUsername string `json:"ownerUsername"`
	FileName      string `json:"fileName"`
	FileKind      string `json:"fileKind"`
	FileSize      int64  `json:"fileSize"`
	// oldest dumps used snake_case for file fields
	LegacyFileName string   `json:"file_name"`
	LegacyFileType string   `json:"file_type"`
	LegacyOwnerID  string   `json:"owner_id"`
	Caption        string   `json:"caption"`
	Tags           []string `json:"tags"`
	AssetID        string   `json:"assetId"`
	UploadID       string   `json:"uploadId"`
	Data           []byte   `json:"data"`

	// comment
	Text string `json:"text"`

	// tip
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`

	// follow
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`

	CreatedAt    legacyTime `json:"createdAt"`
	LastActiveAt legacyTime `json:"lastActiveAt"`

	UploadsCount   uint32 `json:"uploadsCount"`
	FollowersCount uint32 `json:"followersCount"`
	FollowingCount uint32 `json:"followingCount"`
	TipsSent       int64  `json:"tipsSent"`
	TipsReceived   int64  `json:"tipsReceived"`
	LikesCount     uint32 `json:"likesCount"`
	CommentsCount  uint32 `json:"commentsCount"`
	TipsCount      uint32 `json:"tipsCount"`
	ViewsCount     uint32 `json:"viewsCount"`
}

// classify guesses a record kind from its fields. Order matters: a
// comment also carries uploadId and ownerId, so the more specific
// shapes are checked first.
func (r *legacyRecord) classify() string {
	if r.LegacyFileName != "" && r.FileName == "" {
		r.FileName = r.LegacyFileName
	}
	if r.LegacyFileType != "" && r.FileKind == "" {
		r.FileKind = r.LegacyFileType
	}
	if r.LegacyOwnerID != "" && r.OwnerID == "" {
		r.OwnerID = r.LegacyOwnerID
	}

	if r.Type != "" {
		return r.Type
	}

	switch {
	case r.Username != "" && r.Email != "":
		return "user"
	case r.FileName != "":
		return "upload"
	case r.UploadID != "" && (r.Data != nil || r.FileKind != ""):
		return "asset"
	case r.Text != "" && r.UploadID != "":
		return "comment"
	case r.Amount != 0:
		return "tip"
	case r.FollowerID != "" && r.FolloweeID != "":
		return "follow"
	case r.UploadID != "" && r.OwnerID != "":
		return "like"
	default:
		return ""
	}
}

// ImportLegacy loads records from a legacy dump. A record which can not
// be classified or stored is skipped and reported, never fatal.
// Records keep their original ids; a record whose key is already present
// is skipped untouched, so a stale dump can never overwrite live state.
// Counters of imported records come from the dump as-is.
func (s svc) ImportLegacy(ctx context.Context, records []json.RawMessage) (*service.ImportReport, error) {
	report := &service.ImportReport{}

	for i, raw := range records {
		var r legacyRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			skip(report, i, fmt.Errorf("failed to unmarshal: %w", err))
			continue
		}

		kind := r.classify()
		if kind == "" {
			skip(report, i, errors.New("unrecognized record shape"))
			continue
		}

		if err := s.importRecord(ctx, kind, &r); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				err = errors.New("already present")
			}
			skip(report, i, err)
			continue
		}

		report.Imported++
	}

	log.WithField("imported", report.Imported).
		WithField("skipped", report.Skipped).
		Info("legacy import finished")

	return report, nil
}

// nolint: gocyclo
func (s svc) importRecord(ctx context.Context, kind string, r *legacyRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	switch kind {
	case "user", "account":
		return s.importLegacyUser(ctx, r)
	case "upload", "file":
		return s.importLegacyUpload(ctx, r)
	case "asset":
		size := r.FileSize
		if size == 0 {
			size = int64(len(r.Data))
		}
		return s.storage.CreateAsset(ctx, &entities.Asset{
			ID:        r.ID,
			UploadID:  r.UploadID,
			FileKind:  entities.FileKind(r.FileKind),
			FileSize:  size,
			Data:      r.Data,
			CreatedAt: r.CreatedAt.orNow(),
		})
	case "comment":
		return s.storage.CreateComment(ctx, &entities.Comment{
			ID:            r.ID,
			UploadID:      r.UploadID,
			OwnerID:       r.OwnerID,
			OwnerUsername: r.OwnerUsername,
			Text:          r.Text,
			CreatedAt:     r.CreatedAt.orNow(),
		})
	case "like":
		return s.storage.CreateLike(ctx, &entities.Like{
			ID:            r.ID,
			UploadID:      r.UploadID,
			OwnerID:       r.OwnerID,
			OwnerUsername: r.OwnerUsername,
			CreatedAt:     r.CreatedAt.orNow(),
		})
	case "tip":
		if r.Amount <= 0 {
			return service.ErrInvalidAmount
		}
		return s.storage.CreateTip(ctx, &entities.Tip{
			ID:         r.ID,
			UploadID:   r.UploadID,
			SenderID:   r.SenderID,
			ReceiverID: r.ReceiverID,
			Amount:     r.Amount,
			Message:    r.Message,
			CreatedAt:  r.CreatedAt.orNow(),
		})
	case "follow":
		if r.FollowerID == r.FolloweeID {
			return service.ErrSelfFollow
		}
		return s.storage.CreateFollow(ctx, &entities.Follow{
			ID:         r.ID,
			FollowerID: r.FollowerID,
			FolloweeID: r.FolloweeID,
			CreatedAt:  r.CreatedAt.orNow(),
		})
	default:
		return fmt.Errorf("unknown record type %q", kind)
	}
}

func (s svc) importLegacyUser(ctx context.Context, r *legacyRecord) error {
	hash := r.PasswordHash
	if hash == "" && r.Password != "" {
		// Old builds stored the secret in the clear. Hash it on the way
		// in, the plain form is dropped.
		var err error
		if hash, err = hashPassword(r.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	status := entities.AccountStatus(r.Status)
	if status == "" {
		status = entities.AccountActive
	}

	createdAt := r.CreatedAt.orNow()
	lastActiveAt := r.LastActiveAt.orNow()

	return s.storage.CreateAccount(ctx, &entities.Account{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		Phone:          r.Phone,
		PasswordHash:   hash,
		Status:         status,
		CreatedAt:      createdAt,
		LastActiveAt:   lastActiveAt,
		UploadsCount:   r.UploadsCount,
		FollowersCount: r.FollowersCount,
		FollowingCount: r.FollowingCount,
		TipsSent:       r.TipsSent,
		TipsReceived:   r.TipsReceived,
	})
}

func (s svc) importLegacyUpload(ctx context.Context, r *legacyRecord) error {
	kind := entities.FileKind(r.FileKind)
	if kind == "" {
		kind = entities.ImageKind
	}

	status := r.Status
	if status == "" {
		status = "completed"
	}

	assetID := r.AssetID
	if assetID == "" && r.Data != nil {
		assetID = uuid.New().String()
	}

	u := &entities.Upload{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		OwnerUsername: r.OwnerUsername,
		FileName:      r.FileName,
		FileKind:      kind,
		FileSize:      r.FileSize,
		Caption:       r.Caption,
		Tags:          r.Tags,
		Status:        status,
		CreatedAt:     r.CreatedAt.orNow(),
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		TipsCount:     r.TipsCount,
		ViewsCount:    r.ViewsCount,
		AssetID:       assetID,
	}

	if r.Data == nil {
		return s.storage.CreateUpload(ctx, u)
	}

	if u.FileSize == 0 {
		u.FileSize = int64(len(r.Data))
	}

	// Inline payloads predate the separate asset store, split them out.
	return s.storage.InTx(ctx, func(tx storage.Storage) error {
		if err := tx.CreateUpload(ctx, u); err != nil {
			return err
		}
		return tx.CreateAsset(ctx, &entities.Asset{
			ID:        assetID,
			UploadID:  u.ID,
			FileKind:  kind,
			FileSize:  u.FileSize,
			Data:      r.Data,
			CreatedAt: u.CreatedAt,
		})
	})
}

func skip(r *service.ImportReport, i int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("record %d: %s", i, err))
}
