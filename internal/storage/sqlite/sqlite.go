// Package sqlite is implementation of storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/storage"
)

var log = logrus.WithField("layer", "storage").WithField("package", "sqlite")

var errBeginCalledWithinTx = errors.New("can not run InTx within tx")

type sq struct {
	ext sqlx.ExtContext
}

type accountDTO struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	PasswordHash   string    `db:"password_hash"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	LastActiveAt   time.Time `db:"last_active_at"`
	UploadsCount   uint32    `db:"uploads_count"`
	FollowersCount uint32    `db:"followers_count"`
	FollowingCount uint32    `db:"following_count"`
	TipsSent       int64     `db:"tips_sent"`
	TipsReceived   int64     `db:"tips_received"`
}

type uploadDTO struct {
	ID            string    `db:"id"`
	OwnerID       string    `db:"owner_id"`
	OwnerUsername string    `db:"owner_username"`
	FileName      string    `db:"file_name"`
	FileKind      string    `db:"file_kind"`
	FileSize      int64     `db:"file_size"`
	Caption       string    `db:"caption"`
	Tags          string    `db:"tags"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	LikesCount    uint32    `db:"likes_count"`
	CommentsCount uint32    `db:"comments_count"`
	TipsCount     uint32    `db:"tips_count"`
	ViewsCount    uint32    `db:"views_count"`
	AssetID       string    `db:"asset_id"`
}

type assetDTO struct {
	ID        string    `db:"id"`
	UploadID  string    `db:"upload_id"`
	FileKind  string    `db:"file_kind"`
	FileSize  int64     `db:"file_size"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}

type commentDTO struct {
	ID            string    `db:"id"`
	UploadID      string    `db:"upload_id"`
	OwnerID       string    `db:"owner_id"`
	OwnerUsername string    `db:"owner_username"`
	Text          string    `db:"text"`
	CreatedAt     time.Time `db:"created_at"`
}

type likeDTO struct {
	ID            string    `db:"id"`
	UploadID      string    `db:"upload_id"`
	OwnerID       string    `db:"owner_id"`
	OwnerUsername string    `db:"owner_username"`
	CreatedAt     time.Time `db:"created_at"`
}

type tipDTO struct {
	ID         string    `db:"id"`
	UploadID   string    `db:"upload_id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID string    `db:"receiver_id"`
	Amount     int64     `db:"amount"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}

type followDTO struct {
	ID         string    `db:"id"`
	FollowerID string    `db:"follower_id"`
	FolloweeID string    `db:"followee_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type sessionDTO struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Open opens a sqlite database at path (or ":memory:") and configures
// the connection. A single pooled connection keeps in-memory databases
// coherent and matches sqlite's one-writer model.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// New creates new instance of sq.
func New(db *sql.DB) storage.Storage {
	return sq{
		ext: sqlx.NewDb(db, "sqlite3"),
	}
}

func (s sq) InTx(ctx context.Context, f func(s storage.Storage) error) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return errBeginCalledWithinTx
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to create tx: %w", translateError(err))
	}

	if err := f(sq{ext: tx}); err != nil {
		if err := tx.Rollback(); err != nil {
			log.WithError(err).Error("failed to rollback tx")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}

	return nil
}

func (s sq) Ping(ctx context.Context) error {
	db, ok := s.ext.(*sqlx.DB)
	if !ok {
		return nil
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s", storage.ErrUnavailable, err)
	}

	return nil
}

// translateError maps driver errors to storage sentinels.
func translateError(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return storage.ErrDuplicateKey
		}
	}

	// database/sql does not export its closed-database error.
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return storage.ErrUnavailable
	}

	return err
}

// Accounts

func (s sq) CreateAccount(ctx context.Context, a *entities.Account) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO account(id, username, email, phone, password_hash, status, created_at, last_active_at,
				uploads_count, followers_count, following_count, tips_sent, tips_received)
			VALUES(:id, :username, :email, :phone, :password_hash, :status, :created_at, :last_active_at,
				:uploads_count, :followers_count, :following_count, :tips_sent, :tips_received)
		`, toAccountDTO(a),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) SetAccount(ctx context.Context, a *entities.Account) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO account(id, username, email, phone, password_hash, status, created_at, last_active_at,
				uploads_count, followers_count, following_count, tips_sent, tips_received)
			VALUES(:id, :username, :email, :phone, :password_hash, :status, :created_at, :last_active_at,
				:uploads_count, :followers_count, :following_count, :tips_sent, :tips_received)
			ON CONFLICT(id) DO UPDATE SET
				username=excluded.username, email=excluded.email, phone=excluded.phone,
				password_hash=excluded.password_hash, status=excluded.status,
				last_active_at=excluded.last_active_at,
				uploads_count=excluded.uploads_count, followers_count=excluded.followers_count,
				following_count=excluded.following_count, tips_sent=excluded.tips_sent,
				tips_received=excluded.tips_received
		`, toAccountDTO(a),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	var a accountDTO

	if err := sqlx.GetContext(ctx, s.ext, &a, `SELECT * FROM account WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromAccountDTO(&a), nil
}

func (s sq) GetAccountByIdentifier(ctx context.Context, identifier string) (*entities.Account, error) {
	var a accountDTO

	if err := sqlx.GetContext(ctx, s.ext, &a,
		`SELECT * FROM account WHERE username = ? OR email = ?`, identifier, identifier,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromAccountDTO(&a), nil
}

func (s sq) ListAccounts(ctx context.Context) ([]*entities.Account, error) {
	var aa []*accountDTO

	if err := sqlx.SelectContext(ctx, s.ext, &aa, `SELECT * FROM account ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Account, len(aa))
	for i, v := range aa {
		out[i] = fromAccountDTO(v)
	}

	return out, nil
}

func (s sq) SetAccountLastActive(ctx context.Context, id string, t time.Time) error {
	return s.execOne(ctx, `UPDATE account SET last_active_at = ? WHERE id = ?`, t.UTC(), id)
}

func (s sq) AddAccountUploads(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE account SET uploads_count = MAX(0, uploads_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddAccountFollowers(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE account SET followers_count = MAX(0, followers_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddAccountFollowing(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE account SET following_count = MAX(0, following_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddAccountTipsSent(ctx context.Context, id string, amount int64) error {
	return s.execOne(ctx, `UPDATE account SET tips_sent = tips_sent + ? WHERE id = ?`, amount, id)
}

func (s sq) AddAccountTipsReceived(ctx context.Context, id string, amount int64) error {
	return s.execOne(ctx, `UPDATE account SET tips_received = tips_received + ? WHERE id = ?`, amount, id)
}

// Uploads

func (s sq) CreateUpload(ctx context.Context, u *entities.Upload) error {
	dto, err := toUploadDTO(u)
	if err != nil {
		return err
	}

	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO upload(id, owner_id, owner_username, file_name, file_kind, file_size, caption, tags,
				status, created_at, likes_count, comments_count, tips_count, views_count, asset_id)
			VALUES(:id, :owner_id, :owner_username, :file_name, :file_kind, :file_size, :caption, :tags,
				:status, :created_at, :likes_count, :comments_count, :tips_count, :views_count, :asset_id)
		`, dto,
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetUpload(ctx context.Context, id string) (*entities.Upload, error) {
	var u uploadDTO

	if err := sqlx.GetContext(ctx, s.ext, &u, `SELECT * FROM upload WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromUploadDTO(&u)
}

// nolint: gocyclo
func (s sq) ListUploads(ctx context.Context, p *storage.ListUploadsParams) ([]*entities.Upload, error) {
	sortCol := "created_at"
	switch p.SortBy {
	case storage.LikesSortType:
		sortCol = "likes_count"
	case storage.ViewsSortType:
		sortCol = "views_count"
	}

	dir := "DESC"
	cmp := "<"
	if p.OrderBy == storage.AscendingOrder {
		dir = "ASC"
		cmp = ">"
	}

	q := `SELECT * FROM upload WHERE 1=1`
	var args []interface{}

	if p.Owner != nil {
		q += ` AND owner_id = ?`
		args = append(args, *p.Owner)
	}

	if p.Kind != nil {
		q += ` AND file_kind = ?`
		args = append(args, string(*p.Kind))
	}

	if p.Tag != nil {
		// Tags live in a JSON array column.
		q += ` AND EXISTS (SELECT 1 FROM json_each(upload.tags) WHERE json_each.value = ?)`
		args = append(args, *p.Tag)
	}

	if p.LikedBy != nil {
		q += ` AND id IN (SELECT upload_id FROM "like" WHERE owner_id = ?)`
		args = append(args, *p.LikedBy)
	}

	if p.FollowedBy != nil {
		q += ` AND owner_id IN (SELECT followee_id FROM follow WHERE follower_id = ?)`
		args = append(args, *p.FollowedBy)
	}

	if p.From != nil {
		q += ` AND created_at >= ?`
		args = append(args, p.From.UTC())
	}

	if p.To != nil {
		q += ` AND created_at <= ?`
		args = append(args, p.To.UTC())
	}

	if p.After != nil {
		// Cursor pagination on the (sort value, id) tuple so rows with
		// equal sort values do not repeat or vanish between pages.
		q += fmt.Sprintf(` AND (%[1]s, id) %[2]s (SELECT %[1]s, id FROM upload WHERE id = ?)`, sortCol, cmp)
		args = append(args, *p.After)
	}

	q += fmt.Sprintf(` ORDER BY %[1]s %[2]s, id %[2]s`, sortCol, dir)

	if p.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	var uu []*uploadDTO
	if err := sqlx.SelectContext(ctx, s.ext, &uu, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Upload, len(uu))
	for i, v := range uu {
		u, err := fromUploadDTO(v)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}

	return out, nil
}

func (s sq) DeleteUpload(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM upload WHERE id = ?`, id)
}

func (s sq) AddUploadLikes(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE upload SET likes_count = MAX(0, likes_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddUploadComments(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE upload SET comments_count = MAX(0, comments_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddUploadTips(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE upload SET tips_count = MAX(0, tips_count + ?) WHERE id = ?`, delta, id)
}

func (s sq) AddUploadViews(ctx context.Context, id string, delta int32) error {
	return s.execOne(ctx, `UPDATE upload SET views_count = MAX(0, views_count + ?) WHERE id = ?`, delta, id)
}

// Assets

func (s sq) CreateAsset(ctx context.Context, a *entities.Asset) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO asset(id, upload_id, file_kind, file_size, data, created_at)
			VALUES(:id, :upload_id, :file_kind, :file_size, :data, :created_at)
		`, toAssetDTO(a),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetAsset(ctx context.Context, id string) (*entities.Asset, error) {
	var a assetDTO

	if err := sqlx.GetContext(ctx, s.ext, &a, `SELECT * FROM asset WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromAssetDTO(&a), nil
}

func (s sq) GetAssetByUpload(ctx context.Context, uploadID string) (*entities.Asset, error) {
	var a assetDTO

	if err := sqlx.GetContext(ctx, s.ext, &a, `SELECT * FROM asset WHERE upload_id = ?`, uploadID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromAssetDTO(&a), nil
}

func (s sq) ListAssets(ctx context.Context) ([]*entities.Asset, error) {
	var aa []*assetDTO

	if err := sqlx.SelectContext(ctx, s.ext, &aa, `SELECT * FROM asset ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Asset, len(aa))
	for i, v := range aa {
		out[i] = fromAssetDTO(v)
	}

	return out, nil
}

func (s sq) DeleteAssetByUpload(ctx context.Context, uploadID string) error {
	if _, err := s.ext.ExecContext(ctx, `DELETE FROM asset WHERE upload_id = ?`, uploadID); err != nil {
		return fmt.Errorf("failed to exec: %w", translateError(err))
	}

	return nil
}

// Comments

func (s sq) CreateComment(ctx context.Context, c *entities.Comment) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO comment(id, upload_id, owner_id, owner_username, text, created_at)
			VALUES(:id, :upload_id, :owner_id, :owner_username, :text, :created_at)
		`, toCommentDTO(c),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) ListComments(ctx context.Context) ([]*entities.Comment, error) {
	return s.selectComments(ctx, `SELECT * FROM comment ORDER BY created_at, id`)
}

func (s sq) ListCommentsByUpload(ctx context.Context, uploadID string) ([]*entities.Comment, error) {
	return s.selectComments(ctx, `SELECT * FROM comment WHERE upload_id = ? ORDER BY created_at, id`, uploadID)
}

func (s sq) ListCommentsByAccount(ctx context.Context, accountID string) ([]*entities.Comment, error) {
	return s.selectComments(ctx, `SELECT * FROM comment WHERE owner_id = ? ORDER BY created_at, id`, accountID)
}

func (s sq) selectComments(ctx context.Context, q string, args ...interface{}) ([]*entities.Comment, error) {
	var cc []*commentDTO

	if err := sqlx.SelectContext(ctx, s.ext, &cc, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Comment, len(cc))
	for i, v := range cc {
		out[i] = fromCommentDTO(v)
	}

	return out, nil
}

// Likes

func (s sq) CreateLike(ctx context.Context, l *entities.Like) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO "like"(id, upload_id, owner_id, owner_username, created_at)
			VALUES(:id, :upload_id, :owner_id, :owner_username, :created_at)
		`, toLikeDTO(l),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetLike(ctx context.Context, uploadID, accountID string) (*entities.Like, error) {
	var l likeDTO

	if err := sqlx.GetContext(ctx, s.ext, &l,
		`SELECT * FROM "like" WHERE upload_id = ? AND owner_id = ?`, uploadID, accountID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromLikeDTO(&l), nil
}

func (s sq) DeleteLike(ctx context.Context, uploadID, accountID string) error {
	return s.execOne(ctx, `DELETE FROM "like" WHERE upload_id = ? AND owner_id = ?`, uploadID, accountID)
}

func (s sq) ListLikes(ctx context.Context) ([]*entities.Like, error) {
	return s.selectLikes(ctx, `SELECT * FROM "like" ORDER BY created_at, id`)
}

func (s sq) ListLikesByUpload(ctx context.Context, uploadID string) ([]*entities.Like, error) {
	return s.selectLikes(ctx, `SELECT * FROM "like" WHERE upload_id = ? ORDER BY created_at, id`, uploadID)
}

func (s sq) ListLikesByAccount(ctx context.Context, accountID string) ([]*entities.Like, error) {
	return s.selectLikes(ctx, `SELECT * FROM "like" WHERE owner_id = ? ORDER BY created_at, id`, accountID)
}

func (s sq) selectLikes(ctx context.Context, q string, args ...interface{}) ([]*entities.Like, error) {
	var ll []*likeDTO

	if err := sqlx.SelectContext(ctx, s.ext, &ll, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Like, len(ll))
	for i, v := range ll {
		out[i] = fromLikeDTO(v)
	}

	return out, nil
}

// Tips

func (s sq) CreateTip(ctx context.Context, t *entities.Tip) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO tip(id, upload_id, sender_id, receiver_id, amount, message, created_at)
			VALUES(:id, :upload_id, :sender_id, :receiver_id, :amount, :message, :created_at)
		`, toTipDTO(t),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) ListTips(ctx context.Context) ([]*entities.Tip, error) {
	return s.selectTips(ctx, `SELECT * FROM tip ORDER BY created_at, id`)
}

func (s sq) ListTipsByUpload(ctx context.Context, uploadID string) ([]*entities.Tip, error) {
	return s.selectTips(ctx, `SELECT * FROM tip WHERE upload_id = ? ORDER BY created_at, id`, uploadID)
}

func (s sq) ListTipsBySender(ctx context.Context, accountID string) ([]*entities.Tip, error) {
	return s.selectTips(ctx, `SELECT * FROM tip WHERE sender_id = ? ORDER BY created_at, id`, accountID)
}

func (s sq) ListTipsByReceiver(ctx context.Context, accountID string) ([]*entities.Tip, error) {
	return s.selectTips(ctx, `SELECT * FROM tip WHERE receiver_id = ? ORDER BY created_at, id`, accountID)
}

func (s sq) selectTips(ctx context.Context, q string, args ...interface{}) ([]*entities.Tip, error) {
	var tt []*tipDTO

	if err := sqlx.SelectContext(ctx, s.ext, &tt, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Tip, len(tt))
	for i, v := range tt {
		out[i] = fromTipDTO(v)
	}

	return out, nil
}

// Follows

func (s sq) CreateFollow(ctx context.Context, f *entities.Follow) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`
			INSERT INTO follow(id, follower_id, followee_id, created_at)
			VALUES(:id, :follower_id, :followee_id, :created_at)
		`, toFollowDTO(f),
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetFollow(ctx context.Context, followerID, followeeID string) (*entities.Follow, error) {
	var f followDTO

	if err := sqlx.GetContext(ctx, s.ext, &f,
		`SELECT * FROM follow WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return fromFollowDTO(&f), nil
}

func (s sq) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	return s.execOne(ctx, `DELETE FROM follow WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
}

func (s sq) ListFollows(ctx context.Context) ([]*entities.Follow, error) {
	return s.selectFollows(ctx, `SELECT * FROM follow ORDER BY created_at, id`)
}

func (s sq) ListFollowing(ctx context.Context, followerID string) ([]*entities.Follow, error) {
	return s.selectFollows(ctx, `SELECT * FROM follow WHERE follower_id = ? ORDER BY created_at, id`, followerID)
}

func (s sq) ListFollowers(ctx context.Context, followeeID string) ([]*entities.Follow, error) {
	return s.selectFollows(ctx, `SELECT * FROM follow WHERE followee_id = ? ORDER BY created_at, id`, followeeID)
}

func (s sq) selectFollows(ctx context.Context, q string, args ...interface{}) ([]*entities.Follow, error) {
	var ff []*followDTO

	if err := sqlx.SelectContext(ctx, s.ext, &ff, q, args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	out := make([]*entities.Follow, len(ff))
	for i, v := range ff {
		out[i] = fromFollowDTO(v)
	}

	return out, nil
}

// Sessions

func (s sq) CreateSession(ctx context.Context, sess *entities.Session) error {
	if _, err := sqlx.NamedExecContext(ctx, s.ext,
		`INSERT INTO session(id, account_id, created_at) VALUES(:id, :account_id, :created_at)`,
		sessionDTO{ID: sess.ID, AccountID: sess.AccountID, CreatedAt: sess.CreatedAt.UTC()},
	); err != nil {
		err = translateError(err)
		if errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s sq) GetSession(ctx context.Context, id string) (*entities.Session, error) {
	var sess sessionDTO

	if err := sqlx.GetContext(ctx, s.ext, &sess, `SELECT * FROM session WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query: %w", translateError(err))
	}

	return &entities.Session{ID: sess.ID, AccountID: sess.AccountID, CreatedAt: sess.CreatedAt}, nil
}

func (s sq) DeleteSession(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM session WHERE id = ?`, id)
}

func (s sq) DeleteAccountSessions(ctx context.Context, accountID string) error {
	if _, err := s.ext.ExecContext(ctx, `DELETE FROM session WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to exec: %w", translateError(err))
	}

	return nil
}

func (s sq) ClearAll(ctx context.Context) error {
	for _, table := range []string{`session`, `follow`, `tip`, `"like"`, `comment`, `asset`, `upload`, `account`} {
		if _, err := s.ext.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, translateError(err))
		}
	}

	return nil
}

// execOne runs a statement which must affect exactly one row.
func (s sq) execOne(ctx context.Context, q string, args ...interface{}) error {
	res, err := s.ext.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", translateError(err))
	}

	if c, _ := res.RowsAffected(); c == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func toAccountDTO(a *entities.Account) accountDTO {
	return accountDTO{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		Phone:          a.Phone,
		PasswordHash:   a.PasswordHash,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt.UTC(),
		LastActiveAt:   a.LastActiveAt.UTC(),
		UploadsCount:   a.UploadsCount,
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
		TipsSent:       a.TipsSent,
		TipsReceived:   a.TipsReceived,
	}
}

func fromAccountDTO(a *accountDTO) *entities.Account {
	return &entities.Account{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		Phone:          a.Phone,
		PasswordHash:   a.PasswordHash,
		Status:         entities.AccountStatus(a.Status),
		CreatedAt:      a.CreatedAt,
		LastActiveAt:   a.LastActiveAt,
		UploadsCount:   a.UploadsCount,
		FollowersCount: a.FollowersCount,
		FollowingCount: a.FollowingCount,
		TipsSent:       a.TipsSent,
		TipsReceived:   a.TipsReceived,
	}
}

func toUploadDTO(u *entities.Upload) (*uploadDTO, error) {
	tags := u.Tags
	if tags == nil {
		tags = []string{}
	}

	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	return &uploadDTO{
		ID:            u.ID,
		OwnerID:       u.OwnerID,
		OwnerUsername: u.OwnerUsername,
		FileName:      u.FileName,
		FileKind:      string(u.FileKind),
		FileSize:      u.FileSize,
		Caption:       u.Caption,
		Tags:          string(b),
		Status:        u.Status,
		CreatedAt:     u.CreatedAt.UTC(),
		LikesCount:    u.LikesCount,
		CommentsCount: u.CommentsCount,
		TipsCount:     u.TipsCount,
		ViewsCount:    u.ViewsCount,
		AssetID:       u.AssetID,
	}, nil
}

func fromUploadDTO(u *uploadDTO) (*entities.Upload, error) {
	var tags []string
	if err := json.Unmarshal([]byte(u.Tags), &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	return &entities.Upload{
		ID:            u.ID,
		OwnerID:       u.OwnerID,
		OwnerUsername: u.OwnerUsername,
		FileName:      u.FileName,
		FileKind:      entities.FileKind(u.FileKind),
		FileSize:      u.FileSize,
		Caption:       u.Caption,
		Tags:          tags,
		Status:        u.Status,
		CreatedAt:     u.CreatedAt,
		LikesCount:    u.LikesCount,
		CommentsCount: u.CommentsCount,
		TipsCount:     u.TipsCount,
		ViewsCount:    u.ViewsCount,
		AssetID:       u.AssetID,
	}, nil
}

func toAssetDTO(a *entities.Asset) assetDTO {
	return assetDTO{
		ID:        a.ID,
		UploadID:  a.UploadID,
		FileKind:  string(a.FileKind),
		FileSize:  a.FileSize,
		Data:      a.Data,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

func fromAssetDTO(a *assetDTO) *entities.Asset {
	return &entities.Asset{
		ID:        a.ID,
		UploadID:  a.UploadID,
		FileKind:  entities.FileKind(a.FileKind),
		FileSize:  a.FileSize,
		Data:      a.Data,
		CreatedAt: a.CreatedAt,
	}
}

func toCommentDTO(c *entities.Comment) commentDTO {
	return commentDTO{
		ID:            c.ID,
		UploadID:      c.UploadID,
		OwnerID:       c.OwnerID,
		OwnerUsername: c.OwnerUsername,
		Text:          c.Text,
		CreatedAt:     c.CreatedAt.UTC(),
	}
}

func fromCommentDTO(c *commentDTO) *entities.Comment {
	return &entities.Comment{
		ID:            c.ID,
		UploadID:      c.UploadID,
		OwnerID:       c.OwnerID,
		OwnerUsername: c.OwnerUsername,
		Text:          c.Text,
		CreatedAt:     c.CreatedAt,
	}
}

func toLikeDTO(l *entities.Like) likeDTO {
	return likeDTO{
		ID:            l.ID,
		UploadID:      l.UploadID,
		OwnerID:       l.OwnerID,
		OwnerUsername: l.OwnerUsername,
		CreatedAt:     l.CreatedAt.UTC(),
	}
}

func fromLikeDTO(l *likeDTO) *entities.Like {
	return &entities.Like{
		ID:            l.ID,
		UploadID:      l.UploadID,
		OwnerID:       l.OwnerID,
		OwnerUsername: l.OwnerUsername,
		CreatedAt:     l.CreatedAt,
	}
}

func toTipDTO(t *entities.Tip) tipDTO {
	return tipDTO{
		ID:         t.ID,
		UploadID:   t.UploadID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount,
		Message:    t.Message,
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

func fromTipDTO(t *tipDTO) *entities.Tip {
	return &entities.Tip{
		ID:         t.ID,
		UploadID:   t.UploadID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount,
		Message:    t.Message,
		CreatedAt:  t.CreatedAt,
	}
}

func toFollowDTO(f *entities.Follow) followDTO {
	return followDTO{
		ID:         f.ID,
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt.UTC(),
	}
}

func fromFollowDTO(f *followDTO) *entities.Follow {
	return &entities.Follow{
		ID:         f.ID,
		FollowerID: f.FollowerID,
		FolloweeID: f.FolloweeID,
		CreatedAt:  f.CreatedAt,
	}
}
