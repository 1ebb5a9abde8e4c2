package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/storage"
	"github.com/nocturna-net/selene/internal/storage/sqlite/migrations"
)

var ctx = context.Background()

func newStorage(t *testing.T) storage.Storage {
	db, err := Open(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, migrations.Up(db))

	return New(db)
}

func newTestAccount(id string) *entities.Account {
	return &entities.Account{
		ID:           id,
		Username:     "user_" + id,
		Email:        id + "@selene.test",
		PasswordHash: "$argon2id$stub",
		Status:       entities.AccountActive,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		LastActiveAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestUpload(id, ownerID string, createdAt time.Time) *entities.Upload {
	return &entities.Upload{
		ID:            id,
		OwnerID:       ownerID,
		OwnerUsername: "user_" + ownerID,
		FileName:      id + ".jpg",
		FileKind:      entities.ImageKind,
		FileSize:      1024,
		Caption:       "caption " + id,
		Tags:          []string{"tag1", "tag2"},
		Status:        "completed",
		CreatedAt:     createdAt,
		AssetID:       "asset_" + id,
	}
}

func TestSq_CreateAccount(t *testing.T) {
	s := newStorage(t)

	a := newTestAccount("1")
	require.NoError(t, s.CreateAccount(ctx, a))

	got, err := s.GetAccount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, a.Username, got.Username)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, entities.AccountActive, got.Status)
	assert.True(t, got.CreatedAt.Equal(a.CreatedAt))
}

func TestSq_CreateAccount_Duplicate(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))

	t.Run("same id", func(t *testing.T) {
		dup := newTestAccount("1")
		dup.Username, dup.Email = "other", "other@selene.test"
		assert.ErrorIs(t, s.CreateAccount(ctx, dup), storage.ErrDuplicateKey)
	})

	t.Run("same username", func(t *testing.T) {
		dup := newTestAccount("2")
		dup.Username = "user_1"
		assert.ErrorIs(t, s.CreateAccount(ctx, dup), storage.ErrDuplicateKey)
	})

	t.Run("same email", func(t *testing.T) {
		dup := newTestAccount("3")
		dup.Email = "1@selene.test"
		assert.ErrorIs(t, s.CreateAccount(ctx, dup), storage.ErrDuplicateKey)
	})
}

func TestSq_GetAccountByIdentifier(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))

	for _, identifier := range []string{"user_1", "1@selene.test"} {
		got, err := s.GetAccountByIdentifier(ctx, identifier)
		require.NoError(t, err)
		assert.Equal(t, "1", got.ID)
	}

	_, err := s.GetAccountByIdentifier(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSq_SetAccount(t *testing.T) {
	s := newStorage(t)

	a := newTestAccount("1")
	require.NoError(t, s.SetAccount(ctx, a))

	a.Phone = "+12025550147"
	a.UploadsCount = 5
	require.NoError(t, s.SetAccount(ctx, a))

	got, err := s.GetAccount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "+12025550147", got.Phone)
	assert.EqualValues(t, 5, got.UploadsCount)
}

func TestSq_AccountCounters(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))

	require.NoError(t, s.AddAccountUploads(ctx, "1", 2))
	require.NoError(t, s.AddAccountFollowers(ctx, "1", 1))
	require.NoError(t, s.AddAccountTipsSent(ctx, "1", 150))
	require.NoError(t, s.AddAccountTipsReceived(ctx, "1", 300))

	got, err := s.GetAccount(ctx, "1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.UploadsCount)
	assert.EqualValues(t, 1, got.FollowersCount)
	assert.EqualValues(t, 150, got.TipsSent)
	assert.EqualValues(t, 300, got.TipsReceived)

	// decrements floor at zero
	require.NoError(t, s.AddAccountFollowers(ctx, "1", -5))
	got, err = s.GetAccount(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, got.FollowersCount)

	assert.ErrorIs(t, s.AddAccountUploads(ctx, "unknown", 1), storage.ErrNotFound)
}

func TestSq_CreateUpload(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))

	u := newTestUpload("u1", "1", time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.CreateUpload(ctx, u))

	got, err := s.GetUpload(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u.FileName, got.FileName)
	assert.Equal(t, entities.ImageKind, got.FileKind)
	assert.Equal(t, []string{"tag1", "tag2"}, got.Tags)

	assert.ErrorIs(t, s.CreateUpload(ctx, u), storage.ErrDuplicateKey)
}

func TestSq_UploadCounters(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))
	require.NoError(t, s.CreateUpload(ctx, newTestUpload("u1", "1", time.Now().UTC())))

	require.NoError(t, s.AddUploadLikes(ctx, "u1", 1))
	require.NoError(t, s.AddUploadComments(ctx, "u1", 3))
	require.NoError(t, s.AddUploadViews(ctx, "u1", 10))

	got, err := s.GetUpload(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikesCount)
	assert.EqualValues(t, 3, got.CommentsCount)
	assert.EqualValues(t, 10, got.ViewsCount)

	require.NoError(t, s.AddUploadLikes(ctx, "u1", -2))
	got, err = s.GetUpload(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)

	assert.ErrorIs(t, s.AddUploadLikes(ctx, "unknown", 1), storage.ErrNotFound)
}

func TestSq_UploadCounters_Concurrent(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))
	require.NoError(t, s.CreateUpload(ctx, newTestUpload("u1", "1", time.Now().UTC())))

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			return s.AddUploadLikes(ctx, "u1", 1)
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.GetUpload(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 50, got.LikesCount)
}

// nolint: funlen
func TestSq_ListUploads(t *testing.T) {
	s := newStorage(t)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))
	require.NoError(t, s.CreateAccount(ctx, newTestAccount("2")))

	for i, u := range []*entities.Upload{
		newTestUpload("u1", "1", base.Add(1*time.Hour)),
		newTestUpload("u2", "1", base.Add(2*time.Hour)),
		newTestUpload("u3", "2", base.Add(3*time.Hour)),
		newTestUpload("u4", "2", base.Add(4*time.Hour)),
	} {
		u.LikesCount = uint32(10 - i)
		u.ViewsCount = uint32(i * 100)
		if u.ID == "u3" {
			u.FileKind = entities.VideoKind
		}
		if u.ID == "u2" {
			u.Tags = append(u.Tags, "sunset")
		}
		require.NoError(t, s.CreateUpload(ctx, u))
	}

	require.NoError(t, s.CreateLike(ctx, &entities.Like{
		ID: "l1", UploadID: "u3", OwnerID: "1", OwnerUsername: "user_1", CreatedAt: base,
	}))
	require.NoError(t, s.CreateFollow(ctx, &entities.Follow{
		ID: "f1", FollowerID: "1", FolloweeID: "2", CreatedAt: base,
	}))

	owner1, owner2 := "1", "2"
	video := entities.VideoKind
	tag := "sunset"
	after := "u3"
	from, to := base.Add(90*time.Minute), base.Add(190*time.Minute)

	tt := []struct {
		name string
		p    storage.ListUploadsParams
		ids  []string
	}{
		{
			name: "default newest first",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10},
			ids:  []string{"u4", "u3", "u2", "u1"},
		},
		{
			name: "limit",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 2},
			ids:  []string{"u4", "u3"},
		},
		{
			name: "cursor",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, After: &after},
			ids:  []string{"u2", "u1"},
		},
		{
			name: "by owner",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, Owner: &owner1},
			ids:  []string{"u2", "u1"},
		},
		{
			name: "by kind",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, Kind: &video},
			ids:  []string{"u3"},
		},
		{
			name: "by tag",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, Tag: &tag},
			ids:  []string{"u2"},
		},
		{
			name: "liked by",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, LikedBy: &owner1},
			ids:  []string{"u3"},
		},
		{
			name: "followed by",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, FollowedBy: &owner1},
			ids:  []string{"u4", "u3"},
		},
		{
			name: "time window",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, From: &from, To: &to},
			ids:  []string{"u3", "u2"},
		},
		{
			name: "sort by likes asc",
			p:    storage.ListUploadsParams{SortBy: storage.LikesSortType, OrderBy: storage.AscendingOrder, Limit: 10},
			ids:  []string{"u4", "u3", "u2", "u1"},
		},
		{
			name: "sort by views desc",
			p:    storage.ListUploadsParams{SortBy: storage.ViewsSortType, OrderBy: storage.DescendingOrder, Limit: 10},
			ids:  []string{"u4", "u3", "u2", "u1"},
		},
		{
			name: "owner without uploads filtered by kind",
			p:    storage.ListUploadsParams{SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10, Owner: &owner2, Kind: &video},
			ids:  []string{"u3"},
		},
	}

	for _, tc := range tt {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ListUploads(ctx, &tc.p)
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, u := range got {
				ids[i] = u.ID
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestSq_DeleteUpload(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))
	require.NoError(t, s.CreateUpload(ctx, newTestUpload("u1", "1", time.Now().UTC())))
	require.NoError(t, s.CreateAsset(ctx, &entities.Asset{
		ID: "a1", UploadID: "u1", FileKind: entities.ImageKind, FileSize: 3,
		Data: []byte{1, 2, 3}, CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, s.DeleteUpload(ctx, "u1"))
	require.NoError(t, s.DeleteAssetByUpload(ctx, "u1"))

	_, err := s.GetUpload(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetAssetByUpload(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DeleteUpload(ctx, "u1"), storage.ErrNotFound)
}

func TestSq_Assets(t *testing.T) {
	s := newStorage(t)

	a := &entities.Asset{
		ID: "a1", UploadID: "u1", FileKind: entities.VideoKind, FileSize: 4,
		Data: []byte("blob"), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateAsset(ctx, a))

	got, err := s.GetAsset(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got.Data)

	got, err = s.GetAssetByUpload(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	all, err := s.ListAssets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSq_Comments(t *testing.T) {
	s := newStorage(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateComment(ctx, &entities.Comment{
			ID:            fmt.Sprintf("c%d", i),
			UploadID:      "u1",
			OwnerID:       "1",
			OwnerUsername: "user_1",
			Text:          "hi",
			CreatedAt:     time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, s.CreateComment(ctx, &entities.Comment{
		ID: "c9", UploadID: "u2", OwnerID: "2", OwnerUsername: "user_2", Text: "yo",
		CreatedAt: time.Now().UTC(),
	}))

	byUpload, err := s.ListCommentsByUpload(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUpload, 3)

	byAccount, err := s.ListCommentsByAccount(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, byAccount, 1)

	all, err := s.ListComments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSq_Likes(t *testing.T) {
	s := newStorage(t)

	l := &entities.Like{ID: "l1", UploadID: "u1", OwnerID: "1", OwnerUsername: "user_1", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateLike(ctx, l))

	dup := &entities.Like{ID: "l2", UploadID: "u1", OwnerID: "1", OwnerUsername: "user_1", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, s.CreateLike(ctx, dup), storage.ErrDuplicateKey)

	got, err := s.GetLike(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, "l1", got.ID)

	require.NoError(t, s.DeleteLike(ctx, "u1", "1"))
	_, err = s.GetLike(ctx, "u1", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteLike(ctx, "u1", "1"), storage.ErrNotFound)
}

func TestSq_Tips(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateTip(ctx, &entities.Tip{
		ID: "t1", UploadID: "u1", SenderID: "1", ReceiverID: "2", Amount: 100,
		Message: "nice", CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, s.CreateTip(ctx, &entities.Tip{
		ID: "t2", UploadID: "u2", SenderID: "2", ReceiverID: "1", Amount: 50,
		CreatedAt: time.Now().UTC(),
	}))

	bySender, err := s.ListTipsBySender(ctx, "1")
	require.NoError(t, err)
	require.Len(t, bySender, 1)
	assert.EqualValues(t, 100, bySender[0].Amount)

	byReceiver, err := s.ListTipsByReceiver(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, byReceiver, 1)

	byUpload, err := s.ListTipsByUpload(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, byUpload, 1)
}

func TestSq_Follows(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateFollow(ctx, &entities.Follow{
		ID: "f1", FollowerID: "1", FolloweeID: "2", CreatedAt: time.Now().UTC(),
	}))

	assert.ErrorIs(t, s.CreateFollow(ctx, &entities.Follow{
		ID: "f2", FollowerID: "1", FolloweeID: "2", CreatedAt: time.Now().UTC(),
	}), storage.ErrDuplicateKey)

	got, err := s.GetFollow(ctx, "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)

	_, err = s.GetFollow(ctx, "2", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	following, err := s.ListFollowing(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, following, 1)

	followers, err := s.ListFollowers(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	require.NoError(t, s.DeleteFollow(ctx, "1", "2"))
	assert.ErrorIs(t, s.DeleteFollow(ctx, "1", "2"), storage.ErrNotFound)
}

func TestSq_Sessions(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateSession(ctx, &entities.Session{ID: "s1", AccountID: "1", CreatedAt: time.Now().UTC()}))
	require.NoError(t, s.CreateSession(ctx, &entities.Session{ID: "s2", AccountID: "1", CreatedAt: time.Now().UTC()}))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.AccountID)

	require.NoError(t, s.DeleteSession(ctx, "s1"))
	_, err = s.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteAccountSessions(ctx, "1"))
	_, err = s.GetSession(ctx, "s2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSq_InTx(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.InTx(ctx, func(tx storage.Storage) error {
		require.NoError(t, tx.CreateAccount(ctx, newTestAccount("1")))
		return tx.CreateUpload(ctx, newTestUpload("u1", "1", time.Now().UTC()))
	}))

	_, err := s.GetUpload(ctx, "u1")
	require.NoError(t, err)

	t.Run("rollback on error", func(t *testing.T) {
		wantErr := fmt.Errorf("boom")

		err := s.InTx(ctx, func(tx storage.Storage) error {
			require.NoError(t, tx.CreateAccount(ctx, newTestAccount("2")))
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		_, err = s.GetAccount(ctx, "2")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("nested", func(t *testing.T) {
		err := s.InTx(ctx, func(tx storage.Storage) error {
			return tx.InTx(ctx, func(storage.Storage) error { return nil })
		})
		assert.Error(t, err)
	})
}

func TestSq_ClearAll(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.CreateAccount(ctx, newTestAccount("1")))
	require.NoError(t, s.CreateUpload(ctx, newTestUpload("u1", "1", time.Now().UTC())))
	require.NoError(t, s.CreateLike(ctx, &entities.Like{
		ID: "l1", UploadID: "u1", OwnerID: "1", OwnerUsername: "user_1", CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, s.CreateSession(ctx, &entities.Session{ID: "s1", AccountID: "1", CreatedAt: time.Now().UTC()}))

	require.NoError(t, s.ClearAll(ctx))

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	uploads, err := s.ListUploads(ctx, &storage.ListUploadsParams{
		SortBy: storage.CreatedAtSortType, OrderBy: storage.DescendingOrder, Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, uploads)

	likes, err := s.ListLikes(ctx)
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestSq_Ping(t *testing.T) {
	s := newStorage(t)
	assert.NoError(t, s.Ping(ctx))
}

func TestSq_ClosedDatabase(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, migrations.Up(db))

	s := New(db)
	require.NoError(t, db.Close())

	assert.ErrorIs(t, s.Ping(ctx), storage.ErrUnavailable)

	err = s.CreateAccount(ctx, newTestAccount("1"))
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, err = s.GetAccount(ctx, "1")
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	_, err = s.ListAccounts(ctx)
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	err = s.InTx(ctx, func(tx storage.Storage) error { return nil })
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}
