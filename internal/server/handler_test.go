package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/metrics"
	"github.com/nocturna-net/selene/internal/service"
	"github.com/nocturna-net/selene/internal/service/mock"
	"github.com/nocturna-net/selene/internal/storage"
)

func Test_listFeed(t *testing.T) {
	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	query := "sortBy=likes&orderBy=asc&limit=50&owner=a1&kind=image&tag=sunset&likedBy=a2&followedBy=a3&after=u9&from=1&to=1000"

	r, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/v1/feed?%s", query), nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().ListFeed(gomock.Any(), gomock.Any()).Do(func(_ context.Context, p *storage.ListUploadsParams) {
		assert.Equal(t, storage.LikesSortType, p.SortBy)
		assert.Equal(t, storage.AscendingOrder, p.OrderBy)
		assert.EqualValues(t, 50, p.Limit)
		assert.Equal(t, "a1", *p.Owner)
		assert.Equal(t, entities.ImageKind, *p.Kind)
		assert.Equal(t, "sunset", *p.Tag)
		assert.Equal(t, "a2", *p.LikedBy)
		assert.Equal(t, "a3", *p.FollowedBy)
		assert.Equal(t, "u9", *p.After)
		assert.Equal(t, time.Unix(1, 0).UTC(), *p.From)
		assert.Equal(t, time.Unix(1000, 0).UTC(), *p.To)
	}).Return([]*entities.Upload{
		{
			ID:            "u1",
			OwnerID:       "a1",
			OwnerUsername: "nova",
			FileName:      "sunset.jpg",
			FileKind:      entities.ImageKind,
			FileSize:      10,
			Tags:          []string{"sunset"},
			Status:        "completed",
			CreatedAt:     timestamp,
			LikesCount:    1,
			AssetID:       "as1",
		},
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Get("/v1/feed", s.listFeed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `
{
	"uploads": [
		{
			"id": "u1",
			"ownerId": "a1",
			"ownerUsername": "nova",
			"fileName": "sunset.jpg",
			"fileKind": "image",
			"fileSize": 10,
			"tags": ["sunset"],
			"status": "completed",
			"createdAt": "2024-05-01T12:00:00Z",
			"likesCount": 1,
			"commentsCount": 0,
			"tipsCount": 0,
			"viewsCount": 0,
			"assetId": "as1"
		}
	]
}
	`, w.Body.String())
}

func Test_listFeed_invalidQuery(t *testing.T) {
	tt := []string{
		"sortBy=color",
		"orderBy=sideways",
		"limit=0",
		"limit=101",
		"kind=audio",
		"from=yesterday",
	}

	for _, query := range tt {
		query := query
		t.Run(query, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/v1/feed?%s", query), nil)
			require.NoError(t, err)

			router := chi.NewRouter()
			s := server{}
			router.Get("/v1/feed", s.listFeed)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func Test_createAccount(t *testing.T) {
	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	body := `{"username":"nova","email":"nova@selene.test","password":"s3cret"}`

	r, err := http.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewBufferString(body))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().CreateAccount(gomock.Any(), service.CreateAccountParams{
		Username: "nova",
		Email:    "nova@selene.test",
		Password: "s3cret",
	}).Return(&entities.Account{
		ID:           "a1",
		Username:     "nova",
		Email:        "nova@selene.test",
		PasswordHash: "$argon2id$never-shown",
		Status:       entities.AccountActive,
		CreatedAt:    timestamp,
		LastActiveAt: timestamp,
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Post("/v1/accounts", s.createAccount)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "argon2id")
	assert.JSONEq(t, `
{
	"id": "a1",
	"username": "nova",
	"email": "nova@selene.test",
	"status": "active",
	"createdAt": "2024-05-01T12:00:00Z",
	"lastActiveAt": "2024-05-01T12:00:00Z",
	"uploadsCount": 0,
	"followersCount": 0,
	"followingCount": 0,
	"tipsSent": 0,
	"tipsReceived": 0
}
	`, w.Body.String())
}

func Test_createAccount_errors(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewBufferString(`{"username":"nova"}`))
		require.NoError(t, err)

		router := chi.NewRouter()
		s := server{}
		router.Post("/v1/accounts", s.createAccount)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate", func(t *testing.T) {
		body := `{"username":"nova","email":"nova@selene.test","password":"s3cret"}`
		r, err := http.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewBufferString(body))
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		svc := mock.NewMockService(ctrl)

		svc.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil, service.ErrDuplicateKey)

		router := chi.NewRouter()
		s := server{s: svc}
		router.Post("/v1/accounts", s.createAccount)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"already exists","code":"duplicate_key"}`, w.Body.String())
	})
}

func Test_login(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/v1/sessions",
		bytes.NewBufferString(`{"identifier":"nova","password":"wrong"}`))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().Authenticate(gomock.Any(), "nova", "wrong").Return(nil, nil, service.ErrInvalidCredentials)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Post("/v1/sessions", s.login)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials","code":"invalid_credentials"}`, w.Body.String())
}

func Test_getUpload_notFound(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/v1/uploads/ghost", nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().GetUpload(gomock.Any(), "ghost").Return(nil, service.ErrNotFound)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Get("/v1/uploads/{uploadID}", s.getUpload)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found","code":"not_found"}`, w.Body.String())
}

func Test_toggleLike(t *testing.T) {
	r, err := http.NewRequest(http.MethodPut, "/v1/uploads/u1/like",
		bytes.NewBufferString(`{"accountId":"a1"}`))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().ToggleLike(gomock.Any(), "u1", "a1").Return(&service.LikeState{
		Liked:      true,
		LikesCount: 5,
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Put("/v1/uploads/{uploadID}/like", s.toggleLike)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"likesCount":5}`, w.Body.String())
}

func Test_sendTip_insufficientBalance(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/v1/uploads/u1/tips",
		bytes.NewBufferString(`{"senderId":"a1","amount":100500}`))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().SendTip(gomock.Any(), service.SendTipParams{
		UploadID: "u1",
		SenderID: "a1",
		Amount:   100500,
	}).Return(nil, service.ErrInsufficientBalance)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Post("/v1/uploads/{uploadID}/tips", s.sendTip)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"insufficient balance","code":"insufficient_balance"}`, w.Body.String())
}

func Test_toggleFollow_selfFollow(t *testing.T) {
	r, err := http.NewRequest(http.MethodPut, "/v1/accounts/a1/follow",
		bytes.NewBufferString(`{"followerId":"a1"}`))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().ToggleFollow(gomock.Any(), "a1", "a1").Return(false, service.ErrSelfFollow)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Put("/v1/accounts/{accountID}/follow", s.toggleFollow)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"can not follow self","code":"self_follow"}`, w.Body.String())
}

func Test_getUploadAsset(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/v1/uploads/u1/asset", nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().GetUploadAsset(gomock.Any(), "u1").Return(&entities.Asset{
		ID:       "as1",
		UploadID: "u1",
		FileKind: entities.ImageKind,
		FileSize: 4,
		Data:     []byte("jpeg"),
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Get("/v1/uploads/{uploadID}/asset", s.getUploadAsset)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("jpeg"), w.Body.Bytes())
}

func Test_registerView(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/v1/uploads/u1/views", nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().RegisterView(gomock.Any(), "u1").Return(uint32(7), nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Post("/v1/uploads/{uploadID}/views", s.registerView)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"views":7}`, w.Body.String())
}

func Test_importLegacy(t *testing.T) {
	body := `{"records":[{"type":"user","username":"nova"},{"bad":"record"}]}`

	r, err := http.NewRequest(http.MethodPost, "/v1/import", bytes.NewBufferString(body))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().ImportLegacy(gomock.Any(), gomock.Any()).Return(&service.ImportReport{
		Imported: 1,
		Skipped:  1,
		Errors:   []string{"record 1: unrecognized record shape"},
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc}
	router.Post("/v1/import", s.importLegacy)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"imported":1,"skipped":1,"errors":["record 1: unrecognized record shape"]}`, w.Body.String())
}

func Test_getAccountMetrics(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/v1/accounts/a1/metrics", nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().GetAccount(gomock.Any(), "a1").Return(&entities.Account{
		ID:             "a1",
		Username:       "nova",
		FollowersCount: 10,
		TipsReceived:   500,
	}, nil)

	router := chi.NewRouter()
	s := server{s: svc, metrics: metrics.NewSimulated(42)}
	router.Get("/v1/accounts/{accountID}/metrics", s.getAccountMetrics)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accountId":"a1"`)
	assert.Contains(t, w.Body.String(), `"tipsReceived":500`)
}

func Test_health(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := chi.NewRouter()
	SetupRouter(mock.NewMockService(ctrl), metrics.NewSimulated(1), router, time.Minute)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
