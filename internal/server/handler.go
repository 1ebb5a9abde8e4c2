package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/nocturna-net/selene/internal/entities"
	"github.com/nocturna-net/selene/internal/service"
	"github.com/nocturna-net/selene/internal/storage"
)

var errInvalidRequest = errors.New("invalid request")

func (s server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required", "invalid_request")
		return
	}

	a, err := s.s.CreateAccount(r.Context(), service.CreateAccountParams{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create account")
		return
	}

	writeOK(w, http.StatusCreated, newProfileResponse(a))
}

func (s server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	a, sess, err := s.s.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, err, "failed to authenticate")
		return
	}

	writeOK(w, http.StatusOK, LoginResponse{
		Account: newProfileResponse(a),
		Session: sess,
	})
}

func (s server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.s.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeServiceError(w, err, "failed to end session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) getAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.s.GetAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, err, "failed to get account")
		return
	}

	writeOK(w, http.StatusOK, newProfileResponse(a))
}

func (s server) getAccountMetrics(w http.ResponseWriter, r *http.Request) {
	a, err := s.s.GetAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, err, "failed to get account")
		return
	}

	writeOK(w, http.StatusOK, s.metrics.AccountMetrics(a))
}

func (s server) getPlatformMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := s.s.ExportAll(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to export")
		return
	}

	writeOK(w, http.StatusOK, s.metrics.PlatformMetrics(snap))
}

func (s server) toggleFollow(w http.ResponseWriter, r *http.Request) {
	var req ToggleFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	following, err := s.s.ToggleFollow(r.Context(), req.FollowerID, chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, err, "failed to toggle follow")
		return
	}

	writeOK(w, http.StatusOK, ToggleFollowResponse{Following: following})
}

func (s server) isFollowing(w http.ResponseWriter, r *http.Request) {
	follower := r.URL.Query().Get("followerId")
	if follower == "" {
		writeError(w, http.StatusBadRequest, "followerId is required", "invalid_request")
		return
	}

	following, err := s.s.IsFollowing(r.Context(), follower, chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, err, "failed to get follow")
		return
	}

	writeOK(w, http.StatusOK, ToggleFollowResponse{Following: following})
}

func (s server) listFeed(w http.ResponseWriter, r *http.Request) {
	params, err := extractFeedParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	uu, err := s.s.ListFeed(r.Context(), params)
	if err != nil {
		writeServiceError(w, err, "failed to list feed")
		return
	}

	writeOK(w, http.StatusOK, ListFeedResponse{Uploads: uu})
}

func (s server) createUpload(w http.ResponseWriter, r *http.Request) {
	var req CreateUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	kind := entities.FileKind(req.FileKind)
	if kind != entities.ImageKind && kind != entities.VideoKind {
		writeError(w, http.StatusBadRequest, "fileKind must be image or video", "invalid_request")
		return
	}

	if req.OwnerID == "" || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "ownerId and fileName are required", "invalid_request")
		return
	}

	u, err := s.s.CreateUpload(r.Context(), service.CreateUploadParams{
		OwnerID:  req.OwnerID,
		FileName: req.FileName,
		FileKind: kind,
		Caption:  req.Caption,
		Tags:     req.Tags,
		Data:     req.Data,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create upload")
		return
	}

	writeOK(w, http.StatusCreated, u)
}

func (s server) getUpload(w http.ResponseWriter, r *http.Request) {
	u, err := s.s.GetUpload(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		writeServiceError(w, err, "failed to get upload")
		return
	}

	writeOK(w, http.StatusOK, u)
}

func (s server) deleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.s.DeleteUpload(r.Context(), chi.URLParam(r, "uploadID")); err != nil {
		writeServiceError(w, err, "failed to delete upload")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) getUploadAsset(w http.ResponseWriter, r *http.Request) {
	a, err := s.s.GetUploadAsset(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		writeServiceError(w, err, "failed to get asset")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(a.FileSize, 10))
	_, _ = w.Write(a.Data)
}

func (s server) registerView(w http.ResponseWriter, r *http.Request) {
	views, err := s.s.RegisterView(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		writeServiceError(w, err, "failed to register view")
		return
	}

	writeOK(w, http.StatusOK, RegisterViewResponse{Views: views})
}

func (s server) toggleLike(w http.ResponseWriter, r *http.Request) {
	var req ToggleLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	state, err := s.s.ToggleLike(r.Context(), chi.URLParam(r, "uploadID"), req.AccountID)
	if err != nil {
		writeServiceError(w, err, "failed to toggle like")
		return
	}

	writeOK(w, http.StatusOK, state)
}

func (s server) postComment(w http.ResponseWriter, r *http.Request) {
	var req PostCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	c, err := s.s.PostComment(r.Context(), chi.URLParam(r, "uploadID"), req.AccountID, req.Text)
	if err != nil {
		writeServiceError(w, err, "failed to post comment")
		return
	}

	writeOK(w, http.StatusCreated, c)
}

func (s server) listComments(w http.ResponseWriter, r *http.Request) {
	cc, err := s.s.ListComments(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		writeServiceError(w, err, "failed to list comments")
		return
	}

	writeOK(w, http.StatusOK, ListCommentsResponse{Comments: cc})
}

func (s server) sendTip(w http.ResponseWriter, r *http.Request) {
	var req SendTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	t, err := s.s.SendTip(r.Context(), service.SendTipParams{
		UploadID: chi.URLParam(r, "uploadID"),
		SenderID: req.SenderID,
		Amount:   req.Amount,
		Message:  req.Message,
	})
	if err != nil {
		writeServiceError(w, err, "failed to send tip")
		return
	}

	writeOK(w, http.StatusCreated, t)
}

func (s server) exportAll(w http.ResponseWriter, r *http.Request) {
	snap, err := s.s.ExportAll(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to export")
		return
	}

	writeOK(w, http.StatusOK, snap)
}

func (s server) importLegacy(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode body", "invalid_request")
		return
	}

	report, err := s.s.ImportLegacy(r.Context(), req.Records)
	if err != nil {
		writeServiceError(w, err, "failed to import")
		return
	}

	writeOK(w, http.StatusOK, report)
}

func (s server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.s.ClearAll(r.Context()); err != nil {
		writeServiceError(w, err, "failed to reset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service sentinels to statuses and
// machine-readable codes. Anything unrecognized is a 500 whose detail
// stays in the log.
func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "not_found")
	case errors.Is(err, service.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "already exists", "duplicate_key")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials", "invalid_credentials")
	case errors.Is(err, service.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be positive", "invalid_amount")
	case errors.Is(err, service.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "insufficient balance", "insufficient_balance")
	case errors.Is(err, service.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, "can not follow self", "self_follow")
	case errors.Is(err, service.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "text is required", "empty_text")
	case errors.Is(err, service.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", "storage_unavailable")
	default:
		writeInternalError(w, fmt.Sprintf("%s: %s", message, err))
	}
}

// nolint: gocyclo
func extractFeedParamsFromQuery(q url.Values) (*storage.ListUploadsParams, error) {
	out := storage.ListUploadsParams{
		SortBy:  storage.CreatedAtSortType,
		OrderBy: storage.DescendingOrder,
		Limit:   defaultLimit,
	}

	if s := q.Get("sortBy"); s != "" {
		switch storage.SortType(s) {
		case storage.CreatedAtSortType, storage.LikesSortType, storage.ViewsSortType:
			out.SortBy = storage.SortType(s)
		default:
			return nil, fmt.Errorf("%w: invalid sortBy", errInvalidRequest)
		}
	}

	if s := q.Get("orderBy"); s != "" {
		switch storage.OrderType(s) {
		case storage.AscendingOrder, storage.DescendingOrder:
			out.OrderBy = storage.OrderType(s)
		default:
			return nil, fmt.Errorf("%w: invalid orderBy", errInvalidRequest)
		}
	}

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 16)
		if err != nil || limit == 0 || limit > maxLimit {
			return nil, fmt.Errorf("%w: invalid limit", errInvalidRequest)
		}
		out.Limit = uint16(limit)
	}

	if s := q.Get("owner"); s != "" {
		out.Owner = &s
	}

	if s := q.Get("kind"); s != "" {
		kind := entities.FileKind(s)
		if kind != entities.ImageKind && kind != entities.VideoKind {
			return nil, fmt.Errorf("%w: invalid kind", errInvalidRequest)
		}
		out.Kind = &kind
	}

	if s := q.Get("tag"); s != "" {
		out.Tag = &s
	}

	if s := q.Get("likedBy"); s != "" {
		out.LikedBy = &s
	}

	if s := q.Get("followedBy"); s != "" {
		out.FollowedBy = &s
	}

	if s := q.Get("after"); s != "" {
		out.After = &s
	}

	if s := q.Get("from"); s != "" {
		from, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from", errInvalidRequest)
		}
		t := time.Unix(from, 0).UTC()
		out.From = &t
	}

	if s := q.Get("to"); s != "" {
		to, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to", errInvalidRequest)
		}
		t := time.Unix(to, 0).UTC()
		out.To = &t
	}

	return &out, nil
}
