package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// BookmarkStoreInterface はブックマークハンドラーが必要とするストアのインターフェース。
type BookmarkStoreInterface interface {
	// Upsert は求人のスナップショットをブックマークとして冪等に保存する。
	Upsert(ctx context.Context, job *model.Job) error
	// Remove は指定job_idのブックマークを冪等に削除する。
	Remove(ctx context.Context, jobID string) error
	// Exists は指定job_idがブックマーク済みかを返す。読み取り失敗時はfalse。
	Exists(ctx context.Context, jobID string) bool
	// ListAll は保存済みブックマークを新しい順で返す。読み取り失敗時は空スライス。
	ListAll(ctx context.Context) []*model.Bookmark
	// ClearAll は全ブックマークを削除する。
	ClearAll(ctx context.Context) error
	// Count は保存済みブックマーク数を返す。読み取り失敗時は0。
	Count(ctx context.Context) int
}

// BookmarkHandler はブックマーク管理のHTTPハンドラー。
type BookmarkHandler struct {
	store BookmarkStoreInterface
}

// NewBookmarkHandler はBookmarkHandlerを生成する。
func NewBookmarkHandler(store BookmarkStoreInterface) *BookmarkHandler {
	return &BookmarkHandler{store: store}
}

// --- リクエスト・レスポンス型 ---

// bookmarkRequest はブックマーク保存リクエストのボディ。
// ブックマーク対象の求人のスナップショットをクライアントがそのまま送る。
type bookmarkRequest struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	SalaryMin   int    `json:"salary_min"`
	SalaryMax   int    `json:"salary_max"`
	Phone       string `json:"phone"`
	JobType     string `json:"job_type"`
	Description string `json:"description"`
}

// bookmarkResponse はブックマーク1件のレスポンス。
type bookmarkResponse struct {
	JobID       string    `json:"job_id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	SalaryMin   int       `json:"salary_min"`
	SalaryMax   int       `json:"salary_max"`
	Phone       string    `json:"phone"`
	JobType     string    `json:"job_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// bookmarkListResponse はブックマーク一覧のレスポンス。
type bookmarkListResponse struct {
	Bookmarks []bookmarkResponse `json:"bookmarks"`
	Count     int                `json:"count"`
}

// membershipResponse はブックマーク済み判定のレスポンス。
type membershipResponse struct {
	JobID      string `json:"job_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// countResponse はブックマーク件数のレスポンス。
type countResponse struct {
	Count int `json:"count"`
}

// SaveBookmark は求人のスナップショットをブックマークとして保存する。
// PUT /api/bookmarks/:jobID
//
// 同一job_idへの再保存はスナップショット全体を置き換える（マージしない）。
// 冪等のため、既に保存済みでも200を返す。
func (h *BookmarkHandler) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	job := &model.Job{
		ID:          jobID,
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Phone:       req.Phone,
		JobType:     req.JobType,
		Description: req.Description,
	}

	if err := h.store.Upsert(r.Context(), job); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(membershipResponse{
		JobID:      jobID,
		Bookmarked: true,
	})
}

// RemoveBookmark は指定求人のブックマークを削除する。
// DELETE /api/bookmarks/:jobID
//
// 冪等のため、存在しないjob_idでも204を返す。
func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if err := h.store.Remove(r.Context(), jobID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMembership は指定求人のブックマーク済み判定を返す。
// GET /api/bookmarks/:jobID
func (h *BookmarkHandler) GetMembership(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(membershipResponse{
		JobID:      jobID,
		Bookmarked: h.store.Exists(r.Context(), jobID),
	})
}

// ListBookmarks は保存済みブックマークを新しい順で返す。
// GET /api/bookmarks
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks := h.store.ListAll(r.Context())

	results := make([]bookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		results[i] = toBookmarkResponse(b)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookmarkListResponse{
		Bookmarks: results,
		Count:     len(results),
	})
}

// CountBookmarks は保存済みブックマーク数を返す。
// GET /api/bookmarks/count
func (h *BookmarkHandler) CountBookmarks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(countResponse{
		Count: h.store.Count(r.Context()),
	})
}

// ClearBookmarks は全ブックマークを削除する。
// DELETE /api/bookmarks
func (h *BookmarkHandler) ClearBookmarks(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toBookmarkResponse はドメインのBookmarkをレスポンス型に変換する。
func toBookmarkResponse(b *model.Bookmark) bookmarkResponse {
	return bookmarkResponse{
		JobID:       b.JobID,
		Title:       b.Title,
		CompanyName: b.CompanyName,
		Location:    b.Location,
		SalaryMin:   b.SalaryMin,
		SalaryMax:   b.SalaryMax,
		Phone:       b.Phone,
		JobType:     b.JobType,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}
