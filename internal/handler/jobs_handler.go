// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/thumuvivek2003/getLokalApp/internal/deeplink"
	"github.com/thumuvivek2003/getLokalApp/internal/feedapi"
	"github.com/thumuvivek2003/getLokalApp/internal/membership"
	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// FeedClientInterface は求人ハンドラーが必要とするフィードクライアントのインターフェース。
type FeedClientInterface interface {
	// FetchPage は指定ページの求人一覧を1回の試行で取得する。
	FetchPage(ctx context.Context, page int) (*feedapi.Page, error)
}

// MembershipCacheInterface はブックマーク済み判定の派生キャッシュのインターフェース。
type MembershipCacheInterface interface {
	// Recompute は与えられた求人一覧に対して集合を全再計算し、
	// 呼び出し元専用のスナップショットを返す。
	Recompute(ctx context.Context, jobs []model.Job) membership.Set
}

// JobsHandler は求人フィードのHTTPハンドラー。
type JobsHandler struct {
	client FeedClientInterface
	cache  MembershipCacheInterface
}

// NewJobsHandler はJobsHandlerを生成する。
func NewJobsHandler(client FeedClientInterface, cache MembershipCacheInterface) *JobsHandler {
	return &JobsHandler{
		client: client,
		cache:  cache,
	}
}

// --- レスポンス型 ---

// jobResponse は求人1件のレスポンス。
type jobResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	CompanyName      string     `json:"company_name"`
	Location         string     `json:"location"`
	SalaryMin        int        `json:"salary_min"`
	SalaryMax        int        `json:"salary_max"`
	JobType          string     `json:"job_type"`
	Experience       string     `json:"experience"`
	Qualification    string     `json:"qualification"`
	Category         string     `json:"category"`
	Phone            string     `json:"phone"`
	Description      string     `json:"description"`
	Tags             []string   `json:"tags"`
	ApplicationCount int        `json:"application_count"`
	ViewCount        int        `json:"view_count"`
	OpeningsCount    int        `json:"openings_count"`
	IsPremium        bool       `json:"is_premium"`
	UpdatedOn        *time.Time `json:"updated_on,omitempty"`

	// Bookmarked はローカルのブックマーク保存状態。
	Bookmarked bool `json:"bookmarked"`

	// 連絡用ディープリンク。連絡先が無い場合は空文字列。
	WhatsappURL string `json:"whatsapp_url,omitempty"`
	TelURL      string `json:"tel_url,omitempty"`
}

// jobListResponse は求人一覧のレスポンス。
type jobListResponse struct {
	Page    int           `json:"page"`
	Jobs    []jobResponse `json:"jobs"`
	HasMore bool          `json:"has_more"`
}

// ListJobs は求人フィードの指定ページを取得する。
// GET /api/jobs?page=N
//
// 各求人にはブックマーク済みフラグと連絡用ディープリンクを付与する。
// 空ページはフィードの終端を意味し、has_more=falseで返す。
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     "INVALID_PAGE",
				Message:  "ページ番号は1以上の整数で指定してください。",
				Category: "validation",
				Action:   "ページ番号を確認して再度お試しください。",
			})
			return
		}
		page = parsed
	}

	result, err := h.client.FetchPage(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// ブックマーク済み判定はページ全体に対して一括で再計算する。
	// 並行リクエストの再計算に影響されないよう、このリクエスト専用の
	// スナップショットから判定する。
	bookmarked := h.cache.Recompute(r.Context(), result.Jobs)

	jobs := make([]jobResponse, len(result.Jobs))
	for i := range result.Jobs {
		jobs[i] = toJobResponse(&result.Jobs[i], bookmarked.Contains(result.Jobs[i].ID))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobListResponse{
		Page:    result.Number,
		Jobs:    jobs,
		HasMore: len(result.Jobs) > 0,
	})
}

// toJobResponse はドメインのJobをレスポンス型に変換する。
func toJobResponse(job *model.Job, bookmarked bool) jobResponse {
	resp := jobResponse{
		ID:               job.ID,
		Title:            job.Title,
		CompanyName:      job.CompanyName,
		Location:         job.Location,
		SalaryMin:        job.SalaryMin,
		SalaryMax:        job.SalaryMax,
		JobType:          job.JobType,
		Experience:       job.Experience,
		Qualification:    job.Qualification,
		Category:         job.Category,
		Phone:            job.ContactPhone(),
		Description:      job.Description,
		Tags:             job.Tags,
		ApplicationCount: job.ApplicationCount,
		ViewCount:        job.ViewCount,
		OpeningsCount:    job.OpeningsCount,
		IsPremium:        job.IsPremium,
		UpdatedOn:        job.UpdatedOn,
		Bookmarked:       bookmarked,
	}

	// ディープリンクは連絡先が無い求人では省略する
	if url, err := deeplink.WhatsAppURL(job.ContactPhone()); err == nil {
		resp.WhatsappURL = url
	}
	if url, err := deeplink.TelURL(job.Phone); err == nil {
		resp.TelURL = url
	}

	return resp
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// apiErrorResponse は統一エラーレスポンスのJSON表現。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidJobID, "INVALID_PAGE":
		return http.StatusBadRequest
	case model.ErrCodeStorageUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeStorageWriteFailed:
		return http.StatusInternalServerError
	case model.ErrCodeNetworkError, model.ErrCodeDecodeError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 型アサーション: membership.CacheがMembershipCacheInterfaceを満たすことを保証
var _ MembershipCacheInterface = (*membership.Cache)(nil)
