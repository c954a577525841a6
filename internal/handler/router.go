package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thumuvivek2003/getLokalApp/internal/middleware"
)

// HealthChecker はヘルスチェックが必要とする依存のインターフェース。
type HealthChecker interface {
	// PingContext はストレージへの到達性を確認する。
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 求人フィード
	FeedClient      FeedClientInterface
	MembershipCache MembershipCacheInterface

	// ブックマーク
	BookmarkStore BookmarkStoreInterface

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → RequestID → CORS → Logging → RateLimit
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	jobsHandler := NewJobsHandler(deps.FeedClient, deps.MembershipCache)
	bookmarkHandler := NewBookmarkHandler(deps.BookmarkStore)

	// --- 運用ルート（レート制限なし） ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())

		// 求人フィード
		r.Get("/api/jobs", jobsHandler.ListJobs)

		// ブックマーク管理
		r.Route("/api/bookmarks", func(r chi.Router) {
			r.Get("/", bookmarkHandler.ListBookmarks)
			r.Delete("/", bookmarkHandler.ClearBookmarks)
			r.Get("/count", bookmarkHandler.CountBookmarks)

			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", bookmarkHandler.GetMembership)
				r.Put("/", bookmarkHandler.SaveBookmark)
				r.Delete("/", bookmarkHandler.RemoveBookmark)
			})
		})
	})

	return r
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status string `json:"status"`
}

// newHealthHandler はストレージ到達性を確認するヘルスチェックハンドラーを返す。
// ストレージに到達できない場合でもフィード閲覧は継続できるため、
// statusはdegradedとし503は返さない。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(healthResponse{Status: status})
	}
}
