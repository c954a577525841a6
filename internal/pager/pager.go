// Package pager は1ページ単位のフィードクライアントを、累積的に伸びる
// 更新可能な求人リストへ変換するコントローラを提供する。
//
// 状態は画面セッション単位のインメモリ保持で、永続化しない。
// Pagerインスタンスごとに同時に実行できるフェッチは1つだけであり、
// フェッチ実行中に呼ばれたLoadMore/Refreshはキューイングもエラーにも
// ならず黙って無視される（スクロールコールバックがネットワーク往復より
// 速く発火しても、同一ページの二重取得は発生しない）。
package pager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/thumuvivek2003/getLokalApp/internal/feedapi"
	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// FeedClient は1ページ分の求人を取得するクライアントのインターフェース。
type FeedClient interface {
	// FetchPage は指定ページの求人一覧を取得する。
	FetchPage(ctx context.Context, page int) (*feedapi.Page, error)
}

// Pager はフィードのページング状態を管理するコントローラ。
type Pager struct {
	client FeedClient
	logger *slog.Logger

	mu         sync.Mutex
	inFlight   bool
	jobs       []model.Job
	page       int // 取得済みの最終ページ番号。未取得なら0
	hasMore    bool
	loading    bool
	refreshing bool
	lastErr    error
}

// Snapshot はPagerの状態のある時点のコピーを表す。
type Snapshot struct {
	Jobs       []model.Job
	Page       int
	HasMore    bool
	Loading    bool
	Refreshing bool
	Err        error
}

// NewPager はPagerを生成する。初期状態ではリストは空で、hasMoreはtrue。
func NewPager(client FeedClient, logger *slog.Logger) *Pager {
	return &Pager{
		client:  client,
		logger:  logger,
		hasMore: true,
	}
}

// LoadMore は次のページを取得して累積リストの末尾に追加する。
// フェッチが既に実行中、またはフィード終端に達している場合は何もしない。
// 成功時はページカウンタを進め、取得結果が空だった場合のみhasMoreをfalseにする
// （空ページがフィード終端の唯一のシグナル）。
// 失敗時はエラーを記録して返すが、取得済みのリストはそのまま保持する。
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.loading = true
	p.lastErr = nil
	next := p.page + 1
	p.mu.Unlock()

	fetched, err := p.client.FetchPage(ctx, next)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	p.loading = false

	if err != nil {
		p.logger.Warn("フィードページの読み込みに失敗しました",
			slog.Int("page", next),
			slog.String("error", err.Error()),
		)
		p.lastErr = err
		return err
	}

	p.jobs = append(p.jobs, fetched.Jobs...)
	p.page = next
	p.hasMore = len(fetched.Jobs) > 0
	return nil
}

// Refresh はページカウンタを1に戻し、hasMoreをtrueに戻してから
// 1ページ目を再取得する。成功時は累積リストを置き換える（追加ではない）。
// フェッチが既に実行中の場合は何もしない。
// 失敗時は取得済みのリストをそのまま保持するが、ページカウンタと
// hasMoreのリセットは残る。これにより終端到達後にRefreshが失敗しても
// LoadMoreが永久に無効化されることはない。
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.refreshing = true
	p.lastErr = nil
	p.page = 1
	p.hasMore = true
	p.mu.Unlock()

	fetched, err := p.client.FetchPage(ctx, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	p.refreshing = false

	if err != nil {
		p.logger.Warn("フィードの更新に失敗しました",
			slog.String("error", err.Error()),
		)
		p.lastErr = err
		return err
	}

	p.jobs = append([]model.Job(nil), fetched.Jobs...)
	p.hasMore = len(fetched.Jobs) > 0
	return nil
}

// Snapshot は現在の状態のコピーを返す。返却されるJobsスライスは
// 内部状態から切り離されたコピーであり、呼び出し側が保持してよい。
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	jobs := make([]model.Job, len(p.jobs))
	copy(jobs, p.jobs)

	return Snapshot{
		Jobs:       jobs,
		Page:       p.page,
		HasMore:    p.hasMore,
		Loading:    p.loading,
		Refreshing: p.refreshing,
		Err:        p.lastErr,
	}
}
