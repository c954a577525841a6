// Package membership は表示中の求人一覧に対する「ブックマーク済みか」の
// 判定を、描画のたびにストレージへ往復せず答えるための派生集合を提供する。
//
// 集合は表示中の求人リストが変わるたび（load-more/refresh後）に
// 全件再計算される。差分更新ではないが、リストは表示中の数ページに
// 限られるため全再計算で十分という判断。
package membership

import (
	"context"
	"sync"

	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// BookmarkStore はメンバーシップ判定とトグルに必要なストア操作のインターフェース。
type BookmarkStore interface {
	// Upsert は求人のスナップショットをブックマークとして保存する。
	Upsert(ctx context.Context, job *model.Job) error
	// Remove は指定job_idのブックマークを削除する。
	Remove(ctx context.Context, jobID string) error
	// Exists は指定job_idがブックマーク済みかを返す。失敗時はfalse。
	Exists(ctx context.Context, jobID string) bool
}

// Set はブックマーク済み求人IDの集合。Recomputeが返すスナップショットで、
// 呼び出し元ごとに独立しており、以降のRecomputeやToggleの影響を受けない。
type Set map[string]struct{}

// Contains は指定job_idが集合に含まれるか（＝ブックマーク済み表示にすべきか）を返す。
func (s Set) Contains(jobID string) bool {
	_, ok := s[jobID]
	return ok
}

// Cache はブックマーク済み求人IDの派生集合。
type Cache struct {
	store BookmarkStore

	mu  sync.RWMutex
	ids Set
}

// NewCache はCacheを生成する。初期状態は空集合。
func NewCache(store BookmarkStore) *Cache {
	return &Cache{
		store: store,
		ids:   make(Set),
	}
}

// Recompute は求人リストの各要素についてストアに存在確認を行い、
// 集合を丸ごと作り直して返す。IDが空の求人は集合に含まれない。
// 戻り値は呼び出し元専用のスナップショットで、並行するRecomputeや
// Toggleに書き換えられることはない。内部状態には別のコピーを保持する。
func (c *Cache) Recompute(ctx context.Context, jobs []model.Job) Set {
	ids := make(Set, len(jobs))
	for i := range jobs {
		if jobs[i].ID == "" {
			continue
		}
		if c.store.Exists(ctx, jobs[i].ID) {
			ids[jobs[i].ID] = struct{}{}
		}
	}

	internal := make(Set, len(ids))
	for id := range ids {
		internal[id] = struct{}{}
	}
	c.mu.Lock()
	c.ids = internal
	c.mu.Unlock()

	return ids
}

// Contains は指定job_idが集合に含まれるか（＝ブックマーク済み表示にすべきか）を返す。
func (c *Cache) Contains(jobID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[jobID]
	return ok
}

// Toggle は求人のブックマーク状態を反転する。現在ブックマーク済みなら
// Removeを、未ブックマークならUpsertを呼び、ストア呼び出しの成功が
// 確認できてから集合を更新する。楽観的更新は行わない：書き込みが
// 失敗した場合、表示上のトグル状態は変化せず、エラーが呼び出し元に
// 返る（画面側が失敗通知を表示する）。
// 戻り値は操作後のブックマーク状態。
func (c *Cache) Toggle(ctx context.Context, job *model.Job) (bool, error) {
	bookmarked := c.Contains(job.ID)

	if bookmarked {
		if err := c.store.Remove(ctx, job.ID); err != nil {
			return true, err
		}
		c.mu.Lock()
		delete(c.ids, job.ID)
		c.mu.Unlock()
		return false, nil
	}

	if err := c.store.Upsert(ctx, job); err != nil {
		return false, err
	}
	c.mu.Lock()
	c.ids[job.ID] = struct{}{}
	c.mu.Unlock()
	return true, nil
}
