package membership

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// --- テスト用モック ---

// mockStore はテスト用のBookmarkStoreモック。
type mockStore struct {
	rows      map[string]bool
	upsertErr error
	removeErr error
}

func newMockStore() *mockStore {
	return &mockStore{rows: make(map[string]bool)}
}

func (m *mockStore) Upsert(_ context.Context, job *model.Job) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.rows[job.ID] = true
	return nil
}

func (m *mockStore) Remove(_ context.Context, jobID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.rows, jobID)
	return nil
}

func (m *mockStore) Exists(_ context.Context, jobID string) bool {
	return m.rows[jobID]
}

// --- テスト ---

// TestCache_RecomputeBuildsSet はRecomputeがストアの内容に基づいて
// 集合を作り直すことを検証する。
func TestCache_RecomputeBuildsSet(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.rows["a"] = true
	store.rows["c"] = true

	cache := NewCache(store)
	jobs := []model.Job{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: ""}}
	cache.Recompute(ctx, jobs)

	if !cache.Contains("a") || !cache.Contains("c") {
		t.Error("Contains(a)/Contains(c) = false, want true")
	}
	if cache.Contains("b") {
		t.Error("Contains(b) = true, want false")
	}
	if cache.Contains("") {
		t.Error("Contains(\"\") = true, want false")
	}
}

// TestCache_RecomputeIsFullRebuild は再計算が差分ではなく全置換であり、
// 前回の集合に残っていたIDが引き継がれないことを検証する。
func TestCache_RecomputeIsFullRebuild(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.rows["old"] = true

	cache := NewCache(store)
	cache.Recompute(ctx, []model.Job{{ID: "old"}})
	if !cache.Contains("old") {
		t.Fatal("Contains(old) = false after first recompute, want true")
	}

	// 新しいリストにoldは含まれない
	cache.Recompute(ctx, []model.Job{{ID: "new"}})
	if cache.Contains("old") {
		t.Error("Contains(old) = true after rebuild without it, want false")
	}
}

// TestCache_ToggleOnThenOff はトグルでブックマークの保存と削除が行われ、
// 集合がストア操作の成功後に追従することを検証する。
func TestCache_ToggleOnThenOff(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	cache := NewCache(store)
	job := &model.Job{ID: "j1", Title: "配達スタッフ"}

	on, err := cache.Toggle(ctx, job)
	if err != nil {
		t.Fatalf("Toggle(on) returned unexpected error: %v", err)
	}
	if !on || !cache.Contains("j1") || !store.rows["j1"] {
		t.Error("after toggle on: want bookmarked in both cache and store")
	}

	off, err := cache.Toggle(ctx, job)
	if err != nil {
		t.Fatalf("Toggle(off) returned unexpected error: %v", err)
	}
	if off || cache.Contains("j1") || store.rows["j1"] {
		t.Error("after toggle off: want removed from both cache and store")
	}
}

// TestCache_ToggleFailureLeavesStateUnchanged は書き込み失敗時に
// 表示上のトグル状態が変化しないことを検証する（楽観的更新はしない）。
func TestCache_ToggleFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	cache := NewCache(store)
	job := &model.Job{ID: "j1"}

	// 保存失敗：未ブックマークのまま
	store.upsertErr = errors.New("disk full")
	state, err := cache.Toggle(ctx, job)
	if err == nil {
		t.Fatal("Toggle with failing upsert expected error, got nil")
	}
	if state || cache.Contains("j1") {
		t.Error("failed toggle-on must leave job unbookmarked")
	}

	// 正常に保存してから削除失敗：ブックマーク済みのまま
	store.upsertErr = nil
	if _, err := cache.Toggle(ctx, job); err != nil {
		t.Fatalf("Toggle returned unexpected error: %v", err)
	}
	store.removeErr = errors.New("disk full")
	state, err = cache.Toggle(ctx, job)
	if err == nil {
		t.Fatal("Toggle with failing remove expected error, got nil")
	}
	if !state || !cache.Contains("j1") {
		t.Error("failed toggle-off must leave job bookmarked")
	}
}

// TestCache_RecomputeSnapshotIsRequestLocal はRecomputeの戻り値が
// 呼び出し元専用のスナップショットであり、後続の再計算やトグルに
// 影響されないことを検証する。
func TestCache_RecomputeSnapshotIsRequestLocal(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.rows["a"] = true

	cache := NewCache(store)
	first := cache.Recompute(ctx, []model.Job{{ID: "a"}, {ID: "b"}})

	// 別のページで再計算しても最初のスナップショットは変わらない
	store.rows["c"] = true
	cache.Recompute(ctx, []model.Job{{ID: "c"}})
	if !first.Contains("a") {
		t.Error("first snapshot lost id after later recompute")
	}
	if first.Contains("c") {
		t.Error("first snapshot gained id from later recompute")
	}

	// トグルは内部状態を更新するがスナップショットには波及しない
	if _, err := cache.Toggle(ctx, &model.Job{ID: "b"}); err != nil {
		t.Fatalf("Toggle returned unexpected error: %v", err)
	}
	if first.Contains("b") {
		t.Error("snapshot mutated by toggle, want unchanged")
	}
}

// TestCache_ConcurrentRecomputesStayIsolated は並行する再計算が
// 互いの結果を壊さないことを検証する。各ゴルーチンは自分のページの
// 求人だけを含むスナップショットを受け取る。
func TestCache_ConcurrentRecomputesStayIsolated(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.rows["p1-only"] = true
	store.rows["p2-only"] = true

	cache := NewCache(store)
	pages := [][]model.Job{
		{{ID: "p1-only"}, {ID: "p1-extra"}},
		{{ID: "p2-only"}, {ID: "p2-extra"}},
	}

	var wg sync.WaitGroup
	errs := make(chan string, 4)
	for i := range pages {
		wg.Add(1)
		go func(jobs []model.Job, want string, other string) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				set := cache.Recompute(ctx, jobs)
				if !set.Contains(want) {
					errs <- "snapshot missing " + want
					return
				}
				if set.Contains(other) {
					errs <- "snapshot leaked " + other
					return
				}
			}
		}(pages[i], pages[i][0].ID, pages[1-i][0].ID)
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
