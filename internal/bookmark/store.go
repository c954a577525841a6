// Package bookmark はブックマークの永続化サービスを提供する。
//
// Store は求人IDを一意キーとする耐久テーブルの唯一の所有者であり、
// 書き込み操作（Upsert/Remove/ClearAll）のエラーは呼び出し元に伝播し、
// 読み取り操作（Exists/ListAll/Count）のエラーは安全なデフォルト値に
// 縮退させるというエラーポリシーを実装する。ストレージの読み取り失敗で
// 画面遷移や描画がブロックされてはならないため、縮退は意図的な仕様である。
package bookmark

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/thumuvivek2003/getLokalApp/internal/metrics"
	"github.com/thumuvivek2003/getLokalApp/internal/model"
	"github.com/thumuvivek2003/getLokalApp/internal/repository"
)

// Store はブックマークの永続化サービス。
// 初回利用時にスキーマ初期化を遅延実行し、最初の成功までの間に
// 並行して到着した呼び出しは同一の初期化試行を待ち合わせる
// （テーブル作成の重複実行は発生しない）。初期化が失敗した場合は
// 次の呼び出しが新しい試行を開始する。
type Store struct {
	repo    repository.BookmarkRepository
	metrics metrics.Recorder
	logger  *slog.Logger

	mu      sync.Mutex
	ready   bool
	initCh  chan struct{} // 進行中の初期化試行の完了通知。nilなら試行中でない
	initErr error         // 直近の初期化試行の結果
}

// NewStore はStoreを生成する。初期化は最初の操作まで遅延される。
func NewStore(repo repository.BookmarkRepository, rec metrics.Recorder, logger *slog.Logger) *Store {
	return &Store{
		repo:    repo,
		metrics: rec,
		logger:  logger,
	}
}

// Init はスキーマ初期化を即時に実行する。冪等で、並行呼び出しは
// 同一の試行に合流する。失敗時はSTORAGE_UNAVAILABLEを返す。
func (s *Store) Init(ctx context.Context) error {
	return s.ensureReady(ctx)
}

// ensureReady は初期化が未完了の場合に実行し、完了を待つ。
func (s *Store) ensureReady(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}

	// 進行中の試行があればそれを待つ
	if s.initCh != nil {
		ch := s.initCh
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return model.NewStorageUnavailableError(ctx.Err().Error())
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ready {
			return nil
		}
		return s.initErr
	}

	// 新しい試行を開始する
	ch := make(chan struct{})
	s.initCh = ch
	s.mu.Unlock()

	err := s.repo.EnsureSchema(ctx)

	s.mu.Lock()
	if err != nil {
		s.initErr = model.NewStorageUnavailableError(err.Error())
	} else {
		s.ready = true
		s.initErr = nil
	}
	result := s.initErr
	s.initCh = nil
	s.mu.Unlock()

	close(ch)
	return result
}

// Upsert は求人のスナップショットをブックマークとして保存する。
// 同一job_idの既存ブックマークは全フィールドが置き換えられるが、
// created_at（一覧上の並び位置）は最初の保存時のまま維持される。
// job.IDが空の場合はINVALID_JOB_ID、書き込み失敗時はSTORAGE_WRITE_FAILEDを返す。
func (s *Store) Upsert(ctx context.Context, job *model.Job) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return model.NewInvalidJobIDError()
	}

	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, model.NewBookmarkFromJob(job)); err != nil {
		s.logger.Error("ブックマークの保存に失敗しました",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordBookmarkWriteFailure("upsert")
		return model.NewStorageWriteFailedError("upsert")
	}

	s.metrics.RecordBookmarkWrite("upsert")
	return nil
}

// Remove は指定job_idのブックマークを削除する。
// 存在しないjob_idの削除は成功扱い（冪等）。
// jobIDが空の場合はINVALID_JOB_ID、削除失敗時はSTORAGE_WRITE_FAILEDを返す。
func (s *Store) Remove(ctx context.Context, jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return model.NewInvalidJobIDError()
	}

	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, jobID); err != nil {
		s.logger.Error("ブックマークの削除に失敗しました",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordBookmarkWriteFailure("remove")
		return model.NewStorageWriteFailedError("remove")
	}

	s.metrics.RecordBookmarkWrite("remove")
	return nil
}

// Exists は指定job_idがブックマーク済みかを返す。
// jobIDが空の場合はエラーにせずfalseを返す（メンバーシップ判定の
// 呼び出し側に入力検証を要求しない）。読み取り失敗もfalseに縮退する。
func (s *Store) Exists(ctx context.Context, jobID string) bool {
	if strings.TrimSpace(jobID) == "" {
		return false
	}

	if err := s.ensureReady(ctx); err != nil {
		s.logger.Warn("ブックマーク存在確認をスキップしました（ストレージ初期化失敗）",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return false
	}

	exists, err := s.repo.Exists(ctx, jobID)
	if err != nil {
		s.logger.Warn("ブックマーク存在確認に失敗したためfalseを返します",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return exists
}

// ListAll は全ブックマークを保存日時の新しい順で返す。
// ストアが空または読み取り不能の場合でも失敗せず空スライスを返す
// （ブックマーク画面は常に一覧を描画できなければならない）。
func (s *Store) ListAll(ctx context.Context) []*model.Bookmark {
	if err := s.ensureReady(ctx); err != nil {
		s.logger.Warn("ブックマーク一覧の取得をスキップしました（ストレージ初期化失敗）",
			slog.String("error", err.Error()),
		)
		return []*model.Bookmark{}
	}

	bookmarks, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("ブックマーク一覧の取得に失敗したため空一覧を返します",
			slog.String("error", err.Error()),
		)
		return []*model.Bookmark{}
	}
	if bookmarks == nil {
		return []*model.Bookmark{}
	}
	return bookmarks
}

// ClearAll は全ブックマークを削除する。失敗時はSTORAGE_WRITE_FAILEDを返す。
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Error("全ブックマークの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		s.metrics.RecordBookmarkWriteFailure("clear")
		return model.NewStorageWriteFailedError("clear")
	}

	s.metrics.RecordBookmarkWrite("clear")
	return nil
}

// Count は保存されているブックマーク件数を返す。読み取り失敗は0に縮退する。
func (s *Store) Count(ctx context.Context) int {
	if err := s.ensureReady(ctx); err != nil {
		s.logger.Warn("ブックマーク件数の取得をスキップしました（ストレージ初期化失敗）",
			slog.String("error", err.Error()),
		)
		return 0
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("ブックマーク件数の取得に失敗したため0を返します",
			slog.String("error", err.Error()),
		)
		return 0
	}
	return count
}
