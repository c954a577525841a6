// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// BookmarkRepository はブックマークデータの永続化インターフェース。
// job_idを一意キーとする1テーブルのCRUD操作を提供する。
// エラーポリシー（読み取りのデフォルト値への縮退など）は呼び出し側の
// サービス層が担い、リポジトリは発生したエラーをそのまま返す。
type BookmarkRepository interface {
	// EnsureSchema はブックマークテーブルが存在しない場合に作成する。冪等。
	EnsureSchema(ctx context.Context) error

	// Upsert はjob_idをキーにブックマークを挿入または全フィールド置換する。
	// 既存行のcreated_atは最初のブックマーク日時のまま維持される。
	Upsert(ctx context.Context, b *model.Bookmark) error

	// Delete は指定job_idの行を削除する。行が存在しない場合も成功する（冪等）。
	Delete(ctx context.Context, jobID string) error

	// Exists は指定job_idの行が存在するかを返す。
	Exists(ctx context.Context, jobID string) (bool, error)

	// ListAll は全ブックマークをcreated_at降順（新しい順）で返す。
	ListAll(ctx context.Context) ([]*model.Bookmark, error)

	// DeleteAll は全行を削除する。
	DeleteAll(ctx context.Context) error

	// Count は保存されている行数を返す。
	Count(ctx context.Context) (int, error)
}
