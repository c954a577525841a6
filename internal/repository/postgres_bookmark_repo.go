package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thumuvivek2003/getLokalApp/internal/model"
)

// PostgresBookmarkRepo はPostgreSQLを使用したブックマークリポジトリ。
type PostgresBookmarkRepo struct {
	db *sql.DB
}

// NewPostgresBookmarkRepo はPostgresBookmarkRepoを生成する。
func NewPostgresBookmarkRepo(db *sql.DB) *PostgresBookmarkRepo {
	return &PostgresBookmarkRepo{db: db}
}

// EnsureSchema はブックマークテーブルが存在しない場合に作成する。冪等。
// マイグレーション未適用の環境でも初回利用時にテーブルを用意できるよう、
// migrations/000001と同じ定義をCREATE TABLE IF NOT EXISTSで実行する。
func (r *PostgresBookmarkRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS bookmarks (
		     id BIGSERIAL PRIMARY KEY,
		     job_id TEXT UNIQUE NOT NULL,
		     title TEXT NOT NULL DEFAULT '',
		     location TEXT NOT NULL DEFAULT '',
		     salary_min INTEGER NOT NULL DEFAULT 0,
		     salary_max INTEGER NOT NULL DEFAULT 0,
		     phone TEXT NOT NULL DEFAULT '',
		     job_type TEXT NOT NULL DEFAULT '',
		     company_name TEXT NOT NULL DEFAULT '',
		     description TEXT NOT NULL DEFAULT '',
		     created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		 )`,
	)
	if err != nil {
		return fmt.Errorf("ブックマークテーブルの作成に失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_job_id ON bookmarks (job_id)`,
	)
	if err != nil {
		return fmt.Errorf("ブックマークインデックスの作成に失敗しました: %w", err)
	}

	return nil
}

// Upsert はjob_idをキーにブックマークを挿入または全フィールド置換する。
// UNIQUE(job_id)制約を利用したINSERT ON CONFLICTで実装する。
// created_atはDO UPDATEの対象に含めないため、再ブックマークしても
// 一覧上の位置（最初に保存した日時）は変わらない。
func (r *PostgresBookmarkRepo) Upsert(ctx context.Context, b *model.Bookmark) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (job_id, title, location, salary_min, salary_max, phone, job_type, company_name, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (job_id) DO UPDATE SET
		     title = EXCLUDED.title,
		     location = EXCLUDED.location,
		     salary_min = EXCLUDED.salary_min,
		     salary_max = EXCLUDED.salary_max,
		     phone = EXCLUDED.phone,
		     job_type = EXCLUDED.job_type,
		     company_name = EXCLUDED.company_name,
		     description = EXCLUDED.description`,
		b.JobID, b.Title, b.Location, b.SalaryMin, b.SalaryMax,
		b.Phone, b.JobType, b.CompanyName, b.Description,
	)
	if err != nil {
		return fmt.Errorf("ブックマークのUPSERTに失敗しました: %w", err)
	}
	return nil
}

// Delete は指定job_idの行を削除する。行が存在しない場合も成功する（冪等）。
func (r *PostgresBookmarkRepo) Delete(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE job_id = $1`, jobID,
	)
	if err != nil {
		return fmt.Errorf("ブックマークの削除に失敗しました: %w", err)
	}
	return nil
}

// Exists は指定job_idの行が存在するかを返す。
func (r *PostgresBookmarkRepo) Exists(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM bookmarks WHERE job_id = $1 LIMIT 1`, jobID,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ブックマークの存在確認に失敗しました: %w", err)
	}
	return true, nil
}

// ListAll は全ブックマークをcreated_at降順（新しい順）で返す。
func (r *PostgresBookmarkRepo) ListAll(ctx context.Context) ([]*model.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT job_id, title, location, salary_min, salary_max, phone, job_type, company_name, description, created_at
		 FROM bookmarks
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	bookmarks := []*model.Bookmark{}
	for rows.Next() {
		b := &model.Bookmark{}
		if err := rows.Scan(
			&b.JobID, &b.Title, &b.Location,
			&b.SalaryMin, &b.SalaryMax,
			&b.Phone, &b.JobType, &b.CompanyName, &b.Description,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ブックマーク行の読み取りに失敗しました: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブックマーク一覧の走査に失敗しました: %w", err)
	}

	return bookmarks, nil
}

// DeleteAll は全行を削除する。
func (r *PostgresBookmarkRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks`)
	if err != nil {
		return fmt.Errorf("全ブックマークの削除に失敗しました: %w", err)
	}
	return nil
}

// Count は保存されている行数を返す。
func (r *PostgresBookmarkRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ブックマーク件数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BookmarkRepository = (*PostgresBookmarkRepo)(nil)
