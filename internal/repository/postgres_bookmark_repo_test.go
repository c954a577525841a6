package repository

import (
	"testing"
)

// TestPostgresBookmarkRepo_ImplementsInterface はPostgresBookmarkRepoがBookmarkRepositoryを実装することを検証する。
func TestPostgresBookmarkRepo_ImplementsInterface(t *testing.T) {
	// コンパイル時チェック：PostgresBookmarkRepoがBookmarkRepositoryを満たすことを検証
	var _ BookmarkRepository = (*PostgresBookmarkRepo)(nil)
}

// TestNewPostgresBookmarkRepo_ReturnsNonNil はリポジトリが正常に生成されることを検証する。
func TestNewPostgresBookmarkRepo_ReturnsNonNil(t *testing.T) {
	repo := NewPostgresBookmarkRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil PostgresBookmarkRepo")
	}
}
