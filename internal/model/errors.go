// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, storage, feed, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidJobID       = "INVALID_JOB_ID"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeStorageWriteFailed = "STORAGE_WRITE_FAILED"
	ErrCodeNetworkError       = "NETWORK_ERROR"
	ErrCodeDecodeError        = "DECODE_ERROR"
)

// ErrorCode はerrからAPIErrorのコードを取り出す。
// APIErrorでない場合は空文字列を返す。
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// NewInvalidJobIDError は求人IDが空のまま書き込み操作が呼ばれた場合のエラーを生成する。
func NewInvalidJobIDError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidJobID,
		Message:  "求人IDが指定されていません。",
		Category: "validation",
		Action:   "求人IDを指定して再度お試しください。",
	}
}

// NewStorageUnavailableError はブックマークテーブルを開けない場合のエラーを生成する。
func NewStorageUnavailableError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeStorageUnavailable,
		Message:  fmt.Sprintf("ブックマークストレージを開けませんでした: %s", reason),
		Category: "storage",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewStorageWriteFailedError はテーブルを開いた後の書き込み文が失敗した場合のエラーを生成する。
func NewStorageWriteFailedError(op string) *APIError {
	return &APIError{
		Code:     ErrCodeStorageWriteFailed,
		Message:  fmt.Sprintf("ブックマークの書き込みに失敗しました: %s", op),
		Category: "storage",
		Action:   "もう一度操作をお試しください。",
	}
}

// NewNetworkError はフィード取得の通信失敗または非成功ステータスのエラーを生成する。
func NewNetworkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeNetworkError,
		Message:  fmt.Sprintf("求人フィードの取得に失敗しました: %s", reason),
		Category: "feed",
		Action:   "通信状況を確認し、引き下げて更新してください。",
	}
}

// NewDecodeError はフィードレスポンスが期待する形に解析できない場合のエラーを生成する。
func NewDecodeError() *APIError {
	return &APIError{
		Code:     ErrCodeDecodeError,
		Message:  "求人フィードのレスポンスの解析に失敗しました。",
		Category: "feed",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
