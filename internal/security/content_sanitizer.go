// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はリモートフィード由来の求人テキスト
// （タイトルや自由記述）をサニタイズし、フィード側に混入した
// スクリプトや不要なマークアップからクライアントを保護する。
// bluemondayライブラリの許可リストベースのポリシーを使用する。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService は求人テキストのサニタイズ機能のインターフェースを定義する。
// フィードレスポンスのデコード直後（Jobへのマッピング時）に使用される。
type ContentSanitizerService interface {
	// Sanitize は求人テキストをサニタイズして安全なテキストを返す。
	// 基本的な整形タグ（p, br, ul, ol, li, strong, em）のみを通過させ、
	// script, iframe, style, img, aタグおよびon*イベント属性を全て除去する。
	// 求人の説明文にリンクや画像が含まれる正当なケースはないため、
	// 記事系コンテンツより厳しいポリシーを適用する。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 許可タグは整形用の最小セットのみ:
//   - p, br, ul, ol, li, strong, em
//   - a, img, script, iframe, style は許可リストに含めないことで自動的に除去される
//   - on*イベント属性はbluemondayのデフォルトで許可されない
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em",
	)

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize は求人テキストをサニタイズして安全なテキストを返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
