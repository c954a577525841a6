// Package model はドメインモデルを定義する。
package model

import "time"

// Job はリモートフィードから取得した求人を表す。
// ローカルでは一切変更されない読み取り専用の投影であり、
// 取得元のフィードページのライフタイムの間だけ有効。
// 欠損フィールドはフィードクライアントの境界でデフォルト値に補完される。
type Job struct {
	ID            string
	Title         string
	CompanyName   string
	Location      string
	SalaryMin     int
	SalaryMax     int
	JobType       string
	Experience    string
	Qualification string
	Category      string

	// Phone は連絡先電話番号（フィードのwhatsapp_no）。
	Phone string
	// WhatsappLink はフィード側で事前構築されたチャットディープリンク。
	WhatsappLink string

	// Description はサニタイズ済みの自由記述（フィードのother_details）。
	Description string

	Tags             []string
	ApplicationCount int
	ViewCount        int
	OpeningsCount    int
	IsPremium        bool

	// UpdatedOn はフィード側の最終更新日時。パース不能な場合はnil。
	UpdatedOn *time.Time
}

// ContactPhone は連絡に使用する連絡先を返す。
// 電話番号を優先し、未設定の場合は事前構築済みチャットリンクを返す。
// どちらも無い場合は空文字列を返す。
func (j *Job) ContactPhone() string {
	if j.Phone != "" {
		return j.Phone
	}
	return j.WhatsappLink
}
