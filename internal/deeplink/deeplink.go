// Package deeplink は雇用主への連絡用アウトバウンドURL
// （WhatsAppチャットと電話ダイヤラー）を構築する。
package deeplink

import (
	"errors"
	"strings"
)

// whatsappBase はWhatsAppのclick-to-chatエンドポイント。
const whatsappBase = "https://wa.me/"

// ErrNoContact は連絡先が空または数字を含まない場合に返される。
var ErrNoContact = errors.New("連絡先情報がありません")

// WhatsAppURL は電話番号からWhatsAppチャットのディープリンクを構築する。
// 番号は数字のみに正規化される（wa.meは"+"や空白、ハイフンを受け付けない）。
// 入力が既にwa.meリンクの場合はそのまま返す。
func WhatsAppURL(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, whatsappBase) {
		return phone, nil
	}

	digits := digitsOnly(phone)
	if digits == "" {
		return "", ErrNoContact
	}
	return whatsappBase + digits, nil
}

// TelURL は電話番号から電話ダイヤラーのディープリンクを構築する。
func TelURL(phone string) (string, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return "", ErrNoContact
	}
	return "tel:" + digits, nil
}

// digitsOnly は文字列から数字以外を取り除く。
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
