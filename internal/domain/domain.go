package domain

import (
	"time"
)

// Lang codes supported for i18n fields.
const (
	LangKo = "ko"
	LangEn = "en"
)

// I18n is a per-language string map, e.g. {"ko": "...", "en": "..."}.
type I18n map[string]string

// Resolve returns the value for lang, falling back to Korean, then to any value.
func (m I18n) Resolve(lang string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[lang]; ok && v != "" {
		return v
	}
	if v, ok := m[LangKo]; ok && v != "" {
		return v
	}
	for _, v := range m {
		if v != "" {
			return v
		}
	}
	return ""
}

// Money is an amount in a currency. Only KRW is supported; amounts are whole won.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

const CurrencyKRW = "KRW"

// Source identifies where a booking or order originated.
type Source string

const (
	SourceWeb   Source = "web"
	SourceAdmin Source = "admin"
	SourceKakao Source = "kakao"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceWeb, SourceAdmin, SourceKakao:
		return true
	}
	return false
}

// HistoryEntry records one status transition on a booking or order.
type HistoryEntry struct {
	At     time.Time `json:"at"`
	By     string    `json:"by"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Reason string    `json:"reason,omitempty"`
}

// Pagination is the common page request. Page is 1-based.
type Pagination struct {
	Page int
	Size int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Clamp normalizes page/size into valid bounds.
func (p Pagination) Clamp() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}
