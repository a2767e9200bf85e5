package link

import "time"

// Code is a short-lived token binding a Telegram chat to a parent record.
// Single use, never extended.
type Code struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	ParentID  string    `json:"parent_id" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
}

func (c Code) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Link is the issuance result: the raw code plus the bot deep-link that
// embeds it.
type Link struct {
	Code string `json:"code"`
	Link string `json:"link"`
}
