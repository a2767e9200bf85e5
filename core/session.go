package core

import "time"

// Session is the value object handed to kiosk clients after a successful
// PIN login. The client stores it locally; validity is a pure comparison
// against the clock, no server-side session store exists.
type Session struct {
	SubjectID string    `json:"subject_id"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSession(subjectID, name string, ttl time.Duration) Session {
	return Session{
		SubjectID: subjectID,
		Name:      name,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
}

func (s Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
