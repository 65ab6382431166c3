package domain

import "time"

// Session is an attendance interval. EndTime is nil while the user is
// checked in; a user may have at most one open session.
type Session struct {
	ID        int64
	UserID    int64
	StartTime time.Time
	EndTime   *time.Time
}

func (s Session) Open() bool {
	return s.EndTime == nil
}
