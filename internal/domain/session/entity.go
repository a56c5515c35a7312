package session

// Session is a recurring gym slot. Sessions are managed elsewhere; the
// admission path only reads them.
type Session struct {
	ScheduleID int64
	Name       string
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	Quota      int
}

// IsFull reports whether activeCount seats already exhaust the quota.
func (s Session) IsFull(activeCount int) bool {
	return activeCount >= s.Quota
}

func (s Session) Ref() string {
	return s.Name + "__" + s.StartTime
}
