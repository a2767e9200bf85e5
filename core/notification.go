package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var (
	sgt     *time.Location
	sgtInit sync.Once
)

// NotificationService is any service that can deliver a text message to a
// guardian's linked chat.
type NotificationService interface {
	Send(ctx context.Context, chatID, text string) error
}

// FormatCheckInMessage renders the parent-facing check-in notification.
func FormatCheckInMessage(studentName, centreName string, checkIn time.Time) string {
	return fmt.Sprintf("%s checked in at %s at %s", studentName, centreName, FormatSGT(checkIn))
}

// FormatSGT renders a timestamp as a Singapore local clock time, e.g. "3:04 PM".
// The centre operates in Singapore; times are always shown in SGT.
func FormatSGT(t time.Time) string {
	sgtInit.Do(func() {
		loc, err := time.LoadLocation("Asia/Singapore")
		if err != nil {
			loc = time.FixedZone("SGT", 8*60*60)
		}
		sgt = loc
	})
	return t.In(sgt).Format("3:04 PM")
}
