package link

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/student"
)

var (
	// errors
	ErrCodeNotFound  = errors.New("link code not found")
	ErrCodeExhausted = errors.New("failed to generate unique code")

	// parent-facing replies
	replyInvalid = "Sorry, this link is invalid or has expired. Please request a new link from your tuition centre."
	replyExpired = "Sorry, this link has expired. Please request a new link from your tuition centre."
	replyErrored = "Sorry, something went wrong. Please try again later."
)

type (
	Repository interface {
		CreateCode(ctx context.Context, c Code) (Code, error)
		// GetUnusedCode looks a code up regardless of expiry; expiry is
		// checked by the caller so the reply can distinguish the two.
		GetUnusedCode(ctx context.Context, code string) (Code, error)
		MarkUsed(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		students student.Repository
		notifier core.NotificationService
		conf     *core.Config
		logger   core.Logger
	}
)

func NewService(repo Repository, students student.Repository, notifier core.NotificationService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		students: students,
		notifier: notifier,
		conf:     conf,
		logger:   logger,
	}
}

// IssueLink creates a collision-checked, time-boxed code for the parent and
// wraps it in the bot deep-link.
func (svc *Service) IssueLink(ctx context.Context, parentID string) (Link, error) {
	if _, err := svc.students.GetParentByID(ctx, parentID); err != nil {
		return Link{}, err
	}

	var code string
	for attempts := 0; ; attempts++ {
		if attempts >= maxAttempts {
			// 32^6 possibilities; only reachable when the store is drowning
			// in unused codes
			return Link{}, ErrCodeExhausted
		}
		code = generateCode()
		_, err := svc.repo.GetUnusedCode(ctx, code)
		if errors.Is(err, ErrCodeNotFound) {
			break
		}
		if err != nil {
			// store trouble, not a collision
			return Link{}, errors.Wrap(err, "checking code uniqueness")
		}
	}

	now := NowFunc().UTC()
	if _, err := svc.repo.CreateCode(ctx, Code{
		Code:      code,
		ParentID:  parentID,
		CreatedAt: now,
		ExpiresAt: now.Add(svc.conf.LinkCodeTTL),
	}); err != nil {
		return Link{}, errors.Wrap(err, "creating link code")
	}

	return Link{
		Code: code,
		Link: fmt.Sprintf("https://t.me/%s?start=%s", svc.conf.Telegram.BotUsername, code),
	}, nil
}

// Consume binds a Telegram chat to the parent behind the code. Every path
// replies to the chat; the returned error exists for logging only, the
// webhook acknowledges regardless.
func (svc *Service) Consume(ctx context.Context, chatID, code, firstName string) error {
	lc, err := svc.repo.GetUnusedCode(ctx, code)
	if err != nil {
		svc.reply(ctx, chatID, replyInvalid)
		if errors.Is(err, ErrCodeNotFound) {
			return nil
		}
		return errors.Wrap(err, "looking up link code")
	}

	if lc.Expired(NowFunc()) {
		// no store mutation: expired codes stay unused and unusable
		svc.reply(ctx, chatID, replyExpired)
		return nil
	}

	if err = svc.students.SetParentChatID(ctx, lc.ParentID, chatID); err != nil {
		svc.reply(ctx, chatID, replyErrored)
		return errors.Wrap(err, "linking parent chat")
	}
	if err = svc.repo.MarkUsed(ctx, lc.ID); err != nil {
		return errors.Wrap(err, "marking link code used")
	}

	svc.reply(ctx, chatID, svc.confirmation(ctx, lc.ParentID, firstName))
	return nil
}

func (svc *Service) confirmation(ctx context.Context, parentID, firstName string) string {
	name := firstName
	if parent, err := svc.students.GetParentByID(ctx, parentID); err == nil {
		name = parent.Name
	}

	studentNames := "your child"
	if students, err := svc.students.QueryActiveStudentsByParent(ctx, parentID); err == nil && len(students) > 0 {
		names := make([]string, 0, len(students))
		for _, st := range students {
			names = append(names, st.Name)
		}
		studentNames = strings.Join(names, ", ")
	}

	return fmt.Sprintf(
		"Successfully linked!\n\nHi %s! You will now receive notifications when %s checks in at the tuition centre.",
		name, studentNames,
	)
}

func (svc *Service) reply(ctx context.Context, chatID, text string) {
	if err := svc.notifier.Send(ctx, chatID, text); err != nil {
		svc.logger.Error(fmt.Sprintf("replying to chat %s: %v", chatID, err), err)
	}
}
