package link

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/student"
)

func Test_generateCode(t *testing.T) {
	// the alphabet must never produce ambiguous characters
	for _, c := range "IO01" {
		assert.NotContains(t, codeAlphabet, string(c))
	}

	defer func() { randIndexFunc = randIndex }()
	randIndexFunc = func(n int) int { return 0 }
	assert.Equal(t, "AAAAAA", generateCode())

	seq := []int{0, 1, 2, 3, 4, 5}
	var i int
	randIndexFunc = func(n int) int { idx := seq[i%len(seq)]; i++; return idx }
	assert.Equal(t, "ABCDEF", generateCode())

	randIndexFunc = randIndex
	code := generateCode()
	assert.Len(t, code, codeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, c))
	}
}

type repoStub struct {
	codes  map[string]Code
	getErr error // scripted GetUnusedCode failure
}

func (r *repoStub) CreateCode(_ context.Context, c Code) (Code, error) {
	c.ID = "code-" + c.Code
	r.codes[c.Code] = c
	return c, nil
}

func (r *repoStub) GetUnusedCode(_ context.Context, code string) (Code, error) {
	if r.getErr != nil {
		return Code{}, r.getErr
	}
	if c, ok := r.codes[code]; ok && !c.Used {
		return c, nil
	}
	return Code{}, ErrCodeNotFound
}

func (r *repoStub) MarkUsed(_ context.Context, id string) error {
	for code, c := range r.codes {
		if c.ID == id {
			c.Used = true
			r.codes[code] = c
		}
	}
	return nil
}

// studentsStub only answers GetParentByID; everything else panics on use.
type studentsStub struct {
	student.Repository
	parent student.Parent
	err    error
}

func (s studentsStub) GetParentByID(context.Context, string) (student.Parent, error) {
	return s.parent, s.err
}

var codeTestConf = &core.Config{
	LinkCodeTTL: 24 * time.Hour,
	Telegram:    core.TelegramConfig{BotUsername: "attendancr_bot"},
}

func Test_Service_IssueLink_collisionRetry(t *testing.T) {
	defer func() { randIndexFunc = randIndex }()

	// first 6 draws collide with the seeded code, the next 6 do not
	var draws int
	randIndexFunc = func(n int) int {
		draws++
		if draws <= codeLength {
			return 0
		}
		return 1
	}

	repo := &repoStub{codes: map[string]Code{
		"AAAAAA": {ID: "code-AAAAAA", Code: "AAAAAA", ParentID: "p1"},
	}}
	students := studentsStub{parent: student.Parent{ID: "p1", Name: "Mary Tan"}}
	svc := NewService(repo, students, nil, codeTestConf, core.NewNopLogger())

	lnk, err := svc.IssueLink(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", lnk.Code)
	assert.Equal(t, "https://t.me/attendancr_bot?start=BBBBBB", lnk.Link)

	created, ok := repo.codes["BBBBBB"]
	require.True(t, ok)
	assert.Equal(t, "p1", created.ParentID)
	assert.Equal(t, created.CreatedAt.Add(codeTestConf.LinkCodeTTL), created.ExpiresAt)
}

func Test_Service_IssueLink_exhausted(t *testing.T) {
	defer func() { randIndexFunc = randIndex }()
	randIndexFunc = func(n int) int { return 0 } // every draw collides

	repo := &repoStub{codes: map[string]Code{
		"AAAAAA": {ID: "code-AAAAAA", Code: "AAAAAA", ParentID: "p1"},
	}}
	students := studentsStub{parent: student.Parent{ID: "p1"}}
	svc := NewService(repo, students, nil, codeTestConf, core.NewNopLogger())

	_, err := svc.IssueLink(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func Test_Service_IssueLink_storeError(t *testing.T) {
	repo := &repoStub{codes: map[string]Code{}, getErr: errors.New("connection refused")}
	students := studentsStub{parent: student.Parent{ID: "p1"}}
	svc := NewService(repo, students, nil, codeTestConf, core.NewNopLogger())

	// an unreachable store is not a collision
	_, err := svc.IssueLink(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCodeExhausted)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, repo.codes)
}

func Test_Service_IssueLink_unknownParent(t *testing.T) {
	repo := &repoStub{codes: map[string]Code{}}
	students := studentsStub{err: student.ErrParentNotFound}
	svc := NewService(repo, students, nil, codeTestConf, core.NewNopLogger())

	_, err := svc.IssueLink(context.Background(), "nope")
	assert.ErrorIs(t, err, student.ErrParentNotFound)
	assert.Empty(t, repo.codes)
}
