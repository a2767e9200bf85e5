package roster_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/student"
	dummydb "github.com/attendancr/attendancr/storage/database/dummy"
)

type sourceMock struct {
	table [][]string
	err   error
}

func (s *sourceMock) Fetch(context.Context) ([][]string, error) { return s.table, s.err }

var header = []string{roster.ColStudentID, roster.ColStudentName, roster.ColPrimaryParentName, roster.ColPrimaryParentPhone}

func setup(t *testing.T) (*roster.Service, *sourceMock, student.Repository, roster.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	students := dummydb.NewStudentRepository(db)
	repo := dummydb.NewRosterRepository(db)
	src := &sourceMock{}
	svc := roster.NewService(repo, students, src, core.NewNopLogger())
	return svc, src, students, repo
}

func lastSyncLog(t *testing.T, repo roster.Repository) roster.SyncLog {
	t.Helper()

	logs, err := repo.QuerySyncLogs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	return logs[0]
}

func Test_Service_Synchronize_lifecycle(t *testing.T) {
	svc, src, students, repo := setup(t)
	ctx := context.Background()

	// first run: S1 is new
	src.table = [][]string{header, {"S1", "Ann Tan", "Mary Tan", "91234567"}}
	outcome := svc.Synchronize(ctx)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, 0, outcome.Updated)
	assert.Equal(t, 0, outcome.Deleted)
	assert.Empty(t, outcome.Errors)

	all, err := students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "S1", all[0].StudentID)
	assert.Equal(t, "Ann Tan", all[0].Name)
	assert.True(t, all[0].IsActive)

	parent, err := students.GetParentByPhone(ctx, "91234567")
	require.NoError(t, err)
	assert.Equal(t, "Mary Tan", parent.Name)
	assert.Equal(t, parent.ID, all[0].PrimaryParentID.String)

	syncLog := lastSyncLog(t, repo)
	assert.Equal(t, roster.StatusSuccess, syncLog.Status)
	assert.True(t, syncLog.CompletedAt.Valid)
	assert.Equal(t, 1, syncLog.Added)

	// second run, same snapshot: update, not add
	outcome = svc.Synchronize(ctx)
	assert.True(t, outcome.Success)
	assert.Equal(t, 0, outcome.Added)
	assert.Equal(t, 1, outcome.Updated)
	assert.Equal(t, 0, outcome.Deleted)

	all, err = students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// third run: S1 gone from the snapshot, S2 appears
	src.table = [][]string{header, {"S2", "Ben Lim", "John Lim", "98765432"}}
	outcome = svc.Synchronize(ctx)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, 0, outcome.Updated)
	assert.Equal(t, 1, outcome.Deleted)

	active, err := students.FilterStudents(ctx, student.QueryFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "S2", active[0].StudentID)

	// soft delete: S1 stays, deactivated
	all, err = students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func Test_Service_Synchronize_rowErrors(t *testing.T) {
	svc, src, students, repo := setup(t)
	ctx := context.Background()

	src.table = [][]string{
		header,
		{"S1", "", "Mary Tan", "91234567"}, // missing name
		{"S2", "Ben Lim", "John Lim", "98765432"},
	}
	outcome := svc.Synchronize(ctx)

	// a bad row is reported and skipped, the run still succeeds
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Added)
	assert.Equal(t, []string{"Row 2: missing required fields"}, outcome.Errors)

	all, err := students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "S2", all[0].StudentID)

	syncLog := lastSyncLog(t, repo)
	assert.Equal(t, roster.StatusSuccess, syncLog.Status)
	assert.Equal(t, "Row 2: missing required fields", syncLog.ErrorMessage.String)
}

func Test_Service_Synchronize_missingColumn(t *testing.T) {
	svc, src, _, repo := setup(t)

	src.table = [][]string{
		{roster.ColStudentName, roster.ColPrimaryParentName, roster.ColPrimaryParentPhone},
		{"Ann Tan", "Mary Tan", "91234567"},
	}
	outcome := svc.Synchronize(context.Background())

	assert.False(t, outcome.Success)
	require.NotEmpty(t, outcome.Errors)
	assert.Equal(t, "missing required column: Student ID", outcome.Errors[0])

	syncLog := lastSyncLog(t, repo)
	assert.Equal(t, roster.StatusFailed, syncLog.Status)
	assert.Equal(t, "missing required column: Student ID", syncLog.ErrorMessage.String)
}

func Test_Service_Synchronize_emptySheet(t *testing.T) {
	svc, src, _, repo := setup(t)

	src.table = [][]string{header} // header only
	outcome := svc.Synchronize(context.Background())

	assert.False(t, outcome.Success)
	assert.Equal(t, []string{"no data found in sheet"}, outcome.Errors)
	assert.Equal(t, roster.StatusFailed, lastSyncLog(t, repo).Status)
}

func Test_Service_Synchronize_fetchError(t *testing.T) {
	svc, src, _, repo := setup(t)

	src.err = errors.New("googleapi: Error 403: forbidden")
	outcome := svc.Synchronize(context.Background())

	assert.False(t, outcome.Success)
	assert.Equal(t, []string{"googleapi: Error 403: forbidden"}, outcome.Errors)

	syncLog := lastSyncLog(t, repo)
	assert.Equal(t, roster.StatusFailed, syncLog.Status)
	assert.True(t, syncLog.CompletedAt.Valid)
}

func Test_Service_Synchronize_sharedGuardianPhone(t *testing.T) {
	svc, src, students, _ := setup(t)
	ctx := context.Background()

	// two students naming the same phone collapse to one parent record,
	// last write wins on the name
	src.table = [][]string{
		header,
		{"S1", "Ann Tan", "Mary Tan", "91234567"},
		{"S2", "Ben Tan", "M. Tan", "91234567"},
	}
	outcome := svc.Synchronize(ctx)
	assert.True(t, outcome.Success)
	assert.Equal(t, 2, outcome.Added)

	parents, err := students.QueryAllParents(ctx)
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "M. Tan", parents[0].Name)

	all, err := students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, parents[0].ID, all[0].PrimaryParentID.String)
	assert.Equal(t, parents[0].ID, all[1].PrimaryParentID.String)
}

func Test_Service_Synchronize_secondaryGuardian(t *testing.T) {
	svc, src, students, _ := setup(t)
	ctx := context.Background()

	src.table = [][]string{
		{roster.ColStudentID, roster.ColStudentName, roster.ColPrimaryParentName, roster.ColPrimaryParentPhone, roster.ColSecondParentName, roster.ColSecondParentPhone},
		{"S1", "Ann Tan", "Mary Tan", "91234567", "Peter Tan", "98765432"},
		{"S2", "Ben Lim", "John Lim", "91112222", "", ""}, // secondary absent
	}
	outcome := svc.Synchronize(ctx)
	assert.True(t, outcome.Success)
	assert.Equal(t, 2, outcome.Added)

	all, err := students.FilterStudents(ctx, student.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byKey := map[string]student.Student{}
	for _, st := range all {
		byKey[st.StudentID] = st
	}
	assert.True(t, byKey["S1"].SecondaryParentID.Valid)
	assert.False(t, byKey["S2"].SecondaryParentID.Valid)

	secondary, err := students.GetParentByPhone(ctx, "98765432")
	require.NoError(t, err)
	assert.Equal(t, "Peter Tan", secondary.Name)
}
