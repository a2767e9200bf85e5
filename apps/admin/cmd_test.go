package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancr/attendancr/core/staff"
	dummydb "github.com/attendancr/attendancr/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	return &commandLine{staffSvc: staff.NewService(dummydb.NewStaffRepository(db))}
}

func mockPrompt(t *testing.T, value string) {
	t.Helper()

	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(value), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func Test_commandLine_run_help(t *testing.T) {
	cli := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"admin"}},
		{"unknown command", []string{"admin", "frobnicate"}},
		{"addstaff without name", []string{"admin", "addstaff"}},
		{"createadmin without email", []string{"admin", "createadmin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, cli.run(tt.args), errHelp)
		})
	}
}

func Test_commandLine_addStaff(t *testing.T) {
	cli := setup(t)

	mockPrompt(t, "111111")
	require.NoError(t, cli.run([]string{"admin", "addstaff", "-name", "Alice"}))

	st, err := cli.staffSvc.Authenticate(context.Background(), "111111")
	require.NoError(t, err)
	assert.Equal(t, "Alice", st.Name)
}

func Test_commandLine_addStaff_badPIN(t *testing.T) {
	cli := setup(t)

	mockPrompt(t, "123")
	err := cli.run([]string{"admin", "addstaff", "-name", "Alice"})
	assert.ErrorIs(t, err, staff.ErrInvalidPINFormat)
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli := setup(t)

	mockPrompt(t, "s3cr3t-pwd")
	require.NoError(t, cli.run([]string{"admin", "createadmin", "-email", "admin@centre.sg"}))

	adm, err := cli.staffSvc.AuthenticateAdmin(context.Background(), "admin@centre.sg", "s3cr3t-pwd")
	require.NoError(t, err)
	assert.Equal(t, "admin@centre.sg", adm.Email)
}
