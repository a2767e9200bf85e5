package staff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/staff"
	dummydb "github.com/attendancr/attendancr/storage/database/dummy"
)

func setup(t *testing.T) *staff.Service {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	return staff.NewService(dummydb.NewStaffRepository(db))
}

func Test_Service_Authenticate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, staff.NewStaff{Name: "Alice", PIN: "111111"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, staff.NewStaff{Name: "Bob", PIN: "222222"})
	require.NoError(t, err)

	// the probe finds the matching member, whoever it is
	got, err := svc.Authenticate(ctx, "222222")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	got, err = svc.Authenticate(ctx, "111111")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = svc.Authenticate(ctx, "999999")
	assert.ErrorIs(t, err, staff.ErrAuthenticationFailed)
}

func Test_Service_Authenticate_pinFormat(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for _, pin := range []string{"", "12345", "1234567", "12a456", "abcdef"} {
		_, err := svc.Authenticate(ctx, pin)
		require.Error(t, err, "pin %q", pin)
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr, "pin %q", pin) // rejected before any store access
	}
}

func Test_Service_Authenticate_deactivatedStaff(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, staff.NewStaff{Name: "Alice", PIN: "111111"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, alice.ID, false))

	_, err = svc.Authenticate(ctx, "111111")
	assert.ErrorIs(t, err, staff.ErrAuthenticationFailed)
}

func Test_Service_AuthenticateAdmin(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	adm, err := svc.CreateAdmin(ctx, " Admin@Centre.SG ", "s3cr3t-pwd")
	require.NoError(t, err)
	assert.Equal(t, "admin@centre.sg", adm.Email) // cleaned and lowered

	got, err := svc.AuthenticateAdmin(ctx, "admin@centre.sg", "s3cr3t-pwd")
	require.NoError(t, err)
	assert.Equal(t, adm.ID, got.ID)

	_, err = svc.AuthenticateAdmin(ctx, "admin@centre.sg", "wrong")
	assert.ErrorIs(t, err, staff.ErrAuthenticationFailed)

	// unknown admin is indistinguishable from a bad password
	_, err = svc.AuthenticateAdmin(ctx, "ghost@centre.sg", "s3cr3t-pwd")
	assert.ErrorIs(t, err, staff.ErrAuthenticationFailed)
}
