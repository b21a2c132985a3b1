package usermgmt_test

import (
	"testing"

	usermgmt "github.com/goliatone/go-usermgmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteConfirmationFlow(t *testing.T) {
	target := usermgmt.User{ID: uuid.New(), Username: "bob"}

	confirmation := usermgmt.NewDeleteConfirmation(target)
	assert.NotEqual(t, uuid.Nil, confirmation.ID)
	assert.Equal(t, usermgmt.ConfirmationPending, confirmation.State())
	assert.False(t, confirmation.Resolved())

	require.NoError(t, confirmation.Confirm())
	assert.Equal(t, usermgmt.ConfirmationConfirmed, confirmation.State())
	assert.True(t, confirmation.Resolved())

	// Terminal: neither decision applies twice.
	assert.ErrorIs(t, confirmation.Confirm(), usermgmt.ErrConfirmationResolved)
	assert.ErrorIs(t, confirmation.Cancel(), usermgmt.ErrConfirmationResolved)
}

func TestDeleteConfirmationCancel(t *testing.T) {
	confirmation := usermgmt.NewDeleteConfirmation(usermgmt.User{ID: uuid.New()})

	require.NoError(t, confirmation.Cancel())
	assert.Equal(t, usermgmt.ConfirmationCancelled, confirmation.State())
	assert.ErrorIs(t, confirmation.Confirm(), usermgmt.ErrConfirmationResolved)
}
