package logout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/logout"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func Test_CommandHandler_Handle_ClearsSessionAndIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	manager, err := session.NewManager(ctx, session.NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, manager.Establish(ctx, session.Session{Role: core.RoleUser, Email: "ann@example.org", ID: "2"}))

	var notified []session.Session
	manager.Subscribe(func(s session.Session) { notified = append(notified, s) })
	handler := logout.NewCommandHandler(manager)

	// act
	first, firstErr := handler.Handle(ctx, logout.BuildCommand())
	second, secondErr := handler.Handle(ctx, logout.BuildCommand())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent)
	assert.True(t, manager.Current().IsZero())
	assert.Len(t, notified, 2)
}
