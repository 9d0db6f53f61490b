package services

import (
	"context"
	"testing"

	"trailmate_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractionFixture() (*InteractionService, *memoryStore) {
	store := newMemoryStore()
	return &InteractionService{Dynamo: store}, store
}

func TestInteractionService_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newInteractionFixture()

	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))
	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))

	assert.Equal(t, 1, store.count(models.InteractionsTable))

	found, err := svc.Has(ctx, "alice", "bob", models.InteractionKindLike)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInteractionService_HasDistinguishesKindAndDirection(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInteractionFixture()

	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))

	reverse, err := svc.Has(ctx, "bob", "alice", models.InteractionKindLike)
	require.NoError(t, err)
	assert.False(t, reverse)

	otherKind, err := svc.Has(ctx, "alice", "bob", models.InteractionKindPass)
	require.NoError(t, err)
	assert.False(t, otherKind)
}

func TestInteractionService_HasTerminal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInteractionFixture()

	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))
	blocked, err := svc.HasTerminal(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, blocked, "a like alone is not terminal")

	for _, kind := range models.TerminalKinds {
		other := "target-" + kind
		require.NoError(t, svc.Add(ctx, "alice", other, kind))
		blocked, err := svc.HasTerminal(ctx, "alice", other)
		require.NoError(t, err)
		assert.True(t, blocked, "kind %s should be terminal", kind)
	}
}

func TestInteractionService_InteractedIDsSpansAllKinds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInteractionFixture()

	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))
	require.NoError(t, svc.Add(ctx, "alice", "carol", models.InteractionKindPass))
	require.NoError(t, svc.Add(ctx, "alice", "dave", models.InteractionKindMatch))
	require.NoError(t, svc.Add(ctx, "eve", "alice", models.InteractionKindLike))

	ids, err := svc.InteractedIDs(ctx, "alice")
	require.NoError(t, err)

	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "bob")
	assert.Contains(t, ids, "carol")
	assert.Contains(t, ids, "dave")
	assert.NotContains(t, ids, "eve", "records others hold about alice do not count")
}

func TestInteractionService_ResetAllClearsOnlyOwnSide(t *testing.T) {
	ctx := context.Background()
	svc, store := newInteractionFixture()

	require.NoError(t, svc.Add(ctx, "alice", "bob", models.InteractionKindLike))
	require.NoError(t, svc.Add(ctx, "alice", "carol", models.InteractionKindPass))
	require.NoError(t, svc.Add(ctx, "bob", "alice", models.InteractionKindLike))

	require.NoError(t, svc.ResetAll(ctx, "alice"))

	ids, err := svc.InteractedIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)

	bobStillLikes, err := svc.Has(ctx, "bob", "alice", models.InteractionKindLike)
	require.NoError(t, err)
	assert.True(t, bobStillLikes)
	assert.Equal(t, 1, store.count(models.InteractionsTable))
}

func TestInteractionService_ResetAllOnEmptyLedger(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInteractionFixture()

	assert.NoError(t, svc.ResetAll(ctx, "ghost"))
}
