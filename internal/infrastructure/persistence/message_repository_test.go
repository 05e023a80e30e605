package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/messaging"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

func setupMessageTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.MessageModel{})
	require.NoError(t, err)

	return db
}

// seedMessage stores a message with a fixed creation time so ordering
// assertions are deterministic
func seedMessage(t *testing.T, repo *GormMessageRepository, sender, receiver uuid.UUID, orderID *uuid.UUID, createdAt time.Time) *messaging.Message {
	t.Helper()

	msg, err := messaging.NewMessage(sender, receiver, "00ff:aa11:envelope", orderID, nil)
	require.NoError(t, err)
	msg.CreatedAt = createdAt
	msg.UpdatedAt = createdAt

	require.NoError(t, repo.Save(context.Background(), msg))
	return msg
}

func TestGormMessageRepository_SaveAndFindByID(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()

	orderID := uuid.New()
	productID := uuid.New()
	msg, err := messaging.NewMessage(uuid.New(), uuid.New(), "aa:bb:cc", &orderID, &productID)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, msg))

	found, err := repo.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, found.ID)
	assert.Equal(t, msg.SenderID, found.SenderID)
	assert.Equal(t, msg.ReceiverID, found.ReceiverID)
	assert.Equal(t, "aa:bb:cc", found.BodyEnvelope)
	require.NotNil(t, found.OrderID)
	assert.Equal(t, orderID, *found.OrderID)
	require.NotNil(t, found.ProductID)
	assert.Equal(t, productID, *found.ProductID)
	assert.False(t, found.IsRead)
}

func TestGormMessageRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMessageRepository_FindConversation(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	orderID := uuid.New()

	first := seedMessage(t, repo, alice, bob, nil, base)
	second := seedMessage(t, repo, bob, alice, &orderID, base.Add(time.Minute))
	third := seedMessage(t, repo, alice, bob, &orderID, base.Add(2*time.Minute))
	seedMessage(t, repo, alice, carol, nil, base.Add(3*time.Minute))

	t.Run("includes both directions, oldest first", func(t *testing.T) {
		msgs, err := repo.FindConversation(ctx, alice, bob, nil)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, first.ID, msgs[0].ID)
		assert.Equal(t, second.ID, msgs[1].ID)
		assert.Equal(t, third.ID, msgs[2].ID)
	})

	t.Run("pair is unordered", func(t *testing.T) {
		msgs, err := repo.FindConversation(ctx, bob, alice, nil)
		require.NoError(t, err)
		assert.Len(t, msgs, 3)
	})

	t.Run("order filter narrows the result", func(t *testing.T) {
		msgs, err := repo.FindConversation(ctx, alice, bob, &orderID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, second.ID, msgs[0].ID)
		assert.Equal(t, third.ID, msgs[1].ID)
	})

	t.Run("strangers get an empty conversation", func(t *testing.T) {
		msgs, err := repo.FindConversation(ctx, bob, carol, nil)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestGormMessageRepository_FindAllForUser(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	oldest := seedMessage(t, repo, alice, bob, nil, base)
	middle := seedMessage(t, repo, carol, alice, nil, base.Add(time.Minute))
	newest := seedMessage(t, repo, alice, carol, nil, base.Add(2*time.Minute))
	seedMessage(t, repo, bob, carol, nil, base.Add(3*time.Minute))

	msgs, err := repo.FindAllForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, newest.ID, msgs[0].ID)
	assert.Equal(t, middle.ID, msgs[1].ID)
	assert.Equal(t, oldest.ID, msgs[2].ID)
}

func TestGormMessageRepository_FindForOrder(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	alice, bob := uuid.New(), uuid.New()
	orderID := uuid.New()

	first := seedMessage(t, repo, alice, bob, &orderID, base)
	second := seedMessage(t, repo, bob, alice, &orderID, base.Add(time.Minute))
	seedMessage(t, repo, alice, bob, nil, base.Add(2*time.Minute))

	msgs, err := repo.FindForOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
}

func TestGormMessageRepository_MarkRead(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	msg := seedMessage(t, repo, alice, bob, nil, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	t.Run("flips unread to read", func(t *testing.T) {
		updated, err := repo.MarkRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.True(t, updated.IsRead)

		found, err := repo.FindByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.True(t, found.IsRead)
	})

	t.Run("second call is a no-op that still succeeds", func(t *testing.T) {
		updated, err := repo.MarkRead(ctx, msg.ID)
		require.NoError(t, err)
		assert.True(t, updated.IsRead)
	})

	t.Run("missing message reports not found", func(t *testing.T) {
		_, err := repo.MarkRead(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMessageRepository_MarkConversationRead(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	alice, bob := uuid.New(), uuid.New()

	seedMessage(t, repo, alice, bob, nil, base)
	seedMessage(t, repo, alice, bob, nil, base.Add(time.Minute))
	reply := seedMessage(t, repo, bob, alice, nil, base.Add(2*time.Minute))

	// Only alice→bob flips; bob's reply stays unread
	changed, err := repo.MarkConversationRead(ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	found, err := repo.FindByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.False(t, found.IsRead)

	// Nothing left to flip
	changed, err = repo.MarkConversationRead(ctx, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestGormMessageRepository_DeleteIfOwned(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	msg := seedMessage(t, repo, alice, bob, nil, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	t.Run("receiver cannot delete or learn existence", func(t *testing.T) {
		err := repo.DeleteIfOwned(ctx, msg.ID, bob)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByID(ctx, msg.ID)
		require.NoError(t, err)
	})

	t.Run("sender deletes own message", func(t *testing.T) {
		require.NoError(t, repo.DeleteIfOwned(ctx, msg.ID, alice))

		_, err := repo.FindByID(ctx, msg.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing message reports not found", func(t *testing.T) {
		err := repo.DeleteIfOwned(ctx, uuid.New(), alice)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormMessageRepository_CountUnread(t *testing.T) {
	repo := NewGormMessageRepository(setupMessageTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	seedMessage(t, repo, bob, alice, nil, base)
	seedMessage(t, repo, carol, alice, nil, base.Add(time.Minute))
	read := seedMessage(t, repo, bob, alice, nil, base.Add(2*time.Minute))
	seedMessage(t, repo, alice, bob, nil, base.Add(3*time.Minute))

	_, err := repo.MarkRead(ctx, read.ID)
	require.NoError(t, err)

	count, err := repo.CountUnread(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountUnread(ctx, carol)
	require.NoError(t, err)
	assert.Zero(t, count)
}
