package messaging

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBody(t *testing.T) {
	t.Run("accepts a normal body", func(t *testing.T) {
		assert.NoError(t, ValidateBody("Hello, is this still available?"))
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		err := ValidateBody("")
		assert.Error(t, err)
	})

	t.Run("accepts exactly 500 characters", func(t *testing.T) {
		assert.NoError(t, ValidateBody(strings.Repeat("a", 500)))
	})

	t.Run("rejects 501 characters", func(t *testing.T) {
		err := ValidateBody(strings.Repeat("a", 501))
		assert.Error(t, err)
	})

	t.Run("counts runes not bytes for multi-byte text", func(t *testing.T) {
		// 500 CJK characters are 1500 bytes but still within the limit
		assert.NoError(t, ValidateBody(strings.Repeat("你", 500)))
		assert.Error(t, ValidateBody(strings.Repeat("你", 501)))
	})
}

func TestNewMessage(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	t.Run("creates an unread message with an event", func(t *testing.T) {
		msg, err := NewMessage(sender, receiver, "aa:bb:cc", nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, msg.ID)
		assert.Equal(t, sender, msg.SenderID)
		assert.Equal(t, receiver, msg.ReceiverID)
		assert.False(t, msg.IsRead)
		assert.Nil(t, msg.OrderID)

		events := msg.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMessageSent, events[0].EventType())
	})

	t.Run("keeps order and product references", func(t *testing.T) {
		orderID := uuid.New()
		productID := uuid.New()
		msg, err := NewMessage(sender, receiver, "aa:bb:cc", &orderID, &productID)
		require.NoError(t, err)
		assert.Equal(t, &orderID, msg.OrderID)
		assert.Equal(t, &productID, msg.ProductID)
	})

	t.Run("rejects empty participants", func(t *testing.T) {
		_, err := NewMessage(uuid.Nil, receiver, "aa:bb:cc", nil, nil)
		assert.Error(t, err)

		_, err = NewMessage(sender, uuid.Nil, "aa:bb:cc", nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects self-messaging", func(t *testing.T) {
		_, err := NewMessage(sender, sender, "aa:bb:cc", nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects an empty envelope", func(t *testing.T) {
		_, err := NewMessage(sender, receiver, "", nil, nil)
		assert.Error(t, err)
	})
}

func TestMessage_MarkRead(t *testing.T) {
	msg, err := NewMessage(uuid.New(), uuid.New(), "aa:bb:cc", nil, nil)
	require.NoError(t, err)

	created := msg.UpdatedAt

	t.Run("first call flips the flag", func(t *testing.T) {
		assert.True(t, msg.MarkRead())
		assert.True(t, msg.IsRead)
		assert.False(t, msg.UpdatedAt.Before(created))
	})

	t.Run("second call is an idempotent no-op", func(t *testing.T) {
		stamp := msg.UpdatedAt
		assert.False(t, msg.MarkRead())
		assert.True(t, msg.IsRead)
		assert.Equal(t, stamp, msg.UpdatedAt)
	})
}

func TestMessage_Counterpart(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	msg, err := NewMessage(sender, receiver, "aa:bb:cc", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, receiver, msg.Counterpart(sender))
	assert.Equal(t, sender, msg.Counterpart(receiver))

	assert.True(t, msg.Involves(sender))
	assert.True(t, msg.Involves(receiver))
	assert.False(t, msg.Involves(uuid.New()))

	assert.True(t, msg.UnreadFor(receiver))
	assert.False(t, msg.UnreadFor(sender))
	msg.MarkRead()
	assert.False(t, msg.UnreadFor(receiver))
}
