package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDeliversInOrder(t *testing.T) {
	pub := NewInMemory(4)
	pub.PublishDispatch(context.Background(), DispatchRecorded{ID: "a"})
	pub.PublishDispatch(context.Background(), DispatchRecorded{ID: "b"})

	sub := pub.SubscribeDispatch()
	assert.Equal(t, "a", (<-sub).ID)
	assert.Equal(t, "b", (<-sub).ID)
}

func TestInMemoryDropsWhenFull(t *testing.T) {
	pub := NewInMemory(1)
	pub.PublishDispatch(context.Background(), DispatchRecorded{ID: "kept"})
	pub.PublishDispatch(context.Background(), DispatchRecorded{ID: "dropped"})

	sub := pub.SubscribeDispatch()
	require.Len(t, sub, 1)
	assert.Equal(t, "kept", (<-sub).ID)
}
