package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilProducerDropsEvents(t *testing.T) {
	p := NewProducer(nil)
	require.Nil(t, p)

	// Publishing through a nil producer is a silent no-op.
	err := p.Publish(context.Background(), TopicUserEvents, "client-1", map[string]any{"type": "user_logged_in"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNewProducerWithBrokers(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	require.NotNil(t, p)
	require.NoError(t, p.Close())
}
