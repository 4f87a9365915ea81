package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSenderRetriesTransientFailures(t *testing.T) {
	mock := NewMockProvider()
	mock.Fail = 2

	s := NewSender(mock)
	s.backoff = time.Millisecond

	err := s.Send(context.Background(), Message{OpenID: "o1", Data: map[string]string{"k": "v"}})
	require.NoError(t, err)
	require.Equal(t, 1, mock.SentCount())
}

func TestSenderGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	mock.Fail = 100

	s := NewSender(mock)
	s.backoff = time.Millisecond

	err := s.Send(context.Background(), Message{OpenID: "o1"})
	require.Error(t, err)
	require.Equal(t, 0, mock.SentCount())
}

func TestSenderStopsOnRejection(t *testing.T) {
	mock := NewMockProvider()
	mock.Rejected["o1"] = true

	s := NewSender(mock)
	s.backoff = time.Millisecond

	err := s.Send(context.Background(), Message{OpenID: "o1"})
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "o1", rejected.OpenID)
	require.Equal(t, 0, mock.SentCount())
}
