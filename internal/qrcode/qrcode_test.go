package qrcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	p := Payload{Scene: "expense", ID: 42}
	require.Equal(t, "expense#42", p.String())

	parsed, err := ParsePayload(p.String())
	require.NoError(t, err)
	require.Equal(t, p, parsed)
}

func TestParsePayloadRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "expense", "#42", "expense#", "expense#abc", "expense#-3", "expense#0"} {
		_, err := ParsePayload(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI(Payload{Scene: "signin", ID: 7})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	require.Greater(t, len(uri), 100)
}
