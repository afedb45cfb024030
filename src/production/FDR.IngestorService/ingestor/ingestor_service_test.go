package fdringestor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWeightMessageJSONPayload(t *testing.T) {
	report, err := ParseWeightMessage("feeders/FEEDER1/weight", []byte(`{"weight": 120.5}`))
	require.NoError(t, err)
	require.Equal(t, "FEEDER1", report.DeviceID)
	require.Equal(t, 120.5, report.Weight)
	require.Equal(t, "feeders/FEEDER1/weight", report.Topic)
	require.False(t, report.ReceivedAt.IsZero())
}

func TestParseWeightMessageBareNumber(t *testing.T) {
	report, err := ParseWeightMessage("feeders/FEEDER2/weight", []byte(" 98.25 \n"))
	require.NoError(t, err)
	require.Equal(t, "FEEDER2", report.DeviceID)
	require.Equal(t, 98.25, report.Weight)
}

func TestParseWeightMessageBadTopic(t *testing.T) {
	for _, topic := range []string{"weight", "feeders/weight", "feeders//weight"} {
		_, err := ParseWeightMessage(topic, []byte("42"))
		require.Error(t, err, "topic %q", topic)
	}
}

func TestParseWeightMessageBadPayload(t *testing.T) {
	for _, payload := range []string{"", "not-a-number", `{"weight": "heavy"}`, `{"temp": 20}`} {
		_, err := ParseWeightMessage("feeders/FEEDER1/weight", []byte(payload))
		require.Error(t, err, "payload %q", payload)
	}
}
