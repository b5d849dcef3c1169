package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRankingRequest(t *testing.T) {
	data, err := json.Marshal(RankingRequest{BookingID: 42, Reason: ReasonBookingCreated, RequestedAt: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	req, err := DecodeRankingRequest(data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), req.BookingID)
	assert.Equal(t, ReasonBookingCreated, req.Reason)

	_, err = DecodeRankingRequest([]byte(`{"reason":"manual"}`))
	assert.Error(t, err)

	_, err = DecodeRankingRequest([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeRevealEvent(t *testing.T) {
	event, err := DecodeRevealEvent([]byte(`{"type":"destination_revealed","booking_id":7,"email":"fan@example.com","destination_name":"Borussia Dortmund"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), event.BookingID)
	assert.Equal(t, "Borussia Dortmund", event.DestinationName)

	_, err = DecodeRevealEvent([]byte(`{"type":"booking_created"}`))
	assert.Error(t, err)
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducer(nil)
	defer p.Close()
	assert.Error(t, p.CheckConnection(t.Context()))
}
