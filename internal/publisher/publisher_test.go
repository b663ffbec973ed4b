package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/unifi-search-tool/unifi-search/internal/macaddr"
	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	err    error
	sent   []published
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 2, 0, time.UTC)

func newTestPublisher(t *testing.T, ch *fakeChannel) *Publisher {
	t.Helper()

	p := newWithChannel(ch, "unifi.events", zaptest.NewLogger(t).Sugar())
	p.now = func() time.Time { return fixedNow }

	return p
}

func testRecord(outcome search.Outcome) search.Record {
	return search.Record{
		ID:         "search-42",
		TargetMAC:  "AA-BB-CC-DD-EE-FF",
		ServerURL:  "https://controller.example:8443",
		StartedAt:  fixedNow.Add(-2 * time.Second),
		FinishedAt: fixedNow,
		Outcome:    outcome,
	}
}

func TestSearchCompletedFound(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(t, ch)
	assert.Equal(t, "rabbitmq", p.Name())

	d := unifi.Device{
		MAC:   "aa:bb:cc:dd:ee:ff",
		Addr:  macaddr.MustParse("aa:bb:cc:dd:ee:ff"),
		State: 1,
		Type:  "usw",
		Model: "US8",
		Name:  "Closet switch",
		Site:  "Branch",
	}

	require.NoError(t, p.SearchCompleted(context.Background(), testRecord(search.Found(d))))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "unifi.events", sent.exchange)
	assert.Equal(t, "search.completed", sent.key)
	assert.Equal(t, "application/cloudevents+json", sent.msg.ContentType)
	assert.Equal(t, fixedNow, sent.msg.Timestamp)

	var event struct {
		SpecVersion string `json:"specversion"`
		Type        string `json:"type"`
		Source      string `json:"source"`
		ID          string `json:"id"`
		Time        string `json:"time"`
		Subject     string `json:"subject"`
		Data        struct {
			SearchID    string         `json:"search_id"`
			Status      string         `json:"status"`
			TargetMAC   string         `json:"target_mac"`
			Device      map[string]any `json:"device"`
			DeviceLabel string         `json:"device_label"`
			DurationMS  int64          `json:"duration_ms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sent.msg.Body, &event))

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, "unifi.search.completed", event.Type)
	assert.Equal(t, "/services/unifi-search", event.Source)
	assert.Equal(t, sent.msg.MessageId, event.ID)
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:00:02Z", event.Time)
	assert.Equal(t, "search-42", event.Subject)

	assert.Equal(t, "search-42", event.Data.SearchID)
	assert.Equal(t, "found", event.Data.Status)
	assert.Equal(t, "AA-BB-CC-DD-EE-FF", event.Data.TargetMAC)
	assert.Equal(t, "Closet switch", event.Data.DeviceLabel)
	assert.Equal(t, "Connected", event.Data.Device["state"])
	assert.Equal(t, "Branch", event.Data.Device["site"])
	assert.Equal(t, int64(2000), event.Data.DurationMS)
}

func TestSearchCompletedFailed(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(t, ch)

	outcome := search.Failed(&unifi.APIError{Kind: unifi.KindTransport, URL: "https://controller.example:8443/api/self/sites", StatusCode: 502})
	require.NoError(t, p.SearchCompleted(context.Background(), testRecord(outcome)))
	require.Len(t, ch.sent, 1)

	var event CloudEvent
	require.NoError(t, json.Unmarshal(ch.sent[0].msg.Body, &event))

	data, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "failed", data["status"])
	assert.Equal(t, "TransportError", data["error_kind"])
	assert.Contains(t, data["error_message"], "HTTP 502")
	assert.NotContains(t, data, "device")
}

func TestSearchCompletedPublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := newTestPublisher(t, ch)

	err := p.SearchCompleted(context.Background(), testRecord(search.NotFound()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestCloseWithoutConnection(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(t, ch)

	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
