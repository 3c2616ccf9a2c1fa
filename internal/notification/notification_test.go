package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentanything/internal/domain"
	"rentanything/internal/pkg/jwt"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleNotification(recipient string) domain.Notification {
	b := &domain.Booking{
		ID:        "booking-1",
		ListingID: "listing-1",
		Status:    domain.BookingPending,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	return domain.NewBookingNotification(domain.NotifBookingRequested, recipient, b, time.Now())
}

func startServer(t *testing.T, hub *Hub, jwtService *jwt.Service) *httptest.Server {
	t.Helper()
	r := gin.New()
	NewHandler(hub, jwtService, []string{"*"}).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + token
}

func TestHandler_DeliversToAuthenticatedUser(t *testing.T) {
	hub := NewHub(nil)
	jwtService := jwt.New("secret", time.Hour)
	srv := startServer(t, hub, jwtService)

	token, err := jwtService.GenerateToken("owner-1", "")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsOnline("owner-1") }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, hub.SendToUser("someone-else", sampleNotification("someone-else")))
	assert.Equal(t, 1, hub.SendToUser("owner-1", sampleNotification("owner-1")))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.Notification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, domain.NotifBookingRequested, got.Type)
	assert.Equal(t, "booking-1", got.BookingID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.IsOnline("owner-1") }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RejectsMissingOrBadToken(t *testing.T) {
	srv := startServer(t, NewHub(nil), jwt.New("secret", time.Hour))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	var logs bytes.Buffer
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewAsyncProducer(t, cfg)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "booking-1" {
			return errors.New("unexpected key " + string(key))
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Key) != "event_type" {
			return errors.New("missing event_type header")
		}
		raw, _ := msg.Value.Encode()
		var n domain.Notification
		return json.Unmarshal(raw, &n)
	})

	pub := NewKafkaPublisherWithProducer(producer, "dev.", newTestLogger(&logs))
	assert.Equal(t, "dev.booking-events", pub.Topic())
	require.NoError(t, pub.Publish(context.Background(), sampleNotification("owner-1")))
	require.NoError(t, pub.Close())

	assert.Contains(t, logs.String(), "booking event delivered")
	assert.Contains(t, logs.String(), "dev.booking-events")
}

func TestKafkaPublisher_DeliveryFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	producer := mocks.NewAsyncProducer(t, mocks.NewTestConfig())
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "", newTestLogger(&logs))
	// enqueueing succeeds; the broker outcome arrives later
	require.NoError(t, pub.Publish(context.Background(), sampleNotification("owner-1")))
	require.NoError(t, pub.Close())

	assert.Contains(t, logs.String(), "booking event delivery failed")
	assert.Contains(t, logs.String(), sarama.ErrOutOfBrokers.Error())
	assert.Contains(t, logs.String(), "booking_id=booking-1")
}

func TestKafkaPublisher_PublishAfterClose(t *testing.T) {
	pub := NewKafkaPublisherWithProducer(mocks.NewAsyncProducer(t, mocks.NewTestConfig()), "", newTestLogger(io.Discard))
	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	err := pub.Publish(context.Background(), sampleNotification("owner-1"))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestKafkaPublisher_PublishHonoursContext(t *testing.T) {
	// an unbuffered input nobody reads from until Close
	blocked := &stalledProducer{AsyncProducer: mocks.NewAsyncProducer(t, mocks.NewTestConfig()), input: make(chan *sarama.ProducerMessage)}
	pub := NewKafkaPublisherWithProducer(blocked, "", newTestLogger(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pub.Publish(ctx, sampleNotification("owner-1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, pub.Close())
}

type stalledProducer struct {
	*mocks.AsyncProducer
	input chan *sarama.ProducerMessage
}

func (s *stalledProducer) Input() chan<- *sarama.ProducerMessage { return s.input }

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, domain.Notification) error {
	f.calls++
	return errors.New("broker down")
}

func TestNotifier_ReportsPublisherFailure(t *testing.T) {
	pub := &failingPublisher{}
	n := NewNotifier(NewHub(nil), pub, nil)

	err := n.Notify(context.Background(), sampleNotification("renter-1"))
	assert.Error(t, err)
	assert.Equal(t, 1, pub.calls)
}

func TestNotifier_HubOnly(t *testing.T) {
	n := NewNotifier(NewHub(nil), nil, nil)
	assert.NoError(t, n.Notify(context.Background(), sampleNotification("renter-1")))
}
