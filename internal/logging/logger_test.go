package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("nonsense"))
}

type recordingTransport struct {
	events []*sentry.Event
}

func (t *recordingTransport) Configure(sentry.ClientOptions) {}
func (t *recordingTransport) SendEvent(event *sentry.Event) { t.events = append(t.events, event) }
func (t *recordingTransport) Flush(_ time.Duration) bool { return true }
func (t *recordingTransport) FlushWithContext(_ context.Context) bool { return true }
func (t *recordingTransport) Close() {}

func TestSentryHook_Fire(t *testing.T) {
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	require.NoError(t, err)

	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.hub = sentry.NewHub(client, sentry.NewScope())
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	logger := logrus.New()
	logger.AddHook(hook)
	logger.SetOutput(&discard{})

	logger.Info("not forwarded")
	logger.WithError(errors.New("db gone")).WithField("session", "abc").Error("complete session")

	require.Len(t, transport.events, 1)
	event := transport.events[0]
	assert.Equal(t, "complete session", event.Message)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "abc", event.Extra["session"])
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "db gone", event.Exception[0].Value)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
