package sentry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentry_Builder(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(nil, nil)
	err := errors.New("contact store unavailable")
	extras := map[string]interface{}{"contact_id": 4}
	tags := map[string]string{"storage": "memory"}
	values := map[string]sentrygo.Context{"contact": {"id": 4}}

	s := new(Sentry)
	result := s.WithContext(ctx).
		WithError(err).
		WithMessage("add contact failed").
		WithLevel(sentrygo.LevelError).
		WithExtras(extras).
		WithTags(tags).
		WithContextValues(values)

	assert.Same(t, s, result, "builder should return the same instance")
	assert.Equal(t, ctx, s.context)
	assert.Equal(t, err, s.error)
	assert.Equal(t, "add contact failed", s.message)
	assert.Equal(t, sentrygo.LevelError, s.level)
	assert.Equal(t, extras, s.extras)
	assert.Equal(t, tags, s.tags)
	assert.Equal(t, values, s.contextValues)
}

func TestSentry_ConvenienceConstructors(t *testing.T) {
	ctx := echo.New().NewContext(nil, nil)
	extras := map[string]interface{}{"k": "v"}
	tags := map[string]string{"env": "test"}
	values := map[string]sentrygo.Context{"c": {}}

	assert.Equal(t, ctx, WithContext(ctx).context)
	assert.Equal(t, extras, WithExtras(extras).extras)
	assert.Equal(t, tags, WithTags(tags).tags)
	assert.Equal(t, values, WithContextValues(values).contextValues)
}

func TestSentry_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
		dsn    string
	}{
		{name: "local environment", appEnv: "local", dsn: "https://public@sentry.example.com/1"},
		{name: "empty dsn", appEnv: "production", dsn: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.appEnv)
			t.Setenv("SENTRY_DSN", tt.dsn)
			original := FlushTime
			FlushTime = 0
			t.Cleanup(func() { FlushTime = original })

			assert.False(t, enabled())
			assert.NotPanics(t, func() {
				Debugf("debug %d", 1)
				Infof("info %d", 2)
				Warningf("warning %d", 3)
				Error(errors.New("boom"))
				Errorf("boom %d", 4)
				Fatal(errors.New("fatal"))
				Fatalf("fatal %d", 5)
			})
		})
	}
}

func TestSentry_Enabled(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")
	require.NoError(t, sentrygo.Init(sentrygo.ClientOptions{Dsn: "https://public@sentry.example.com/1"}))
	defer sentrygo.Flush(0)

	assert.True(t, enabled())
	assert.NotPanics(t, func() {
		new(Sentry).
			WithExtras(map[string]interface{}{"contact_id": 1}).
			WithTags(map[string]string{"route": "/contacts"}).
			Error(errors.New("render failed"))
		new(Sentry).Info("contact imported")
	})
}

func TestSentry_GetHub(t *testing.T) {
	t.Run("falls back to current hub", func(t *testing.T) {
		assert.Equal(t, sentrygo.CurrentHub(), new(Sentry).getHub())
	})

	t.Run("uses hub stored by echo middleware", func(t *testing.T) {
		e := echo.New()
		hub := sentrygo.CurrentHub().Clone()
		var got *sentrygo.Hub
		e.Use(sentryecho.New(sentryecho.Options{}))
		e.GET("/", func(c echo.Context) error {
			c.Set("sentry", hub)
			got = WithContext(c).getHub()
			return c.NoContent(http.StatusOK)
		})

		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Same(t, hub, got)
	})
}

func TestSentry_ConfigScope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ctx.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	s := WithContext(ctx).
		WithLevel(sentrygo.LevelWarning).
		WithExtras(map[string]interface{}{"key": "value"}).
		WithTags(map[string]string{"env": "test"}).
		WithContextValues(map[string]sentrygo.Context{"custom": {}})

	scope := sentrygo.NewScope()
	assert.NotPanics(t, func() { s.configScope(scope) })

	event := scope.ApplyToEvent(sentrygo.NewEvent(), nil)
	require.NotNil(t, event)
	assert.Equal(t, sentrygo.LevelWarning, event.Level)
	assert.Equal(t, "req-1", event.Tags["request_id"])
	assert.Equal(t, "test", event.Tags["env"])
}

func TestSentry_ConfigScope_WithoutWriter(t *testing.T) {
	s := WithContext(echo.New().NewContext(nil, nil))

	assert.NotPanics(t, func() { s.configScope(sentrygo.NewScope()) })
}
