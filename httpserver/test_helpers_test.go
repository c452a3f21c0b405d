package httpserver_test

import (
	"contactmanager/contact"
	"contactmanager/httpserver"
	"contactmanager/memory"
	"contactmanager/pkg/config"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Result  json.RawMessage   `json:"result"`
	Info    string            `json:"info"`
	Errors  map[string]string `json:"errors"`
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:  "test",
		Storage: config.StorageMemory,
	}
}

func newTestServer(t testing.TB, options ...httpserver.Options) *httpserver.Server {
	t.Helper()
	server, err := httpserver.New(append([]httpserver.Options{httpserver.WithConfig(testConfig())}, options...)...)
	require.NoError(t, err)
	return server
}

// newSeededServer serves a fresh in-memory store holding the three sample
// contacts.
func newSeededServer(t testing.TB) *httpserver.Server {
	t.Helper()
	return newTestServer(t, httpserver.WithContactService(contact.NewUsecase(memory.NewContactRepository())))
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func decodeAPIResult(t testing.TB, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}
