package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-ai/mnemo/engine"
	"github.com/mnemosyne-ai/mnemo/generate"
	kchromem "github.com/mnemosyne-ai/mnemo/knowledge/store/chromem"
	"github.com/mnemosyne-ai/mnemo/memory/embedder/mock"
	"github.com/mnemosyne-ai/mnemo/server"
)

// echoGenerator replies with the last line of the prompt, which is the
// user's question.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, prompt string, _ generate.Options) (string, error) {
	lines := strings.Split(prompt, "\n")
	return "echo: " + lines[len(lines)-1], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := kchromem.New()
	require.NoError(t, err)

	eng := engine.New(store, mock.New(64), nil, echoGenerator{}, engine.Config{})
	srv := server.New(server.Config{Engine: eng, BufferCapacity: 5})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestWebsocketTurnRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "hello there"}))

	var reply struct {
		Text  string `json:"text"`
		Error string `json:"error,omitempty"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Empty(t, reply.Error)
	assert.Equal(t, "echo: hello there", reply.Text)
}

func TestWebsocketSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	connA, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer connB.Close()

	connA.SetReadDeadline(time.Now().Add(5 * time.Second))
	connB.SetReadDeadline(time.Now().Add(5 * time.Second))

	var reply struct {
		Text string `json:"text"`
	}

	require.NoError(t, connA.WriteJSON(map[string]string{"text": "first on a"}))
	require.NoError(t, connA.ReadJSON(&reply))
	assert.Equal(t, "echo: first on a", reply.Text)

	// B sees its own fresh session, unaffected by A's history.
	require.NoError(t, connB.WriteJSON(map[string]string{"text": "first on b"}))
	require.NoError(t, connB.ReadJSON(&reply))
	assert.Equal(t, "echo: first on b", reply.Text)
}
