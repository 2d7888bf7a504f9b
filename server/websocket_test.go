package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchbridge/touchbridge/touch"
)

func newWSTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, true)
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		handleGestureStream(w, r, true)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readRPCResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(message, &resp))
	return resp
}

func TestWebSocketRPCRoundTrip(t *testing.T) {
	withBridge(t)
	srv := newWSTestServer(t)
	conn := dialWS(t, srv, "/ws")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"jsonrpc":"2.0","method":"status","id":1}`)))

	resp := readRPCResponse(t, conn)
	require.Nil(t, resp.Error)
	assert.Equal(t, float64(1), resp.ID)
}

func TestWebSocketRejectsMalformedPayloads(t *testing.T) {
	withBridge(t)
	srv := newWSTestServer(t)
	conn := dialWS(t, srv, "/ws")

	tests := []struct {
		name     string
		payload  string
		wantCode int
	}{
		{"not json", "{oops", ErrCodeParseError},
		{"wrong version", `{"jsonrpc":"1.0","method":"status","id":1}`, ErrCodeInvalidRequest},
		{"missing id", `{"jsonrpc":"2.0","method":"status"}`, ErrCodeInvalidRequest},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, ErrCodeInvalidRequest},
		{"unknown method", `{"jsonrpc":"2.0","method":"nope","id":1}`, ErrCodeMethodNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))

			resp := readRPCResponse(t, conn)
			assert.Equal(t, tt.wantCode, errorCode(t, resp))
		})
	}
}

func TestWebSocketRejectsBinaryMessages(t *testing.T) {
	withBridge(t)
	srv := newWSTestServer(t)
	conn := dialWS(t, srv, "/ws")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))

	resp := readRPCResponse(t, conn)
	assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, resp))
}

func TestGestureStreamDeliversEvents(t *testing.T) {
	b := withBridge(t)
	srv := newWSTestServer(t)
	conn := dialWS(t, srv, "/events")

	// the dial returning means the upgrade happened; give the handler
	// goroutine a moment to register its subscription before publishing
	time.Sleep(100 * time.Millisecond)
	b.HandleGesture(touch.Gesture{Kind: touch.GestureUp, X: 12, Y: 34})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var g touch.Gesture
	require.NoError(t, json.Unmarshal(message, &g))
	assert.Equal(t, touch.GestureUp, g.Kind)
	assert.Equal(t, 12, g.X)
	assert.Equal(t, 34, g.Y)
}

func TestGestureStreamRequiresBridge(t *testing.T) {
	srv := newWSTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
