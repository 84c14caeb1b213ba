package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikmackinnon/reclaim-mcp-server/internal/server"
)

const userJSON = `{
	"id": "u-123",
	"email": "dev@example.com",
	"name": "Dev User",
	"settings": {"timezone": {"id": "Europe/Berlin"}},
	"features": {"taskSettings": {"defaults": {
		"eventCategory": "WORK",
		"timeChunksRequired": 4,
		"minChunkSize": 1,
		"maxChunkSize": 8,
		"dueInDays": 3
	}}}
}`

func newTestServerContext(t *testing.T, handler http.HandlerFunc) *server.ServerContext {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sc, err := server.NewServerContext(context.Background(), server.Config{
		APIKey: "test-key",
		APIURL: ts.URL,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestHandleUserProfile(t *testing.T) {
	sc := newTestServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	})

	request := mcp.ReadResourceRequest{}
	request.Params.URI = "reclaim://user"

	contents, err := handleUserProfile(context.Background(), request, sc)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "reclaim://user", text.URI)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.JSONEq(t, `{
		"id": "u-123",
		"email": "dev@example.com",
		"name": "Dev User",
		"timezone": "Europe/Berlin"
	}`, text.Text)
}

func TestHandleTaskDefaults(t *testing.T) {
	sc := newTestServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	})

	request := mcp.ReadResourceRequest{}
	request.Params.URI = "reclaim://defaults"

	contents, err := handleTaskDefaults(context.Background(), request, sc)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.JSONEq(t, `{
		"eventCategory": "WORK",
		"timeChunksRequired": 4,
		"minChunkSize": 1,
		"maxChunkSize": 8,
		"dueInDays": 3
	}`, text.Text)
}

func TestHandleUserProfile_APIError(t *testing.T) {
	sc := newTestServerContext(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	request := mcp.ReadResourceRequest{}
	request.Params.URI = "reclaim://user"

	_, err := handleUserProfile(context.Background(), request, sc)
	assert.Error(t, err)
}
