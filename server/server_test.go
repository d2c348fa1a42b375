package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remuxapp/remux/jellyfin"
	"github.com/remuxapp/remux/media"
)

var testDevice = jellyfin.Device{Name: "TestBox", ID: "test-device", Version: "1.0"}

func TestNewInstance(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "jellyfin",
			cfg:  Config{Kind: KindJellyfin, Host: "http://localhost:8096", Username: "alice"},
		},
		{
			name: "stremio",
			cfg:  Config{Kind: KindStremio},
		},
		{
			name:    "jellyfin without host",
			cfg:     Config{Kind: KindJellyfin},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			cfg:     Config{Kind: "plex"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewInstance(tt.cfg, testDevice, logger)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Kind, inst.Kind())
			assert.Equal(t, StatusUnknown, inst.Status())
		})
	}
}

func TestConnectionStatusString(t *testing.T) {
	tests := []struct {
		status   ConnectionStatus
		expected string
	}{
		{StatusUnknown, "unknown"},
		{StatusSuccess, "success"},
		{StatusUnauthorized, "unauthorized"},
		{StatusUnreachable, "unreachable"},
		{StatusTimeout, "timeout"},
		{ConnectionStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

// jellyfinTestServer emulates the auth and items endpoints.
func jellyfinTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Users/AuthenticateByName", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"AccessToken": "issued-token",
			"User":        map[string]string{"Id": "user-1", "Name": "alice"},
		})
	})
	mux.HandleFunc("/Items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"Items": []any{}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestConnectLifecycle(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		backend := jellyfinTestServer(t)
		inst, err := NewInstance(Config{
			Kind: KindJellyfin, Host: backend.URL, Username: "alice", Password: "hunter2",
		}, testDevice, zerolog.Nop())
		require.NoError(t, err)

		require.NoError(t, inst.Connect(context.Background()))
		assert.Equal(t, StatusSuccess, inst.Status())
		assert.Equal(t, "user-1", inst.UserID())
	})

	t.Run("bad credentials", func(t *testing.T) {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer backend.Close()

		inst, err := NewInstance(Config{
			Kind: KindJellyfin, Host: backend.URL, Username: "alice", Password: "wrong",
		}, testDevice, zerolog.Nop())
		require.NoError(t, err)

		err = inst.Connect(context.Background())
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, StatusUnauthorized, inst.Status())
	})

	t.Run("unreachable host", func(t *testing.T) {
		// A closed port fails fast with a connection refused error.
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		deadHost := "http://" + listener.Addr().String()
		listener.Close()

		inst, err := NewInstance(Config{
			Kind: KindJellyfin, Host: deadHost, Username: "alice", Password: "x",
		}, testDevice, zerolog.Nop())
		require.NoError(t, err)

		err = inst.Connect(context.Background())
		assert.ErrorIs(t, err, ErrUnreachable)
		assert.Equal(t, StatusUnreachable, inst.Status())
	})
}

func TestOperationsRequireConnection(t *testing.T) {
	inst, err := NewInstance(Config{
		Kind: KindJellyfin, Host: "http://localhost:8096", Username: "alice",
	}, testDevice, zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	q := media.NewQuery()
	item := media.Media{ID: "movie-1"}

	_, err = inst.GetMedia(ctx, &q)
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = inst.GetCatalogs(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = inst.GetGenres(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = inst.GetMediaDetails(ctx, "movie-1")
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = inst.NextUp(ctx, &item)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, inst.SetWatched(ctx, true, &item), ErrNotConnected)
	assert.ErrorIs(t, inst.SetFavorite(ctx, true, &item), ErrNotConnected)
}

func TestIntoConfigPersistsTokenNotPassword(t *testing.T) {
	backend := jellyfinTestServer(t)
	inst, err := NewInstance(Config{
		Kind: KindJellyfin, Host: backend.URL, Username: "alice", Password: "hunter2",
	}, testDevice, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, inst.Connect(context.Background()))

	cfg := inst.IntoConfig()
	assert.Equal(t, "issued-token", cfg.Token)
	assert.Equal(t, "user-1", cfg.UserID)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, "alice", cfg.Username)
}

func TestClassifyConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConnectionStatus
	}{
		{
			name: "sentinel unauthorized",
			err:  jellyfin.ErrUnauthorized,
			want: StatusUnauthorized,
		},
		{
			name: "api error 401",
			err:  &jellyfin.APIError{StatusCode: 401},
			want: StatusUnauthorized,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: StatusTimeout,
		},
		{
			name: "generic failure",
			err:  errors.New("connection refused"),
			want: StatusUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyConnectError(tt.err))
		})
	}
}
