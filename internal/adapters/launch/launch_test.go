package launch

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_CurrentReturnsCopy(t *testing.T) {
	loc, err := NewLocation("timeclock://app/clock?token=abc123&tab=hours")
	require.NoError(t, err)

	u := loc.Current()
	u.RawQuery = ""
	assert.Equal(t, "abc123", loc.Current().Query().Get("token"))

	require.NoError(t, loc.Replace(u))
	assert.Equal(t, "timeclock://app/clock", loc.String())
	require.Error(t, loc.Replace(nil))
}

func TestNewLocation_Invalid(t *testing.T) {
	_, err := NewLocation("://bad")
	require.Error(t, err)
}

func TestCallbackReceiver_CapturesToken(t *testing.T) {
	recv, err := Listen("127.0.0.1:0", nil)
	require.NoError(t, err)

	done := make(chan struct{})
	var got string
	var waitErr error
	go func() {
		defer close(done)
		u, err := recv.Wait(context.Background())
		waitErr = err
		if u != nil {
			got = u.Query().Get("token")
		}
	}()

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(recv.RedirectURL())
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = client.Get(recv.RedirectURL() + "?token=abc123")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("receiver did not return")
	}
	require.NoError(t, waitErr)
	assert.Equal(t, "abc123", got)
}

func TestCallbackReceiver_ContextCancel(t *testing.T) {
	recv, err := Listen("127.0.0.1:0", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = recv.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
