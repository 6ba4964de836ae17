package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLog(t *testing.T) {
	// exercise all logger configurations, they must not panic
	setupLog(false, false)
	setupLog(true, false)
	setupLog(false, true)
	setupLog(true, true, "some-secret")
}

func Test_runBadConfig(t *testing.T) {
	err := run(context.Background(), Opts{Config: "/does/not/exist.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func Test_runE2E(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yml")
	cfgBody := fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
database:
  dsn: "file:%s/test.db?cache=shared&mode=rwc"
auth:
  secret: "test-secret"
uploads:
  dir: "%s/uploads"
`, port, dir, dir)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgBody), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, Opts{Config: cfgFile})
	}()

	// wait for server to come up
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
