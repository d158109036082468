package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sahayak_backend/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, model string) {
	t.Helper()
	body := fmt.Sprintf("storage:\n  local_path: %q\nai:\n  model: %q\n", filepath.Join(dir, "uploads"), model)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "small")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, func(cfg *config.Config) { changes <- cfg })
	}()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, "large")

	select {
	case cfg := <-changes:
		assert.Equal(t, "large", cfg.AI.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
