package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookgallery/internal/config"
)

func newTestClient(t *testing.T) (*Client, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(tmpDir, "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, tmpDir
}

func TestNewClient(t *testing.T) {
	_, tmpDir := newTestClient(t)

	_, err := os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, "./bookgallery-tasks.db", TasksDBPath("./bookgallery.db"))
	assert.Equal(t, "/data/app-tasks", TasksDBPath("/data/app"))
}

func TestClientStartStop(t *testing.T) {
	client, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client, _ := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type echoTask struct {
	Value string `json:"value"`
}

func (t echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	client, _ := newTestClient(t)

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(echoTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.Tasks{Workers: 4, RetryDelay: 10 * time.Second})

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.RetryDelay)
	assert.Equal(t, 3, cfg.MaxRetries, "zero values fall back to defaults")
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
}
