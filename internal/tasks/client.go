package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client wraps backlite with a dedicated SQLite database for the gallery's
// background jobs.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// TasksDBPath returns where the task database lives for a content database:
// next to it, with a "-tasks" suffix ("./bookgallery.db" -> "./bookgallery-tasks.db").
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens the task database and installs the backlite schema.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{client: client, db: db, config: cfg}, nil
}

// Register adds queues. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks. Calling it twice is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("[TASK] Queue started with %d workers", c.config.Workers)
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx expires.
// Returns true if all workers finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()
	if !started {
		return true
	}

	ok := c.client.Stop(ctx)
	if ok {
		log.Println("[TASK] Queue stopped gracefully")
	} else {
		log.Println("[TASK] Queue stop timed out, some tasks may not have completed")
	}
	return ok
}

// Close releases the task database. Call after Stop.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// EnqueueThumbnail schedules a thumbnail download for a book.
func (c *Client) EnqueueThumbnail(ctx context.Context, bookID uint) error {
	_, err := c.client.Add(WarmThumbnailTask{BookID: bookID}).Ctx(ctx).Save()
	if err != nil {
		return fmt.Errorf("enqueue thumbnail for book %d: %w", bookID, err)
	}
	return nil
}

// EnqueuePrune schedules a thumbnail cache prune.
func (c *Client) EnqueuePrune(ctx context.Context) (string, error) {
	ids, err := c.client.Add(PruneThumbnailsTask{}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue prune: %w", err)
	}
	return ids[0], nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
