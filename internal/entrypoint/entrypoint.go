package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/auth"
	"github.com/mrlokans/bookgallery/internal/config"
	"github.com/mrlokans/bookgallery/internal/database"
	"github.com/mrlokans/bookgallery/internal/gallery"
	http_controllers "github.com/mrlokans/bookgallery/internal/http"
	"github.com/mrlokans/bookgallery/internal/scheduler"
	"github.com/mrlokans/bookgallery/internal/tasks"
	"github.com/mrlokans/bookgallery/internal/thumbnails"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -9 can't be caught, SIGINT and SIGTERM trigger a graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Book Gallery v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	g := gallery.New(db, gallery.Options{
		PerPage:    cfg.Gallery.PerPage,
		Pagination: cfg.Gallery.Pagination,
	})
	if err := g.Register(context.Background()); err != nil {
		log.Fatalf("Failed to register book type: %v", err)
	}
	log.Printf("Gallery: %d books per page, %s pagination", g.PerPage(), g.Pagination())

	// Sessions live in the content database, next to the books
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}
	key := auth.DecodeSecret(secret)

	nonces := auth.NewNonceManager(sessionManager, key, cfg.Session.NonceLifetime)
	metaBox := gallery.NewMetaBox(db, nonces)

	routerCfg := http_controllers.RouterConfig{
		Store:          db,
		Gallery:        g,
		MetaBox:        metaBox,
		PageBody:       cfg.Gallery.PageBody,
		SessionManager: sessionManager,
		Nonces:         nonces,
		CSRFSecret:     key,
		SecureCookies:  cfg.Session.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Database:       db,
		Version:        version,
	}

	// Thumbnail cache is optional, the gallery links the original URLs without it
	var pruneScheduler *scheduler.PruneScheduler
	cache, err := thumbnails.NewCache(cfg.Thumbnails.CacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize thumbnail cache: %v", err)
	} else {
		log.Printf("Thumbnail cache initialized at %s", cache.CacheDir())
		routerCfg.Thumbnails = cache
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cache != nil && cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewWarmThumbnailQueue(db, cache),
			tasks.NewPruneThumbnailsQueue(db, cache),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		routerCfg.ThumbnailTasks = taskClient
	}

	if cache != nil {
		prune := pruneJob(db, cache, taskClient)
		routerCfg.PruneNow = prune

		pruneScheduler = scheduler.NewPruneScheduler(cfg.Thumbnails.PruneSchedule, prune)
		if err := pruneScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start thumbnail prune scheduler: %v", err)
		}
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	onShutdown := func(ctx context.Context) {
		if pruneScheduler != nil {
			pruneScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// pruneJob enqueues a prune when the task queue runs, and prunes inline otherwise.
func pruneJob(db *database.Database, cache *thumbnails.Cache, taskClient *tasks.Client) scheduler.Job {
	if taskClient != nil {
		return func(ctx context.Context) error {
			id, err := taskClient.EnqueuePrune(ctx)
			if err != nil {
				return err
			}
			log.Printf("Queued thumbnail prune task %s", id)
			return nil
		}
	}

	process := tasks.PruneThumbnailsProcessor(db, cache)
	return func(ctx context.Context) error {
		return process(ctx, tasks.PruneThumbnailsTask{})
	}
}
