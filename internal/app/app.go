package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tunesync/server/internal/controller"
	"github.com/tunesync/server/internal/domain"
	connInmemory "github.com/tunesync/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/tunesync/server/internal/repository/room/inmemory"
	roomService "github.com/tunesync/server/internal/service/room"
	searchService "github.com/tunesync/server/internal/service/search"
	"github.com/tunesync/server/pkg/ctxlogger"
	"github.com/tunesync/server/pkg/randstr"
	"github.com/tunesync/server/pkg/redisclient"
)

type AppConfig struct {
	Host                string `json:"host"`
	Port                int    `json:"port"`
	LogLevel            string `json:"log_level"`
	MembersLimit        int    `json:"members_limit"`
	QueueLimit          int    `json:"queue_limit"`
	LateJoinSyncDelayMs int    `json:"late_join_sync_delay_ms"`
	SearchRatePerMinute int    `json:"search_rate_per_minute"`
	SearchCacheTTLSec   int    `json:"search_cache_ttl_sec"`
	YouTubeAPIKey       string `json:"-"`
	RedisHost           string `json:"redis_host"`
	RedisPort           int    `json:"redis_port"`
	RedisPassword       string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.QueueLimit < 1 {
		return fmt.Errorf("queue limit must be greater than 0")
	}

	return nil
}

// defaultQueue seeds every new room. Replacing these with a remote chart
// lookup is a search-collaborator concern, the room engine only copies them.
func defaultQueue() []domain.Track {
	return []domain.Track{
		{Id: 1, Title: "Shape of You", Artist: "Ed Sheeran", Duration: "3:45", Type: "itunes"},
		{Id: 2, Title: "Blinding Lights", Artist: "The Weeknd", Duration: "3:20", Type: "itunes"},
		{Id: 3, Title: "Levitating", Artist: "Dua Lipa", Duration: "3:23", Type: "itunes"},
	}
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomRepo := roomInmemory.NewRepo()
	connRepo := connInmemory.NewRepo()

	codeAlphabet := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	rooms := roomService.NewService(roomRepo, connRepo, randstr.New(codeAlphabet), logger, &roomService.Config{
		MembersLimit:      cfg.MembersLimit,
		QueueLimit:        cfg.QueueLimit,
		LateJoinSyncDelay: time.Duration(cfg.LateJoinSyncDelayMs) * time.Millisecond,
		DefaultQueue:      defaultQueue(),
	})

	searcher := searchService.NewService(rc, logger, &searchService.Config{
		YouTubeAPIKey: cfg.YouTubeAPIKey,
		CacheTTL:      time.Duration(cfg.SearchCacheTTLSec) * time.Second,
		ResultLimit:   10,
	})

	ctrl := controller.NewController(rooms, searcher, connRepo, logger, &controller.Config{
		SearchRatePerMinute: cfg.SearchRatePerMinute,
	})
	defer ctrl.Close()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ctrl.GetMux(),
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
