// NewsMux — sectioned news aggregator
//
// Usage:
//
//	newsmux serve      # run the HTTP feed API with the refresh scheduler
//	newsmux refresh    # run one full refresh cycle and exit
//	newsmux sections   # list configured sections
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/newsmux/newsmux/internal/api"
	"github.com/newsmux/newsmux/internal/cache"
	"github.com/newsmux/newsmux/internal/config"
	"github.com/newsmux/newsmux/internal/feed"
	"github.com/newsmux/newsmux/internal/providers"
	"github.com/newsmux/newsmux/internal/rank"
	"github.com/newsmux/newsmux/internal/scheduler"
	"github.com/newsmux/newsmux/internal/service"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "newsmux",
		Short: "Sectioned news aggregator with cached, ranked feeds",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "newsmux.yaml", "config file path")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(refreshCmd(&configPath))
	rootCmd.AddCommand(sectionsCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the feed API server and refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go app.Scheduler.Start(ctx)

			srv := &http.Server{
				Addr:    app.Config.HTTP.Addr,
				Handler: api.NewServer(app.Service).Routes(),
			}

			go func() {
				slog.Info("feed API listening", "addr", app.Config.HTTP.Addr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					slog.Error("server failed", "error", err)
				}
			}()

			<-ctx.Done()
			slog.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func refreshCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one full refresh cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Scheduler.RunCycle(cmd.Context())
			return nil
		},
	}
}

func sectionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List configured sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			for _, s := range cfg.Sections {
				marker := " "
				if s.Name == cfg.DefaultSection {
					marker = "*"
				}
				fmt.Printf("%s %-12s tag=%s category=%s feeds=%d\n", marker, s.Name, s.Tag, s.Category, len(s.Feeds))
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsmux %s\n", version)
		},
	}
}

// App bundles the wired components behind the CLI commands.
type App struct {
	Config    *config.Config
	Service   *service.Service
	Scheduler *scheduler.Scheduler

	store cache.Store
}

func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func buildApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var newsData, newsAPI, social providers.Adapter
	if cfg.Providers.NewsData.Enabled() {
		newsData = providers.NewNewsDataAdapter(cfg.Providers.NewsData.APIKey, cfg.Providers.NewsData.BaseURL)
	}
	if cfg.Providers.NewsAPI.Enabled() {
		newsAPI = providers.NewNewsAPIAdapter(cfg.Providers.NewsAPI.APIKey, cfg.Providers.NewsAPI.BaseURL)
	}
	if cfg.Providers.Social.Enabled() {
		social = providers.NewSocialAdapter(cfg.Providers.Social.APIKey, cfg.Providers.Social.BaseURL)
	}

	router := feed.NewRouter(cfg.DefaultSection)
	for _, sc := range cfg.Sections {
		sec := &feed.Section{Name: sc.Name, DefaultTag: sc.Tag, Language: sc.Language}
		if newsData != nil {
			sec.Primary = append(sec.Primary, feed.Route{
				Adapter: newsData,
				Params:  providers.Params{Category: sc.Category, Country: sc.Country, Language: sc.Language},
			})
		}
		if newsAPI != nil {
			sec.Primary = append(sec.Primary, feed.Route{
				Adapter: newsAPI,
				Params:  providers.Params{Category: sc.Category, Country: sc.Country},
			})
		}
		if social != nil && sc.Query != "" {
			sec.Primary = append(sec.Primary, feed.Route{
				Adapter: social,
				Params:  providers.Params{Query: sc.Query, Limit: 10},
			})
		}
		for _, f := range sc.Feeds {
			sec.Feeds = append(sec.Feeds, providers.NewRSSAdapter(f.Name, f.URL))
		}
		router.Add(sec)
	}

	var store cache.Store
	if cfg.Cache.Path != "" {
		store, err = cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			// The cache is best-effort; a broken backend must not stop
			// the service.
			slog.Warn("cache backend unavailable, falling back to in-memory", "path", cfg.Cache.Path, "error", err)
			store = cache.NewMemoryStore()
		}
	} else {
		store = cache.NewMemoryStore()
	}

	gw := cache.NewGateway(store, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	svc := service.New(router, feed.NewAggregator(router), rank.NewEngine(), gw)

	sched := scheduler.New(
		time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second,
		time.Duration(cfg.Scheduler.InitialDelaySeconds)*time.Second,
		svc.Sections,
		svc.RefreshSection,
	)

	return &App{Config: cfg, Service: svc, Scheduler: sched, store: store}, nil
}
