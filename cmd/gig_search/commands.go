package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-gig-search/api"
	"github.com/gcbaptista/go-gig-search/config"
	"github.com/gcbaptista/go-gig-search/internal/analytics"
	"github.com/gcbaptista/go-gig-search/internal/search"
	"github.com/gcbaptista/go-gig-search/services"
	"github.com/gcbaptista/go-gig-search/store"
)

const shutdownTimeout = 10 * time.Second

// loadSettings reads the environment and applies command line overrides.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings := config.Load()

	if c.IsSet("host") {
		settings.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		settings.Server.Port = c.Int("port")
	}
	if c.IsSet("driver") {
		settings.Store.Driver = strings.ToLower(c.String("driver"))
	}
	if c.IsSet("database-url") {
		settings.Store.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("seed") {
		settings.Store.SeedFile = c.String("seed")
	}
	if c.IsSet("snapshot") {
		settings.Store.SnapshotFile = c.String("snapshot")
	}
	if c.IsSet("analytics-file") {
		settings.Analytics.DataFile = c.String("analytics-file")
	}

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return settings, nil
}

// listingStore is an opened store plus the work needed to release it.
type listingStore struct {
	services.ListingStore
	name   string
	memory *store.MemoryStore
	close  func() error
}

// openStore opens the configured listing store. A memory store is restored
// from its snapshot when one exists.
func openStore(settings *config.Settings) (*listingStore, error) {
	switch settings.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		sqlStore, err := store.NewSQLStore(settings.Store.Driver, settings.Store.DatabaseURL,
			settings.Store.MaxConnections, settings.Store.MaxIdleConnections)
		if err != nil {
			return nil, err
		}
		return &listingStore{ListingStore: sqlStore, name: sqlStore.Driver(), close: sqlStore.Close}, nil
	default:
		memoryStore := store.NewMemoryStore()
		if settings.Store.SnapshotFile != "" {
			loaded, err := memoryStore.LoadSnapshot(settings.Store.SnapshotFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load snapshot: %w", err)
			}
			if loaded {
				log.Printf("Loaded listing snapshot from %s", settings.Store.SnapshotFile)
			}
		}
		return &listingStore{
			ListingStore: memoryStore,
			name:         config.DriverMemory,
			memory:       memoryStore,
			close:        func() error { return nil },
		}, nil
	}
}

// saveSnapshot writes the memory store snapshot when one is configured.
func (s *listingStore) saveSnapshot(path string) error {
	if s.memory == nil || path == "" {
		return nil
	}
	return s.memory.SaveSnapshot(path)
}

func serveCommand(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}

	gin.SetMode(settings.Server.GinMode)

	listings, err := openStore(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := listings.close(); err != nil {
			log.Printf("Warning: Failed to close listing store: %v", err)
		}
	}()
	log.Printf("Using %s listing store", listings.name)

	if settings.Store.SeedFile != "" {
		count, err := store.Seed(c.Context, listings, settings.Store.SeedFile)
		if err != nil {
			return err
		}
		log.Printf("Seeded %d listings from %s", count, settings.Store.SeedFile)
	}

	searcher, err := search.NewService(listings, search.Options{
		CandidateLimit: settings.Search.CandidateLimit,
		StoreName:      listings.name,
	})
	if err != nil {
		return err
	}

	analyticsService := analytics.NewService(settings.Analytics.DataFile)
	defer analyticsService.Close()

	router := gin.New()
	router.Use(gin.Logger())
	api.SetupRoutes(router, api.NewAPI(searcher, listings, analyticsService), api.RouterOptions{
		AllowedOrigins:  settings.Server.AllowedOrigins,
		MaxRequestBytes: settings.Server.MaxRequestBytes,
	})

	server := &http.Server{
		Addr:    settings.Addr(),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s...", settings.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Warning: Server shutdown did not complete: %v", err)
	}

	if err := listings.saveSnapshot(settings.Store.SnapshotFile); err != nil {
		log.Printf("Warning: Failed to save listing snapshot: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("search query is required")
	}

	memoryStore := store.NewMemoryStore()
	if _, err := store.Seed(c.Context, memoryStore, c.String("seed")); err != nil {
		return err
	}

	searcher, err := search.NewService(memoryStore, search.Options{StoreName: config.DriverMemory})
	if err != nil {
		return err
	}

	result, err := searcher.Search(c.Context, services.SearchQuery{
		Query:  query,
		Limit:  search.ClampLimit(c.Int("limit")),
		Filter: services.CandidateFilter{CategoryIDs: c.StringSlice("category")},
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(c.App.Writer)
	if !c.Bool("compact") {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(result)
}

func importCommand(c *cli.Context) error {
	seedFile := c.Args().First()
	if seedFile == "" {
		return errors.New("seed file argument is required")
	}

	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	if settings.Store.Driver == config.DriverMemory && settings.Store.SnapshotFile == "" {
		return errors.New("importing into the memory store needs --snapshot or STORE_SNAPSHOT_FILE")
	}

	listings, err := openStore(settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := listings.close(); err != nil {
			log.Printf("Warning: Failed to close listing store: %v", err)
		}
	}()

	count, err := store.Seed(c.Context, listings, seedFile)
	if err != nil {
		return err
	}
	if err := listings.saveSnapshot(settings.Store.SnapshotFile); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	total, err := listings.Count(c.Context)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Imported %d listings into the %s store (%d total)\n", count, listings.name, total)
	return nil
}
