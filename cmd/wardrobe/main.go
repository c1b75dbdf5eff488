package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/closetlab/wardrobe/internal/api"
	"github.com/closetlab/wardrobe/internal/auth"
	"github.com/closetlab/wardrobe/internal/db"
	"github.com/closetlab/wardrobe/internal/models"
	"github.com/closetlab/wardrobe/internal/ui"
	"github.com/joho/godotenv"
)

const (
	defaultAPIBase = "https://api.closetlab.example"
	defaultDBName  = "wardrobe.db"
	envAPIBase     = "WARDROBE_API"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	apiFlag := flag.String("api", "", "History service base URL (default $WARDROBE_API or "+defaultAPIBase+")")
	dbFlag := flag.String("db", "", "Path to the offline cache database")
	tokenFlag := flag.String("token", "", "Bearer token (overrides $"+auth.EnvToken+" and the config file)")
	dealsFlag := flag.Bool("deals", false, "Open the deals feed first")
	syncFlag := flag.Bool("sync", false, "Fetch the full history into the cache and exit")
	noSplash := flag.Bool("no-splash", false, "Skip the startup splash screen")
	flag.Parse()

	apiBase := *apiFlag
	if apiBase == "" {
		apiBase = os.Getenv(envAPIBase)
	}
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	dbPath := *dbFlag
	if dbPath == "" {
		dbPath = defaultDBPath()
	}

	token := auth.Resolve(*tokenFlag, apiBase)
	if token == "" {
		prompted, err := ui.PromptForToken()
		if err != nil {
			ui.PrintError(fmt.Sprintf("No token available: %v", err))
			os.Exit(1)
		}
		token = prompted

		if save, _ := ui.ConfirmSaveToken(); save {
			if err := auth.SaveToken(token); err != nil {
				ui.PrintError(fmt.Sprintf("Could not save token: %v", err))
			} else {
				ui.PrintSuccess("Token saved")
			}
		}
	}
	if auth.Expired(token) {
		ui.PrintError("Token looks expired; the service will likely reject requests.")
	}

	// The cache is best-effort: a broken database means no offline
	// browsing, not a broken app.
	cache, err := db.New(dbPath)
	if err != nil {
		ui.PrintError(fmt.Sprintf("Cache unavailable: %v", err))
		cache = nil
	} else {
		defer cache.Close()
	}

	client := api.NewClientWithLogging(apiBase, token, dbPath)
	dealsClient := api.NewDealsClient(apiBase, nil)
	logger := newAppLogger(dbPath)

	if *syncFlag {
		if err := runSync(client, cache); err != nil {
			ui.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	if !*noSplash {
		ui.ShowSplash()
	}

	if *dealsFlag {
		toHistory, err := ui.RunDealsBrowser(dealsClient, logger)
		if err != nil {
			ui.PrintError(fmt.Sprintf("TUI error: %v", err))
			os.Exit(1)
		}
		if !toHistory {
			return
		}
	}

	if err := ui.Run(client, dealsClient, cache, logger); err != nil {
		ui.PrintError(fmt.Sprintf("TUI error: %v", err))
		os.Exit(1)
	}
}

// defaultDBPath puts the cache in the user config dir, falling back to
// the working directory.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultDBName
	}
	return filepath.Join(dir, "wardrobe", defaultDBName)
}

// newAppLogger writes TUI-side logs to wardrobe.log next to the cache so
// they never corrupt the alternate screen.
func newAppLogger(dbPath string) *log.Logger {
	logFile := filepath.Join(filepath.Dir(dbPath), "wardrobe.log")
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil
	}
	return log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "TUI",
	})
}

// runSync pulls every history page into the cache for offline use.
func runSync(client *api.Client, cache *db.DB) error {
	if cache == nil {
		return fmt.Errorf("sync requires a working cache database")
	}

	var all []models.TryOnRecord
	var fetchErr error

	err := ui.RunWithSpinner("Syncing try-on history...", func() {
		for page := 1; ; page++ {
			records, err := client.FetchHistoryPage(page)
			if err != nil {
				fetchErr = err
				return
			}
			all = append(all, records...)
			if len(records) < api.PageSize {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if fetchErr != nil {
		return fmt.Errorf("sync failed: %w", fetchErr)
	}

	if err := cache.SaveRecords(all); err != nil {
		return fmt.Errorf("sync failed writing cache: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Synced %d try-on records", len(all)))
	return nil
}
