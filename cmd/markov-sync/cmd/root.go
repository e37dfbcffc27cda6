package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"shottys-backend/lib/configutil"
	"shottys-backend/lib/scrapers/markov"
	"shottys-backend/lib/telemetry"
	"shottys-backend/lib/timezone"
	"shottys-backend/lib/util/serviceutil"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type ScraperConfig struct {
	BaseUrl     string `json:"base_url"`
	ReturnUrl   string `json:"return_url"`
	DashboardId string `json:"dashboard_id"`
	ItemId      string `json:"item_id"`
	// IANA name used for the "yesterday" cutoff, defaults to UTC
	Timezone string `json:"timezone"`
}

type Config struct {
	Scraper      ScraperConfig     `json:"scraper"`
	Owners       map[string]string `json:"owners"`
	AllowedAreas []string          `json:"allowed_areas"`
}

var configPath string

var rootCmd = &cobra.Command{
	Use:           "markov-sync",
	Short:         "One-shot sync of yesterday's inventory cost from the Markov dashboard into the company database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "path to the scraper config file")
}

// the defaults cover everything, the config file is optional
func loadConfig() (Config, error) {
	config, err := configutil.ReadConfig[Config](configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	err = timezone.SetLocation(config.Scraper.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", config.Scraper.Timezone, err)
	}
	return config, nil
}

func credentialsFromEnv() (markov.Credentials, error) {
	creds := markov.Credentials{
		Company:  os.Getenv("MARKOV_COMPANY"),
		Email:    os.Getenv("MARKOV_EMAIL"),
		Password: os.Getenv("MARKOV_PASSWORD"),
	}
	if creds.Email == "" || creds.Password == "" {
		return creds, fmt.Errorf("MARKOV_EMAIL and MARKOV_PASSWORD must be set")
	}
	return creds, nil
}

func databaseUrlFromEnv() (string, error) {
	url, ok := os.LookupEnv("DATABASE_URL")
	if !ok || url == "" {
		return "", fmt.Errorf("DATABASE_URL not provided and not found in environment")
	}
	return url, nil
}

func newScraper(config Config) (*markov.Client, error) {
	return markov.NewClient(markov.ClientOptions{
		BaseUrl:   config.Scraper.BaseUrl,
		ReturnUrl: config.Scraper.ReturnUrl,
	})
}

func Execute() int {
	ctx := serviceutil.SignalContext()

	// credentials usually live in a .env next to the binary
	_ = godotenv.Load()

	tel, err := telemetry.SetupFromEnv(ctx, "markov-sync")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	err = rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	_ = tel.Shutdown(shutdownCtx)

	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		slog.Error("interrupted")
		return 130
	}
	slog.Error("run failed", "err", err)
	return 1
}
