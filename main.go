package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/councilhq/council/configuration"
	"github.com/councilhq/council/conversations"
	"github.com/councilhq/council/server"
	"github.com/councilhq/council/store"
)

var rootCmd = &cobra.Command{
	Use:     "council",
	Short:   "Durable storage for council conversations",
	Version: "1.0",
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	config, err := configuration.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	// Create store.
	store, err := store.New(config)
	if err != nil {
		slog.Error("opening store", "error", err)
		os.Exit(1)
	}
	// Ensure store is closed when the program exits normally.
	defer store.Close()

	rootCmd.AddCommand(server.NewServeCmd(config, store))
	rootCmd.AddCommand(conversations.NewCmd(store))
	rootCmd.Execute()
}
