package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"fakeout/core/config"
	"fakeout/core/datasets"
	"fakeout/core/logger"
	"fakeout/core/storage"
	"fakeout/feature/deck"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deckCount int
var deckQuick bool

// deckCmd assembles a deck from the configured sources and prints it as
// JSON, without running the server. Useful for checking source health and
// the fake/real balance.
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Fetch a deck and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: "info", Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		dsClient := datasets.NewClient(cfg.Datasets)

		var store storage.Client
		if cfg.Storage.Enabled {
			if client, err := storage.NewClient(cfg.Storage); err != nil {
				logg.Warn("Storage connection failed, curated source disabled", zap.Error(err))
			} else {
				store = client
			}
		}

		svc := deck.BuildService(cfg.Deck, dsClient, store, cfg.Storage, logg)

		var cards []deck.Card
		if deckQuick {
			cards, err = svc.FetchQuickDeck(cmd.Context(), deckCount)
		} else {
			cards, err = svc.FetchDeck(cmd.Context(), deckCount)
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	deckCmd.Flags().IntVar(&deckCount, "count", 12, "Number of cards to fetch")
	deckCmd.Flags().BoolVar(&deckQuick, "quick", false, "Use the low-latency first-paint variant")
	RootCmd.AddCommand(deckCmd)
}
