package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jibrel-network/chain-assets-validator/internal/config"
	"github.com/jibrel-network/chain-assets-validator/internal/kafkasvc"
)

func newRequestCmd() *cobra.Command {
	var (
		host        string
		port        int
		cmcAPIKey   string
		fast        bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Run the Kafka asset-validation request/response loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			broker := fmt.Sprintf("%s:%d", host, port)
			apiKey := config.ResolveCMCAPIKey(cmcAPIKey, "")

			loop := kafkasvc.NewLoop([]string{broker}, apiKey, fast, concurrency)
			defer loop.Close()

			for {
				if err := loop.RunOnce(cmd.Context()); err != nil {
					return err
				}
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&host, "host", "localhost", "Kafka broker host")
	flags.IntVar(&port, "port", 9092, "Kafka broker port")
	flags.StringVar(&cmcAPIKey, "cmc-api-key", "", "CoinMarketCap API key (falls back to CMC_API_KEY)")
	flags.BoolVar(&fast, "fast", false, "skip eth_call invocation probes")
	flags.IntVar(&concurrency, "concurrency", 0, "receipt-fetch concurrency (0 = package default)")

	return cmd
}
