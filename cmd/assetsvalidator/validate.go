package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jibrel-network/chain-assets-validator/internal/asset"
	"github.com/jibrel-network/chain-assets-validator/internal/cmcclient"
	"github.com/jibrel-network/chain-assets-validator/internal/config"
	"github.com/jibrel-network/chain-assets-validator/internal/crosscheck"
	"github.com/jibrel-network/chain-assets-validator/internal/issue"
	"github.com/jibrel-network/chain-assets-validator/internal/logging"
	"github.com/jibrel-network/chain-assets-validator/internal/rpcnode"
	"github.com/jibrel-network/chain-assets-validator/internal/schema"
)

type validateOptions struct {
	file        string
	nodeURL     string
	ignore      []string
	fast        bool
	progress    bool
	logLevel    string
	cmcAPIKey   string
	concurrency int
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a descriptor list against chain state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.file = args[0]
			return runValidate(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.nodeURL, "node", "", "Ethereum JSON-RPC node URL")
	flags.StringSliceVar(&opts.ignore, "ignore", nil, "ignore globs: method, SYMBOL.method, SYMBOL.*, *.method")
	flags.BoolVar(&opts.fast, "fast", false, "skip eth_call invocation probes")
	flags.BoolVar(&opts.progress, "progress", false, "render a progress bar")
	flags.StringVar(&opts.logLevel, "loglevel", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.cmcAPIKey, "cmc-api-key", "", "CoinMarketCap API key (falls back to CMC_API_KEY)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "receipt-fetch concurrency (0 = package default)")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

func runValidate(ctx context.Context, opts validateOptions) error {
	entries, err := asset.LoadDescriptors(opts.file)
	if err != nil {
		return err
	}

	logger := logging.New(opts.logLevel, os.Stderr)

	client, err := rpcnode.Dial(ctx, opts.nodeURL)
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.nodeURL, err)
	}
	defer client.Close()

	apiKey := config.ResolveCMCAPIKey(opts.cmcAPIKey, "")
	var crosscheckV *crosscheck.Validator
	if apiKey != "" {
		assets, fetchErr := cmcclient.New(apiKey).FetchAll(ctx)
		if fetchErr != nil {
			logger.Warn().Err(fetchErr).Msg("coinmarketcap fetch failed, skipping cross-check")
		} else {
			crosscheckV = crosscheck.New(assets)
		}
	}

	dispatcher := schema.New(client, opts.fast, crosscheckV, opts.concurrency)

	erc20Total := 0
	for _, e := range entries {
		if e.IsERC20() {
			erc20Total++
		}
	}

	fatalCount := 0
	done := 0
	for _, entry := range entries {
		ok, issues, validateErr := dispatcher.ValidateEntry(ctx, entry)
		if validateErr != nil {
			return fmt.Errorf("%s: %w", entry.Label(), validateErr)
		}
		if !ok {
			continue
		}
		done++
		if opts.progress {
			renderProgress(done, erc20Total)
		}

		classifier := issue.NewClassifier(append(append([]string{}, opts.ignore...), entry.Ignore...))
		tokenLogger := logging.NewTokenLogger(logger, classifier, entry.Symbol)
		for _, surfaced := range tokenLogger.ReportAll(issues) {
			fmt.Printf("[E] %s: %s: %s\n", entry.Label(), surfaced.Field, surfaced.Message)
			fatalCount++
		}
	}
	if opts.progress && erc20Total > 0 {
		fmt.Println()
	}

	if fatalCount > 0 {
		os.Exit(1)
	}
	return nil
}

func renderProgress(done, total int) {
	const width = 30
	filled := width * done / total
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
	fmt.Printf("\r%s [%s] %d/%d", color.CyanString("validating"), bar, done, total)
}
