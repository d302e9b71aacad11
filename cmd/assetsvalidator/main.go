// Command assetsvalidator validates ERC-20 asset descriptors against
// live chain state, either from the command line or driven by a Kafka
// request/response loop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assetsvalidator",
		Short: "Validates ERC-20 asset descriptors against live chain state",
	}
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newRequestCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
