package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "brokerctl",
		Short:         "brokerctl drives the brokerage ledger daemon over gRPC",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &clientOptions{}
	root.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:50051", "ledger daemon address")
	root.PersistentFlags().StringVar(&opts.account, "account", "", "account id (required)")

	root.AddCommand(
		newDepositCmd(opts),
		newWithdrawCmd(opts),
		newBuyCmd(opts),
		newSellCmd(opts),
		newBalanceCmd(opts),
		newPositionsCmd(opts),
		newHistoryCmd(opts),
		newWatchCmd(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
