package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/example/brokerage-ledger/api/gen/brokerage"
)

type clientOptions struct {
	addr    string
	account string
}

func (o *clientOptions) dial() (pb.BrokerageServiceClient, *grpc.ClientConn, error) {
	if o.account == "" {
		return nil, nil, errors.New("--account is required")
	}
	conn, err := grpc.Dial(o.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", o.addr, err)
	}
	return pb.NewBrokerageServiceClient(conn), conn, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func newDepositCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit cash into the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.Deposit(ctx, &pb.DepositRequest{AccountID: opts.account, Amount: args[0]})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), resp.Entry)
			return nil
		},
	}
}

func newWithdrawCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <amount>",
		Short: "Withdraw cash from the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.Withdraw(ctx, &pb.WithdrawRequest{AccountID: opts.account, Amount: args[0]})
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), resp.Entry)
			return nil
		},
	}
}

func newBuyCmd(opts *clientOptions) *cobra.Command {
	var byAmount bool
	cmd := &cobra.Command{
		Use:   "buy <symbol> <quantity>",
		Short: "Buy shares at the current quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, args, byAmount, func(ctx context.Context, client pb.BrokerageServiceClient, req *pb.OrderRequest) (*pb.CommandResponse, error) {
				return client.Buy(ctx, req)
			})
		},
	}
	cmd.Flags().BoolVar(&byAmount, "amount", false, "treat quantity as a cash amount instead of a share count")
	return cmd
}

func newSellCmd(opts *clientOptions) *cobra.Command {
	var byAmount bool
	cmd := &cobra.Command{
		Use:   "sell <symbol> <quantity>",
		Short: "Sell shares at the current quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, args, byAmount, func(ctx context.Context, client pb.BrokerageServiceClient, req *pb.OrderRequest) (*pb.CommandResponse, error) {
				return client.Sell(ctx, req)
			})
		},
	}
	cmd.Flags().BoolVar(&byAmount, "amount", false, "treat quantity as a cash amount instead of a share count")
	return cmd
}

func runOrder(cmd *cobra.Command, opts *clientOptions, args []string, byAmount bool, call func(context.Context, pb.BrokerageServiceClient, *pb.OrderRequest) (*pb.CommandResponse, error)) error {
	client, conn, err := opts.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := commandContext()
	defer cancel()

	kind := "shares"
	if byAmount {
		kind = "amount"
	}
	resp, err := call(ctx, client, &pb.OrderRequest{
		AccountID:    opts.account,
		Symbol:       args[0],
		Quantity:     args[1],
		QuantityKind: kind,
	})
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), resp.Entry)
	return nil
}

func newBalanceCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the cash balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountID: opts.account})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s balance %s (version %d)\n", resp.AccountID, resp.Balance, resp.Version)
			return nil
		},
	}
}

func newPositionsCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List active holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.GetPositions(ctx, &pb.GetPositionsRequest{AccountID: opts.account})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tSHARES\tINVESTED")
			for _, p := range resp.Positions {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Symbol, p.Shares, p.InvestedAmount)
			}
			return w.Flush()
		},
	}
}

func newHistoryCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the full transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.GetHistory(ctx, &pb.GetHistoryRequest{AccountID: opts.account})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SEQ\tKIND\tSYMBOL\tSHARES\tPRICE\tAMOUNT\tTIMESTAMP")
			for _, e := range resp.Entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", e.Sequence, e.Kind, e.Symbol, e.Shares, e.Price, e.Amount, e.Timestamp)
			}
			return w.Flush()
		},
	}
}

func newWatchCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream committed entries as they land",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, conn, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			stream, err := client.StreamUpdates(cmd.Context(), &pb.StreamUpdatesRequest{AccountID: opts.account})
			if err != nil {
				return err
			}

			for {
				entry, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				printEntry(cmd.OutOrStdout(), entry)
			}
		},
	}
}

func printEntry(w io.Writer, e *pb.Entry) {
	if e == nil {
		return
	}
	if e.Symbol != "" {
		fmt.Fprintf(w, "#%d %s %s shares=%s price=%s amount=%s at %s\n", e.Sequence, e.Kind, e.Symbol, e.Shares, e.Price, e.Amount, e.Timestamp)
		return
	}
	fmt.Fprintf(w, "#%d %s amount=%s at %s\n", e.Sequence, e.Kind, e.Amount, e.Timestamp)
}
