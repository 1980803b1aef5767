package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/simple-dex/internal/app"
	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
)

var historyLimit int

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the pool price of each token",
	Args:  cobra.NoArgs,
	RunE:  runPrices,
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the signing account and its token balances",
	Args:  cobra.NoArgs,
	RunE:  runAccount,
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the deployed contracts and whether they resolve",
	Args:  cobra.NoArgs,
	RunE:  runContracts,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submissions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(pricesCmd, accountCmd, contractsCmd, historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", services.DefaultHistoryLimit, "Number of submissions to show")
}

func runPrices(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		var board entities.PriceBoard
		waitFor(cmd, "Fetching prices...", func() {
			board = a.Prices.GetPrices(ctx)
		})

		if jsonOutput(cmd) {
			return printJSON(board)
		}

		fmt.Println()
		printQuote("Price of Token A", board.PriceOfA)
		printQuote("Price of Token B", board.PriceOfB)
		fmt.Println()
		return nil
	})
}

func printQuote(label string, q entities.PriceQuote) {
	fmt.Printf("  %-18s ", label+":")
	if q.Resolved {
		color.Green("%s", q.Display())
	} else {
		color.Yellow("%s", q.Display())
	}
}

func runAccount(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		account, err := a.Accounts.Account(ctx)
		if err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return printJSON(account)
		}

		fmt.Println()
		color.Cyan("  %s\n", account.Address)
		for _, b := range account.Balances {
			fmt.Printf("  %-8s %s %s\n", b.Token, b.Balance, b.Ticker)
		}
		fmt.Println()
		return nil
	})
}

func runContracts(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		statuses := a.Resolver.Statuses(ctx)

		if jsonOutput(cmd) {
			return printJSON(statuses)
		}

		fmt.Println()
		for _, s := range statuses {
			address := s.Address
			if address == "" {
				address = "-"
			}
			fmt.Printf("  %-10s %-42s ", s.Name, address)
			if s.Resolved {
				color.Green("resolved")
			} else {
				color.Red("pending (%s)", s.Error)
			}
		}
		fmt.Println()
		return nil
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		txs, err := a.History.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}

		if jsonOutput(cmd) {
			return printJSON(txs)
		}

		if len(txs) == 0 {
			fmt.Println("\nNo submissions yet.")
			return nil
		}

		fmt.Println()
		for _, tx := range txs {
			fmt.Printf("  %s  %-16s %-16s ", tx.CreatedAt.Format("2006-01-02 15:04:05"), tx.Form, tx.Function)
			switch tx.State {
			case entities.StateSuccess:
				color.Green("%s", tx.Message)
			case entities.StateCallFailed:
				color.Red("%s (%s)", tx.Message, tx.Error)
			default:
				color.Yellow("%s", tx.State)
			}
			if tx.TxHash != "" {
				fmt.Printf("      %s\n", tx.TxHash)
			}
		}
		fmt.Println()
		return nil
	})
}
