package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bimakw/simple-dex/internal/app"
	"github.com/bimakw/simple-dex/internal/domain/entities"
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <from-token> to <to-token>",
	Short: "Swap TokenA for TokenB or back",
	Long: `Swap an amount of one pool token for the other. Amounts are whole
base units. Tokens may be given as TokenA/TokenB, TKA/TKB or A/B.

Examples:
  simpledex swap 5 TokenA to TokenB
  simpledex swap 100 tkb to tka`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwap,
}

var approveCmd = &cobra.Command{
	Use:   "approve <token> <amount>",
	Short: "Allow the pool to spend a token",
	Args:  cobra.ExactArgs(2),
	RunE:  runApprove,
}

var addLiquidityCmd = &cobra.Command{
	Use:   "add-liquidity <amountA> <amountB>",
	Short: "Deposit TokenA and TokenB into the pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLiquidity(cmd, args, entities.FormAddLiquidity)
	},
}

var removeLiquidityCmd = &cobra.Command{
	Use:   "remove-liquidity <amountA> <amountB>",
	Short: "Withdraw TokenA and TokenB from the pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLiquidity(cmd, args, entities.FormRemoveLiquidity)
	},
}

func init() {
	rootCmd.AddCommand(swapCmd, approveCmd, addLiquidityCmd, removeLiquidityCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
	req, err := ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return err
	}

	if verbose(cmd) {
		fmt.Printf("Swapping %s %s for %s\n", req.Amount, req.From, req.To)
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		session := a.Sessions.Create()
		defer a.Sessions.Delete(session.ID)

		var (
			status entities.Status
			err    error
		)
		waitFor(cmd, "Waiting for swap confirmation...", func() {
			status, err = session.Swap.SubmitPair(ctx, req.From, req.To, req.Amount)
		})
		if err != nil {
			return err
		}
		return printStatus(cmd, a, status)
	})
}

func runApprove(cmd *cobra.Command, args []string) error {
	token, err := ParseToken(args[0])
	if err != nil {
		return err
	}
	amount := args[1]

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		session := a.Sessions.Create()
		defer a.Sessions.Delete(session.ID)

		var status entities.Status
		waitFor(cmd, fmt.Sprintf("Approving %s...", token), func() {
			status, err = session.Approve.Submit(ctx, token, amount)
		})
		if err != nil {
			return err
		}
		return printStatus(cmd, a, status)
	})
}

func runLiquidity(cmd *cobra.Command, args []string, kind entities.FormKind) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		session := a.Sessions.Create()
		defer a.Sessions.Delete(session.ID)

		form := session.AddLiquidity
		suffix := "Adding liquidity..."
		if kind == entities.FormRemoveLiquidity {
			form = session.RemoveLiquidity
			suffix = "Removing liquidity..."
		}

		var (
			status entities.Status
			err    error
		)
		waitFor(cmd, suffix, func() {
			status, err = form.Submit(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		return printStatus(cmd, a, status)
	})
}
