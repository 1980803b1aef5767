package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bimakw/simple-dex/internal/app"
	"github.com/bimakw/simple-dex/internal/config"
	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/logger"
)

// errReported marks a failure already shown to the user
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "simpledex",
	Short: "A CLI for the SimpleDex pool",
	Long: `simpledex swaps TokenA and TokenB, approves spending and manages
liquidity on a deployed SimpleDex pool.

Examples:
  simpledex swap 5 TokenA to TokenB
  simpledex approve TokenA 100
  simpledex add-liquidity 10 20
  simpledex prices`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// withApp builds the application from configuration and runs fn with it.
// Interrupts cancel the context passed to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose(cmd) {
		level = "debug"
	}
	log, err := logger.New(level, true)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, a)
}

func verbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

func jsonOutput(cmd *cobra.Command) bool {
	j, _ := cmd.Flags().GetBool("json")
	return j
}

// waitFor runs fn behind a spinner unless JSON output is requested
func waitFor(cmd *cobra.Command, suffix string, fn func()) {
	if jsonOutput(cmd) {
		fn()
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	fn()
	s.Stop()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printStatus shows the outcome of a form and fails the command unless it succeeded
func printStatus(cmd *cobra.Command, a *app.App, status entities.Status) error {
	if jsonOutput(cmd) {
		if err := printJSON(status); err != nil {
			return err
		}
	} else {
		switch status.State {
		case entities.StateSuccess:
			color.Green("\n%s\n", status.Message)
		case entities.StateValidationFailed:
			color.Yellow("\n%s\n", status.Message)
		default:
			color.Red("\n%s\n", status.Message)
		}
		if status.TxHash != "" {
			fmt.Printf("  Tx: %s\n", status.TxHash)
			if url := a.History.TxURL(status.TxHash); url != "" {
				color.Cyan("  %s\n", url)
			}
		}
		fmt.Println()
	}

	if status.State != entities.StateSuccess {
		return errReported
	}
	return nil
}

func printError(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n\n", err)
}
