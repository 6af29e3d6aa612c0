// fibopanel places fibo-level limit orders from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
)

var version = "0.1.0"

type globalFlags struct {
	configPath string
	broker     string
	instrument string
	timeframe  string
	dryRun     bool
	pine       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "fibopanel",
		Short: "Quick fibo-level trading panel",
		Long: `fibopanel places a pending limit order whose entry, stop loss and take
profit are fibo ratios of the last closed bar. Size comes from fixed-ratio
money management against the account balance.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flags.broker, "broker", "", "Broker: oanda or paper (overrides BROKER)")
	rootCmd.PersistentFlags().StringVarP(&flags.instrument, "instrument", "i", "", "Instrument, e.g. EUR_USD (overrides INSTRUMENT)")
	rootCmd.PersistentFlags().StringVarP(&flags.timeframe, "timeframe", "t", "", "Chart timeframe, e.g. H1 or \"4 hours\" (overrides TIMEFRAME)")
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Assemble the order without submitting it")
	rootCmd.PersistentFlags().BoolVar(&flags.pine, "pine", false, "Print the order levels as Pine Script")

	rootCmd.AddCommand(tradeCmd(flags, "buy"))
	rootCmd.AddCommand(tradeCmd(flags, "sell"))
	rootCmd.AddCommand(levelsCmd(flags))
	rootCmd.AddCommand(timeframesCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fibopanel version %s\n", version)
		},
	}
}

func timeframesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeframes",
		Short: "List supported chart timeframes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, tf := range timeframe.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s\n", tf, tf.MustToDuration())
			}
		},
	}
}
