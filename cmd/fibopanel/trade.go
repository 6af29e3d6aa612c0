package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lohzi97/FiboManualTradingPanel/internal/account"
	"github.com/lohzi97/FiboManualTradingPanel/internal/config"
	"github.com/lohzi97/FiboManualTradingPanel/internal/logging"
	"github.com/lohzi97/FiboManualTradingPanel/internal/oanda"
	"github.com/lohzi97/FiboManualTradingPanel/internal/order"
	"github.com/lohzi97/FiboManualTradingPanel/internal/tradingview"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

// tradeFlags are the panel's three ratio fields plus the paper broker inputs.
type tradeFlags struct {
	entry      string
	stopLoss   string
	takeProfit string

	high    float64
	low     float64
	balance float64
}

func addTradeFlags(cmd *cobra.Command, tf *tradeFlags) {
	cmd.Flags().StringVarP(&tf.entry, "entry", "e", "", "Entry level (default from config)")
	cmd.Flags().StringVarP(&tf.stopLoss, "sl", "s", "", "Stop loss level (default from config)")
	cmd.Flags().StringVarP(&tf.takeProfit, "tp", "p", "", "Take profit level (default from config)")
	cmd.Flags().Float64Var(&tf.high, "high", 0, "Paper broker: last closed bar high")
	cmd.Flags().Float64Var(&tf.low, "low", 0, "Paper broker: last closed bar low")
	cmd.Flags().Float64Var(&tf.balance, "balance", 0, "Paper broker: account balance (default PAPER_BALANCE)")
}

func tradeCmd(flags *globalFlags, side string) *cobra.Command {
	tf := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   side,
		Short: fmt.Sprintf("Place a %s limit order at the entry level", side),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := types.ParseAction(side)
			if err != nil {
				return err
			}
			return runTrade(cmd, flags, tf, action, false)
		},
	}
	addTradeFlags(cmd, tf)
	return cmd
}

func levelsCmd(flags *globalFlags) *cobra.Command {
	tf := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "levels [buy|sell]",
		Short: "Show the order a buy or sell would place, without placing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := types.ParseAction(args[0])
			if err != nil {
				return err
			}
			return runTrade(cmd, flags, tf, action, true)
		},
	}
	addTradeFlags(cmd, tf)
	return cmd
}

// session is the set of collaborators one command run trades through.
type session struct {
	cfg       *config.Config
	assembler *order.Assembler
	paper     *account.Account
	wait      func()
}

func newSession(cmd *cobra.Command, flags *globalFlags, tf *tradeFlags) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.broker != "" {
		cfg.Broker = flags.broker
	}
	if flags.instrument != "" {
		cfg.Instrument = flags.instrument
	}
	if flags.timeframe != "" {
		cfg.Timeframe = flags.timeframe
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	orderCfg := order.Config{
		Instrument: cfg.Instrument,
		Timeframe:  cfg.ChartTimeframe(),
		Label:      cfg.Label,
		Risk:       cfg.Risk,
		DryRun:     flags.dryRun,
	}

	s := &session{cfg: cfg, wait: func() {}}
	switch cfg.Broker {
	case config.BrokerOanda:
		svc := oanda.NewOandaService(cfg.Oanda.AccountID, cfg.Oanda.APIKey, cfg.Oanda.APIURL)
		s.assembler = order.NewAssembler(orderCfg, svc, svc, svc)
		s.wait = svc.Wait
	case config.BrokerPaper:
		if !cmd.Flags().Changed("high") || !cmd.Flags().Changed("low") {
			return nil, errors.New("--high and --low are required with the paper broker")
		}
		balance := cfg.PaperBalance
		if cmd.Flags().Changed("balance") {
			balance = tf.balance
		}
		s.paper = account.NewAccount(balance)
		market := account.StaticMarket{Bar: types.Bar{Timestamp: time.Now().UTC(), High: tf.high, Low: tf.low}}
		s.assembler = order.NewAssembler(orderCfg, market, s.paper, s.paper)
	}

	slog.Debug("Session ready", "broker", cfg.Broker, "instrument", cfg.Instrument, "timeframe", orderCfg.Timeframe, "dryRun", flags.dryRun)
	return s, nil
}

// inputs pre-fills every field with the configured default, then applies
// whatever the trader typed.
func inputs(cmd *cobra.Command, cfg *config.Config, tf *tradeFlags) order.Inputs {
	in := order.DefaultInputs(cfg.Levels.Levels())
	if cmd.Flags().Changed("entry") {
		in.Entry.Text = tf.entry
	}
	if cmd.Flags().Changed("sl") {
		in.StopLoss.Text = tf.stopLoss
	}
	if cmd.Flags().Changed("tp") {
		in.TakeProfit.Text = tf.takeProfit
	}
	return in
}

func runTrade(cmd *cobra.Command, flags *globalFlags, tf *tradeFlags, action types.Action, preview bool) error {
	s, err := newSession(cmd, flags, tf)
	if err != nil {
		return err
	}
	defer s.wait()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in := inputs(cmd, s.cfg, tf)

	var outcome *order.Outcome
	if preview {
		outcome, err = s.assembler.Preview(ctx, action, in)
	} else {
		outcome, err = s.assembler.Place(ctx, action, in)
	}
	if err != nil {
		slog.Error("Order attempt failed", "action", action, "error", err)
		return errors.New(order.Describe(err))
	}

	out := cmd.OutOrStdout()
	printOutcome(out, outcome)
	if s.paper != nil && outcome.Submitted {
		for _, p := range s.paper.PendingOrders() {
			p.Print(out)
		}
	}
	if flags.pine {
		fmt.Fprintln(out)
		fmt.Fprint(out, tradingview.GenerateLevelsPinescript(*outcome.Request))
	}
	return nil
}

func printOutcome(w io.Writer, outcome *order.Outcome) {
	req := outcome.Request
	price := req.Instrument.FormatPrice

	fmt.Fprintf(w, "\n=== %s %s ===\n", req.Action, req.Instrument.Name)
	fmt.Fprintf(w, "Swing:        %s -> %s\n", price(req.ZeroPrice), price(req.HundredPrice))
	fmt.Fprintf(w, "Entry:        %s\n", price(req.EntryPrice))
	fmt.Fprintf(w, "Stop Loss:    %s (%.1f pips)\n", price(req.StopLossPrice), req.StopLossPips)
	fmt.Fprintf(w, "Take Profit:  %s (%.1f pips)\n", price(req.TakeProfitPrice), req.TakeProfitPips)
	fmt.Fprintf(w, "Size:         %.2f lots (%s units)\n", req.Lots, req.Instrument.FormatUnits(req.Volume))
	fmt.Fprintf(w, "Expiry:       %s\n", req.Expiry.Format(time.RFC3339))
	fmt.Fprintf(w, "Client ID:    %s\n", req.ID)

	switch {
	case outcome.InsufficientBalance:
		fmt.Fprintln(w, order.InsufficientBalanceNotice)
	case outcome.Submitted:
		fmt.Fprintln(w, "Order submitted.")
	default:
		fmt.Fprintln(w, "Order not submitted.")
	}
}
