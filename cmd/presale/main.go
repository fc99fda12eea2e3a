package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/aurumtokenaur/aurum-swap-site/pkg/chains/evm"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/config"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/constants"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/presale"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/rate"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ticker"
	"github.com/aurumtokenaur/aurum-swap-site/pkg/ui"
)

func main() {
	app := &cli.App{
		Name:  "presale",
		Usage: "AUR presale client for BNB Smart Chain",
		Commands: []*cli.Command{
			buyCommand(),
			estimateCommand(),
			statusCommand(),
			tickerCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buyCommand() *cli.Command {
	return &cli.Command{
		Name:  "buy",
		Usage: "Purchase AUR with BNB through the presale contract",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "BNB amount to spend (ex: 0.05)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg)
			ctx := signalContext(c.Context)

			core, provider, err := buildCore(cfg, logger)
			if err != nil {
				return err
			}
			defer provider.Close()

			if err := core.session.Connect(ctx); err != nil {
				return err
			}

			outcome := core.executor.Buy(ctx, c.String("amount"))
			switch outcome.Kind {
			case presale.OutcomeConfirmed:
				if _, err := core.tracker.Refresh(ctx); err != nil {
					logger.Debug("progress refresh skipped", "error", err)
				}
				return nil
			case presale.OutcomeReverted:
				return fmt.Errorf("transaction reverted: %s", outcome.TxHash)
			default:
				return outcome.Err
			}
		},
	}
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Estimate the AUR amount a BNB spend buys at the current market rate",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "BNB amount (ex: 0.05)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg)
			ctx := signalContext(c.Context)

			rates := rate.NewEstimator(cfg.Binance.BaseURL, constants.RatePairSymbol, logger)
			bnbUSD, err := rates.Rate(ctx)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseFloat(c.String("amount"), 64)
			if err != nil || amount <= 0 {
				return presale.ErrInvalidAmount
			}

			tokens := rate.Estimate(amount, bnbUSD, constants.TokenPriceUSD)
			fmt.Printf("With %s BNB (~$%.2f), you will receive approx. %.2f %s\n",
				c.String("amount"), amount*bnbUSD, tokens, constants.TokenSymbol)
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show sale parameters and batch progress",
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg)
			ctx := signalContext(c.Context)

			core, provider, err := buildCore(cfg, logger)
			if err != nil {
				return err
			}
			defer provider.Close()

			if err := core.session.Connect(ctx); err != nil {
				return err
			}

			_, contract, ok := core.session.Snapshot()
			if !ok {
				return presale.ErrNotConnected
			}

			paused, err := contract.Paused(ctx)
			if err != nil {
				logger.Warn("pause flag unavailable", "error", err)
			} else {
				fmt.Printf("Paused: %v\n", paused)
			}
			if saleRate, err := contract.RateTokensPerBNB(ctx); err == nil {
				fmt.Printf("Rate: %s %s per BNB\n", saleRate, constants.TokenSymbol)
			}
			if total, err := contract.TokensForSale(ctx); err == nil {
				fmt.Printf("Tokens for sale: %s\n", total)
			}

			if _, err := core.tracker.Refresh(ctx); err != nil {
				logger.Warn("progress unavailable", "error", err)
			}
			return nil
		},
	}
}

func tickerCommand() *cli.Command {
	return &cli.Command{
		Name:  "ticker",
		Usage: "Stream the market price marquee",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "print one refresh and exit",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg)
			ctx := signalContext(c.Context)

			renderer := ticker.NewWriterRenderer(os.Stdout)
			marquee := ticker.NewMarquee(cfg.Binance.BaseURL, nil, renderer, logger)

			if c.Bool("once") {
				quotes, err := marquee.Fetch(ctx)
				if err != nil {
					return err
				}
				renderer.RenderQuotes(quotes)
				return nil
			}

			err := marquee.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Connect, keep reporting sale progress, and accept commands on stdin",
		Description: `Runs the interactive loop. Stdin lines drive the same controls the
web page exposes:

   connect            rerun the connect sequence
   estimate <amount>  show the estimated AUR for a BNB amount
   buy <amount>       purchase AUR with the given BNB amount
   refresh            refresh the sale progress bar`,
		Action: func(c *cli.Context) error {
			cfg := config.MustLoad()
			logger := setupLogger(cfg)
			ctx := signalContext(c.Context)

			core, provider, err := buildCore(cfg, logger)
			if err != nil {
				return err
			}
			defer provider.Close()

			rates := rate.NewEstimator(cfg.Binance.BaseURL, constants.RatePairSymbol, logger)
			orch := presale.NewOrchestrator(core.session, core.executor, core.tracker,
				rates, provider, core.sink, logger)

			orch.Connect()
			orch.RefreshProgress()
			go readCommands(os.Stdin, orch, logger)

			err = orch.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

// readCommands turns stdin lines into orchestrator commands until EOF.
func readCommands(r io.Reader, orch *presale.Orchestrator, logger *slog.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "connect":
			orch.Connect()
		case "estimate":
			if len(fields) != 2 {
				logger.Warn("usage: estimate <amount>")
				continue
			}
			orch.Estimate(fields[1])
		case "buy":
			if len(fields) != 2 {
				logger.Warn("usage: buy <amount>")
				continue
			}
			orch.Buy(fields[1])
		case "refresh":
			orch.RefreshProgress()
		default:
			logger.Warn("unknown command", "input", fields[0])
		}
	}
}

type core struct {
	session  *presale.Session
	executor *presale.Executor
	tracker  *presale.Tracker
	sink     ui.Sink
}

// buildCore wires the provider, session, executor and tracker around a console
// sink, mirroring how the web front end assembles the same pieces.
func buildCore(cfg *config.Config, logger *slog.Logger) (*core, *evm.Provider, error) {
	if cfg.WalletPrivateKey == "" {
		return nil, nil, fmt.Errorf("WALLET_PRIVATE_KEY is not set")
	}

	provider, err := evm.NewProvider(&evm.ProviderConfig{
		PrivateKeyHex:  cfg.WalletPrivateKey,
		Endpoints:      cfg.Endpoints(),
		InitialChainID: cfg.ChainID,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sink := ui.NewConsole(os.Stdout)
	session, err := presale.NewSession(provider, provider, sink, cfg.ContractAddress, cfg.ChainID, logger)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}

	executor := presale.NewExecutor(session, provider, sink, logger)
	tracker := presale.NewTracker(session, provider, sink, logger)

	return &core{session: session, executor: executor, tracker: tracker, sink: sink}, provider, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

func signalContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()
	return ctx
}
