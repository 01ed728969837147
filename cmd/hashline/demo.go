package hashline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashline/hashline/internal/config"
	"github.com/hashline/hashline/internal/ledger"
	"github.com/hashline/hashline/internal/metrics"
	"github.com/hashline/hashline/internal/miner"
	"github.com/hashline/hashline/internal/output"
)

var chainConfig config.ChainConfig

var DemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the ledger demonstration scenario",
	Long: `Build a chain from scratch: submit transactions, mine them into
proof-of-work sealed blocks, validate the chain, then tamper with a sealed
block and show the validation failure.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if parent := cmd.Parent(); parent != nil && parent.PersistentPreRunE != nil {
			if err := parent.PersistentPreRunE(parent, args); err != nil {
				return err
			}
		}

		chainConfig = config.LoadChainConfigFromCLI()
		if err := chainConfig.Validate(); err != nil {
			return fmt.Errorf("invalid chain configuration: %w", err)
		}

		slog.Debug("Command-line arguments", "chainConfig", chainConfig)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(nil)
	},
}

func init() {
	DemoCmd.PersistentFlags().IntP("difficulty", "d", 4, "Required number of leading zero hex characters in a block hash")
	DemoCmd.PersistentFlags().IntP("workers", "w", 0, "Nonce search workers (values above 1 enable the parallel miner)")
	DemoCmd.PersistentFlags().Uint64P("max-iterations", "m", 0, "Abort the nonce search after this many attempts (0 = unbounded)")
	DemoCmd.PersistentFlags().IntP("rounds", "n", 0, "Extra blocks of generated transactions to mine after the scenario")
	DemoCmd.PersistentFlags().Bool("skip-tamper", false, "Skip the tampering step of the scenario")
	DemoCmd.PersistentFlags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	DemoCmd.PersistentFlags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")

	if err := viper.BindPFlags(DemoCmd.PersistentFlags()); err != nil {
		slog.Error("Failed to bind DemoCmd flags", "error", err)
	}

	DemoCmd.AddCommand(jsonCmd)
	DemoCmd.AddCommand(tsvCmd)
}

// newMiner picks the search strategy for the configured worker count.
func newMiner(cfg config.ChainConfig) miner.Miner {
	if cfg.Workers > 1 {
		return &miner.ParallelMiner{Workers: cfg.Workers, MaxIterations: cfg.MaxIterations}
	}
	return &miner.SequentialMiner{MaxIterations: cfg.MaxIterations}
}

func runDemo(handler output.OutputHandler) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handleInterrupt(cancel)

	slog.Info("Sealing genesis block", "difficulty", chainConfig.Difficulty)
	chain, err := ledger.New(ctx, chainConfig.Difficulty, newMiner(chainConfig))
	if err != nil {
		return fmt.Errorf("failed to initialize chain: %w", err)
	}

	if viper.GetBool("enable-prometheus") {
		server, err := metrics.CreateMetricsServer(chain, viper.GetString("prometheus-addr"))
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer shutdownMetricsServer(server)
	}

	if err := mineScenarioBlocks(ctx, chain); err != nil {
		return err
	}
	if err := mineExtraRounds(ctx, chain, viper.GetInt("rounds")); err != nil {
		return err
	}

	printChain(chain)
	if handler != nil {
		if err := exportChain(ctx, chain, handler); err != nil {
			return err
		}
	}

	slog.Info("Validating chain", "valid", chain.IsValid())

	if !viper.GetBool("skip-tamper") {
		if err := tamperAndRevalidate(chain); err != nil {
			return err
		}
	}

	return nil
}

// mineScenarioBlocks replays the reference scenario: two transactions in
// the first mined block, one in the second.
func mineScenarioBlocks(ctx context.Context, chain *ledger.Chain) error {
	slog.Info("Adding transactions and mining blocks")

	for _, tx := range []struct {
		sender, receiver string
		amount           float64
	}{
		{"Alice", "Bob", 1.5},
		{"Bob", "Charlie", 0.8},
	} {
		if err := chain.SubmitTransaction(tx.sender, tx.receiver, tx.amount); err != nil {
			return err
		}
	}
	if _, err := chain.MinePending(ctx); err != nil {
		return err
	}

	if err := chain.SubmitTransaction("Charlie", "Dave", 2.2); err != nil {
		return err
	}
	if _, err := chain.MinePending(ctx); err != nil {
		return err
	}

	return nil
}

// mineExtraRounds seals rounds additional blocks of generated transactions.
func mineExtraRounds(ctx context.Context, chain *ledger.Chain, rounds int) error {
	if rounds <= 0 {
		return nil
	}

	slog.Info("Mining extra rounds", "rounds", rounds)
	bar := progressbar.NewOptions64(
		int64(rounds),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Mining blocks..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	if err := bar.RenderBlank(); err != nil {
		return fmt.Errorf("failed to render progress bar: %w", err)
	}

	for round := 0; round < rounds; round++ {
		for i := 0; i < 1+round%3; i++ {
			sender := fmt.Sprintf("wallet-%03d", round)
			receiver := fmt.Sprintf("wallet-%03d", round+i+1)
			amount := float64(i+1) * 0.25
			if err := chain.SubmitTransaction(sender, receiver, amount); err != nil {
				return err
			}
		}
		if _, err := chain.MinePending(ctx); err != nil {
			return err
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	return bar.Finish()
}

// printChain renders every sealed block through the structured logger.
func printChain(chain *ledger.Chain) {
	for _, block := range chain.Blocks() {
		slog.Info("Block details",
			"index", block.Index,
			"timestamp", block.Timestamp,
			"transactions", block.Transactions,
			"previous_hash", block.PreviousHash,
			"hash", block.Hash,
			"nonce", block.Nonce,
		)
	}
}

func exportChain(ctx context.Context, chain *ledger.Chain, handler output.OutputHandler) error {
	for _, block := range chain.Blocks() {
		if err := handler.WriteBlock(ctx, block); err != nil {
			return fmt.Errorf("failed to export block %d: %w", block.Index, err)
		}
	}
	return nil
}

// tamperAndRevalidate mutates a sealed transaction in place and shows the
// chain failing validation at that block.
func tamperAndRevalidate(chain *ledger.Chain) error {
	slog.Info("Tampering with block 1")
	blocks := chain.Blocks()
	if len(blocks) < 2 || len(blocks[1].Transactions) == 0 {
		return fmt.Errorf("chain too short to demonstrate tampering")
	}
	blocks[1].Transactions[0].Amount = 100

	err := chain.Validate()
	if err == nil {
		return fmt.Errorf("tampering went undetected")
	}

	var tamperErr ledger.TamperError
	if errors.As(err, &tamperErr) {
		slog.Warn("Tampering detected", "index", tamperErr.Index, "reason", tamperErr.Reason)
	}
	slog.Info("Validating chain", "valid", chain.IsValid())

	return nil
}

func shutdownMetricsServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down metrics server", "error", err)
	}
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()
}
