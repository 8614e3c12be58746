package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/vanitytx/txhash-miner/internal/chain"
	"github.com/vanitytx/txhash-miner/internal/config"
	addrcrypto "github.com/vanitytx/txhash-miner/internal/crypto"
	logpkg "github.com/vanitytx/txhash-miner/internal/logger"
	"github.com/vanitytx/txhash-miner/internal/units"
	minerpkg "github.com/vanitytx/txhash-miner/pkg/miner"
	signerpkg "github.com/vanitytx/txhash-miner/pkg/signer"
	"github.com/vanitytx/txhash-miner/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "txhash-miner",
		Short: "Vanity transaction hash miner",
		Long: `Searches fee parameters in parallel until a contract-creation
transaction's hash starts with the desired hex prefix, then optionally
broadcasts it. Chain parameters and secrets come from the environment or a
.env file: PRIVATE_KEY, RPC, CHAIN_ID, HASH_PREFIX, CALLDATA, GAS_LIMIT.`,
		Run: runMiner,
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", min(runtime.NumCPU(), minerpkg.DefaultWorkerCap), "Number of worker goroutines")
	rootCmd.Flags().IntVarP(&cfg.BatchSize, "batch-size", "b", minerpkg.DefaultBatchSize, "Candidates signed between cancellation checks")
	rootCmd.Flags().Uint64Var(&cfg.BaseFeeStart, "base-fee", cfg.BaseFeeStart, "Base fee search start in wei")
	rootCmd.Flags().Uint64Var(&cfg.PriorityFee, "priority-fee", cfg.PriorityFee, "Fixed priority fee in wei")
	rootCmd.Flags().Uint64Var(&cfg.OffsetSpacing, "spacing", minerpkg.OffsetSpacing, "Base fee offset spacing between workers")
	rootCmd.Flags().Int64VarP(&cfg.Nonce, "nonce", "n", -1, "Nonce override (default: fetch from node)")
	rootCmd.Flags().IntVar(&cfg.MaxBatches, "max-batches", 0, "Per-worker batch budget, 0 means search until found")
	rootCmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Search only, never broadcast")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Logging interval in seconds (default: 5)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// mineResult carries the search outcome out of the mining goroutine.
type mineResult struct {
	outcome *types.SearchOutcome
	err     error
}

func runMiner(cmd *cobra.Command, args []string) {
	if err := cfg.LoadEnv(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging()

	key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		logger.Fatalf("Invalid private key: %v", err)
	}
	sender := gethcrypto.PubkeyToAddress(key.PublicKey)

	calldata, err := cfg.GetCalldata()
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}

	ctx := context.Background()

	var client *chain.Client
	if cfg.RPCURL != "" {
		client, err = chain.Dial(ctx, cfg.RPCURL)
		if err != nil {
			logger.Fatalf("Error: %v", err)
		}
		defer client.Close()

		if nodeID, err := client.ChainID(ctx); err == nil && nodeID.Uint64() != cfg.ChainID {
			logger.Printf("Warning: node reports chain id %d, configured %d", nodeID.Uint64(), cfg.ChainID)
		}
	}

	nonce := uint64(cfg.Nonce)
	if cfg.Nonce < 0 {
		nonce, err = client.Nonce(ctx, sender)
		if err != nil {
			logger.Fatalf("Error: %v", err)
		}
	}

	template := &types.TxTemplate{
		ChainID:  new(big.Int).SetUint64(cfg.ChainID),
		Nonce:    nonce,
		GasLimit: cfg.GasLimit,
		Data:     calldata,
	}
	predicted := addrcrypto.ContractAddress(sender, nonce)

	logger.Printf("Starting parallel search for transaction hash with prefix: %s", cfg.NormalizedPrefix())
	logger.Printf("Sender: %s (nonce %d)", sender.Hex(), nonce)
	logger.Printf("Predicted contract address: %s", predicted.Hex())

	miner := minerpkg.NewMiner(cfg, logger, signerpkg.New(key, template), template)

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	resultChan := make(chan mineResult, 1)
	go func() {
		outcome, err := miner.Mine(ctx)
		resultChan <- mineResult{outcome: outcome, err: err}
	}()

	var res mineResult
	select {
	case res = <-resultChan:
	case <-sigChan:
		logger.Println("\nReceived interrupt signal (Ctrl+C). Stopping workers...")
		miner.Stop()
		res = <-resultChan
	}

	switch {
	case res.outcome != nil:
		reportOutcome(ctx, client, res.outcome, predicted)
	case res.err != nil:
		logger.Fatalf("Search failed: %v", res.err)
	default:
		logger.Println("No matching hash found (interrupted or search budget exhausted).")
	}
}

// reportOutcome prints the winning candidate and hands it to the broadcast
// step unless this is a dry run.
func reportOutcome(ctx context.Context, client *chain.Client, outcome *types.SearchOutcome, predicted common.Address) {
	logger.Printf("Match found!")
	logger.Printf("Transaction hash: %s", outcome.Hash.Hex())
	logger.Printf("Contract address: %s", predicted.Hex())
	logger.Printf("Estimated gas cost: %s ETH", units.WeiToEther(outcome.TotalFee).String())
	logger.Printf("Attempts: %d", outcome.Attempts)
	logger.Printf("Duration: %v", outcome.Duration)

	rate := 0.0
	if outcome.Duration.Seconds() > 0 {
		rate = float64(outcome.Attempts) / outcome.Duration.Seconds()
	}
	logger.Printf("Rate: %.2f hashes/sec", rate)

	if cfg.DryRun || client == nil {
		logger.Println("Dry run, not broadcasting.")
		return
	}

	fmt.Print("Send this transaction? (y/n): ")
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(input)) != "y" {
		logger.Println("Aborted by user.")
		return
	}

	hash, err := client.SendRawTransaction(ctx, outcome.Raw)
	if err != nil {
		logger.Fatalf("Broadcast failed: %v", err)
	}
	logger.Printf("Transaction sent: %s", hash.Hex())

	receipt, err := client.WaitMined(ctx, hash)
	if err != nil {
		logger.Fatalf("Waiting for receipt failed: %v", err)
	}
	logger.Printf("Mined in block %d (status %d)", receipt.BlockNumber.Uint64(), receipt.Status)
}

func setupLogging() {
	if cfg.LogFile != "" {
		// Log to file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
	logger.SetVerbose(cfg.Verbose)
}
