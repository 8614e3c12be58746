package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanitytx/txhash-miner/internal/chain"
	"github.com/vanitytx/txhash-miner/internal/units"
)

var rpcURL string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "gas-checker",
		Short: "Report current network gas prices",
		Long: `Prints the latest block base fee and the recent average priority
fee in gwei. The RPC endpoint comes from --rpc or the RPC environment
variable (a .env file is also honored).`,
		RunE: runCheck,
	}

	rootCmd.Flags().StringVar(&rpcURL, "rpc", "", "Node RPC endpoint (default: RPC env var)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	if rpcURL == "" {
		v := viper.New()
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		v.AutomaticEnv()
		_ = v.ReadInConfig()
		rpcURL = v.GetString("RPC")
	}
	if rpcURL == "" {
		return fmt.Errorf("no RPC endpoint configured")
	}

	ctx := context.Background()
	client, err := chain.Dial(ctx, rpcURL)
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := client.SuggestFees(ctx)
	if err != nil {
		return err
	}

	baseFee := units.WeiToGwei(report.BaseFee)
	priorityFee := units.WeiToGwei(report.AvgPriorityFee)

	fmt.Println("Current Base Network Gas Prices:")
	fmt.Printf("Base Fee: %s Gwei\n", baseFee.StringFixed(5))
	fmt.Printf("Priority Fee: %s Gwei\n", priorityFee.StringFixed(5))
	fmt.Printf("Total: %s Gwei\n", baseFee.Add(priorityFee).StringFixed(5))
	return nil
}
