// Package main is the entry point for the catalog server and its tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/cmd/server/client"
)

var (
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "teyvat-catalog",
	Short: "Teyvat catalog HTTP server",
	Long:  `Teyvat catalog serves the characters, weapons and monsters collections over a JSON HTTP API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
