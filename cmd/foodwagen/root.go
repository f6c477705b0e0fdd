package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foodwagen/foodwagen/pkg/client"
)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "foodwagen",
	Short: "foodwagen manages food listings from your terminal",
	Long:  "foodwagen is a CLI for the FoodWagen API: list, search, add, update, and delete food items with their images.",
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base API URL (default $FOODWAGEN_API or http://localhost:8080/api)")
}

func apiClient() *client.Client {
	base := apiURL
	if base == "" {
		base = os.Getenv("FOODWAGEN_API")
	}
	if base == "" {
		base = "http://localhost:8080/api"
	}
	return client.New(client.Config{BaseURL: base})
}
