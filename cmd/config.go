package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/appknox-mcp/pkg/adk"
	"github.com/user/appknox-mcp/pkg/appknox"
	"github.com/user/appknox-mcp/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys, CLI path)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a provider",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")

		if provider == "" || key == "" {
			fmt.Println("Error: --provider and --key are required")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cfg.SetAPIKey(strings.ToLower(provider), key)
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("API key saved for provider: %s\n", provider)
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider and model",
	Run: func(cmd *cobra.Command, args []string) {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		if provider != "" {
			cfg.SelectedProvider = strings.ToLower(provider)
		}
		if model != "" {
			cfg.SelectedModel = model
		}

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Println("Error loading config:", err)
			return
		}

		provider := cfg.SelectedProvider
		if provider == "" {
			fmt.Println("No provider selected. Please run 'appknox-mcp config setup'.")
			return
		}
		apiKey := cfg.GetAPIKey(provider)
		if apiKey == "" {
			fmt.Printf("No API key found for %s.\n", provider)
			return
		}

		fmt.Printf("Fetching models for %s...\n", provider)
		ctx := context.Background()
		p, err := adk.NewProvider(ctx, provider, apiKey, "")
		if err != nil {
			fmt.Println("Error initializing provider:", err)
			return
		}

		models, err := p.ListModels(ctx)
		if err != nil {
			fmt.Println("Error fetching models:", err)
			return
		}

		fmt.Printf("\nAvailable Models (%s):\n", provider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, m)
		}
	},
}

var setTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store the Appknox access token in the CLI's config file",
	Long: `Writes the access token to ~/.config/appknox.json, the fallback
credential source used when APPKNOX_ACCESS_TOKEN is not set.`,
	Run: func(cmd *cobra.Command, args []string) {
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			fmt.Println("Error: --token is required")
			return
		}

		path := appknox.TokenConfigPath()
		if path == "" {
			fmt.Println("Error: could not determine home directory")
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			fmt.Printf("Error creating config directory: %v\n", err)
			return
		}

		// Preserve whatever else the appknox CLI keeps in its file.
		existing := map[string]interface{}{}
		if data, err := os.ReadFile(path); err == nil {
			_ = json.Unmarshal(data, &existing)
		}
		existing["appknox_access_token"] = token

		data, err := json.MarshalIndent(existing, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding config: %v\n", err)
			return
		}
		// 0600 permissions for security (access token)
		if err := os.WriteFile(path, data, 0600); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			return
		}
		fmt.Printf("Access token saved to %s\n", path)
	},
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "", "Provider (gemini, openai, anthropic)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (gemini, openai, anthropic)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	setTokenCmd.Flags().StringP("token", "t", "", "Appknox access token")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(setTokenCmd)
	rootCmd.AddCommand(configCmd)
}
