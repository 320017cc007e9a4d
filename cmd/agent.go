package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/appknox-mcp/pkg/adk"
	"github.com/user/appknox-mcp/pkg/appknox"
	"github.com/user/appknox-mcp/pkg/config"
	"github.com/user/appknox-mcp/pkg/logging"
	"github.com/user/appknox-mcp/pkg/tools"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Start an interactive AI agent session with Appknox tools",
	Run: func(cmd *cobra.Command, args []string) {
		log := logging.New(DebugMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		providerName := cfg.SelectedProvider
		if providerName == "" {
			providerName = "gemini" // Default
		}

		apiKey := cfg.GetAPIKey(providerName)
		if apiKey == "" {
			// Fallback to env var for Gemini if not in config
			if providerName == "gemini" {
				apiKey = os.Getenv("GOOGLE_API_KEY")
			}
		}

		if apiKey == "" {
			fmt.Println("Error: API Key not found.")
			fmt.Println("Please run 'appknox-mcp config setup' to configure your keys.")
			return
		}

		ctx := context.Background()
		modelName := cfg.SelectedModel
		fmt.Printf("Connecting to %s (Model: %s)...\n", providerName, modelName)

		provider, err := adk.NewProvider(ctx, providerName, apiKey, modelName)
		if err != nil {
			fmt.Printf("Error creating AI provider: %v\n", err)
			return
		}
		if closer, ok := provider.(interface{ Close() }); ok {
			defer closer.Close()
		}

		agent := adk.NewAgent(provider, log)

		executor := appknox.NewExecutor(cfg.CLIPath, log)
		opts := appknox.DefaultOptions()
		if cfg.DefaultTimeoutMs > 0 {
			opts.TimeoutMs = cfg.DefaultTimeoutMs
		}
		for _, t := range tools.All(executor, log, opts) {
			agent.RegisterTool(t)
		}

		agent.SetSystemPrompt(adk.GetSystemPrompt())

		// Start chat loop
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("\n---------------------------------------------------------")
		fmt.Println("Appknox Agent Initialized. Ready for commands.")
		fmt.Println("Example: 'List my projects'")
		fmt.Println("Example: 'Does file 42 pass a high risk threshold?'")
		fmt.Println("Type 'quit' or 'exit' to stop.")
		fmt.Println("---------------------------------------------------------")

		for {
			fmt.Print("\n> ")
			if !scanner.Scan() {
				break
			}
			input := scanner.Text()
			if input == "quit" || input == "exit" {
				break
			}
			if input == "" {
				continue
			}

			resp, err := agent.Chat(ctx, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			} else {
				fmt.Printf("\n[Agent]: %s\n", resp)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)
}
