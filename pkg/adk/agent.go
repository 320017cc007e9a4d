package adk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/user/appknox-mcp/pkg/tools"
)

// ToolCall represents a request from the LLM to execute a tool
type ToolCall struct {
	ToolName string
	Args     map[string]interface{}
}

// Message represents a chat message
type Message struct {
	Role    string // "user", "model", "system", "function"
	Content string
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	GenerateResponse(ctx context.Context, history []Message, catalog []tools.Tool) (string, *ToolCall, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Agent drives a chat session that can call Appknox tools.
type Agent struct {
	llm          LLMProvider
	tools        map[string]tools.Tool
	history      []Message
	systemPrompt string
	log          zerolog.Logger
}

// NewAgent creates a new agent with the given LLM provider
func NewAgent(llm LLMProvider, log zerolog.Logger) *Agent {
	return &Agent{
		llm:   llm,
		tools: make(map[string]tools.Tool),
		log:   log,
	}
}

// RegisterTool adds a tool to the agent's registry
func (a *Agent) RegisterTool(t tools.Tool) {
	a.tools[t.Name()] = t
}

// SetSystemPrompt sets the instruction text injected before the first
// user message.
func (a *Agent) SetSystemPrompt(prompt string) {
	a.systemPrompt = prompt
}

// Chat sends a message to the agent and returns the response
func (a *Agent) Chat(ctx context.Context, input string) (string, error) {
	if len(a.history) == 0 && a.systemPrompt != "" {
		a.history = append(a.history, Message{Role: "system", Content: a.systemPrompt})
	}
	a.history = append(a.history, Message{Role: "user", Content: input})

	// Generate response (loop for tool calls)
	for {
		catalog := make([]tools.Tool, 0, len(a.tools))
		for _, t := range a.tools {
			catalog = append(catalog, t)
		}

		respText, toolCall, err := a.llm.GenerateResponse(ctx, a.history, catalog)
		if err != nil {
			return "", err
		}

		// If the model just replied with text, we are done
		if toolCall == nil {
			a.history = append(a.history, Message{Role: "model", Content: respText})
			return respText, nil
		}

		a.log.Debug().
			Str("tool", toolCall.ToolName).
			Interface("args", toolCall.Args).
			Msg("executing tool requested by model")

		// Record the model's intent to call the tool
		a.history = append(a.history, Message{
			Role:    "model",
			Content: fmt.Sprintf("I will call tool %s with args %v", toolCall.ToolName, toolCall.Args),
		})

		tool, exists := a.tools[toolCall.ToolName]
		if !exists {
			errMsg := fmt.Sprintf("Tool %s not found", toolCall.ToolName)
			a.history = append(a.history, Message{Role: "function", Content: fmt.Sprintf("Error: %s", errMsg)})
			continue
		}

		result, err := tool.Execute(ctx, toolCall.Args)
		if err != nil {
			result = fmt.Sprintf("Error executing tool: %v", err)
		}

		// Add tool result to history so the model sees it on the next turn
		a.history = append(a.history, Message{
			Role:    "function",
			Content: fmt.Sprintf("Tool %s returned: %s", toolCall.ToolName, result),
		})
	}
}
