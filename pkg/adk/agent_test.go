package adk

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/user/appknox-mcp/pkg/tools"
)

// scriptedProvider returns a queued sequence of responses, simulating a
// model that first requests a tool and then answers with text.
type scriptedProvider struct {
	queue []struct {
		text string
		call *ToolCall
	}
	lastHistory []Message
}

func (p *scriptedProvider) GenerateResponse(ctx context.Context, history []Message, catalog []tools.Tool) (string, *ToolCall, error) {
	p.lastHistory = history
	next := p.queue[0]
	p.queue = p.queue[1:]
	return next.text, next.call, nil
}

func (p *scriptedProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

type echoTool struct{ invoked bool }

func (t *echoTool) Name() string        { return "whoami" }
func (t *echoTool) Description() string { return "test tool" }
func (t *echoTool) Schema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}
func (t *echoTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	t.invoked = true
	return "user@example.com", nil
}

func TestAgentRunsRequestedTool(t *testing.T) {
	provider := &scriptedProvider{}
	provider.queue = append(provider.queue,
		struct {
			text string
			call *ToolCall
		}{"", &ToolCall{ToolName: "whoami", Args: map[string]interface{}{}}},
		struct {
			text string
			call *ToolCall
		}{"You are user@example.com", nil},
	)

	tool := &echoTool{}
	agent := NewAgent(provider, zerolog.Nop())
	agent.RegisterTool(tool)
	agent.SetSystemPrompt("be helpful")

	resp, err := agent.Chat(context.Background(), "who am I?")
	if err != nil {
		t.Fatal(err)
	}
	if resp != "You are user@example.com" {
		t.Fatalf("resp = %q", resp)
	}
	if !tool.invoked {
		t.Fatal("tool was not executed")
	}

	// The tool result must have been fed back to the model.
	found := false
	for _, msg := range provider.lastHistory {
		if msg.Role == "function" && strings.Contains(msg.Content, "user@example.com") {
			found = true
		}
	}
	if !found {
		t.Fatal("tool result missing from history")
	}
	if provider.lastHistory[0].Role != "system" {
		t.Fatal("system prompt not injected first")
	}
}

func TestAgentReportsUnknownTool(t *testing.T) {
	provider := &scriptedProvider{}
	provider.queue = append(provider.queue,
		struct {
			text string
			call *ToolCall
		}{"", &ToolCall{ToolName: "does_not_exist"}},
		struct {
			text string
			call *ToolCall
		}{"sorry", nil},
	)

	agent := NewAgent(provider, zerolog.Nop())
	if _, err := agent.Chat(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, msg := range provider.lastHistory {
		if msg.Role == "function" && strings.Contains(msg.Content, "not found") {
			found = true
		}
	}
	if !found {
		t.Fatal("missing-tool error not surfaced to the model")
	}
}
