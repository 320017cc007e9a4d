package adk

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/user/appknox-mcp/pkg/tools"
)

type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey string, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-pro"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	iter := g.client.ListModels(ctx)
	var names []string
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		// Only list models that support content generation (rough filter)
		if strings.Contains(m.Name, "gemini") {
			// m.Name is like "models/gemini-pro", we usually want just "gemini-pro"
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	return names, nil
}

func (g *GeminiProvider) GenerateResponse(ctx context.Context, history []Message, catalog []tools.Tool) (string, *ToolCall, error) {
	// Configure tools for the session
	var toolDefs []*genai.FunctionDeclaration
	for _, t := range catalog {
		toolDefs = append(toolDefs, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  toGenaiSchema(t.Schema()),
		})
	}

	if len(toolDefs) > 0 {
		g.model.Tools = []*genai.Tool{
			{
				FunctionDeclarations: toolDefs,
			},
		}
	}

	var cs []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == "model" {
			role = "model"
		}
		// system and function messages become user turns so the model
		// sees them

		cs = append(cs, &genai.Content{
			Parts: []genai.Part{
				genai.Text(msg.Content),
			},
			Role: role,
		})
	}

	session := g.model.StartChat()

	if len(cs) > 0 {
		session.History = cs[:len(cs)-1]
		lastMsg := cs[len(cs)-1]

		resp, err := session.SendMessage(ctx, lastMsg.Parts...)
		if err != nil {
			return "", nil, err
		}

		if len(resp.Candidates) == 0 {
			return "", nil, fmt.Errorf("no response candidates")
		}

		cand := resp.Candidates[0]

		var responseText string
		var toolCall *ToolCall

		for _, part := range cand.Content.Parts {
			if funcCall, ok := part.(genai.FunctionCall); ok {
				toolCall = &ToolCall{
					ToolName: funcCall.Name,
					Args:     funcCall.Args,
				}
			}
			if text, ok := part.(genai.Text); ok {
				responseText += string(text)
			}
		}

		if toolCall != nil {
			return responseText, toolCall, nil
		}
		if responseText != "" {
			return responseText, nil, nil
		}
	}

	return "", nil, fmt.Errorf("empty history or no response")
}

// toGenaiSchema converts a tool's JSON-schema map into the genai schema
// type. Only the subset the catalog uses (flat objects of strings and
// numbers) is handled.
func toGenaiSchema(schema map[string]interface{}) *genai.Schema {
	out := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}

	props, _ := schema["properties"].(map[string]interface{})
	for name, raw := range props {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		field := &genai.Schema{Type: genai.TypeString}
		if typ, _ := prop["type"].(string); typ == "number" {
			field.Type = genai.TypeNumber
		}
		if desc, _ := prop["description"].(string); desc != "" {
			field.Description = desc
		}
		out.Properties[name] = field
	}
	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	}
	return out
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}
