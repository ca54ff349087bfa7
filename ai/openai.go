package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"repominer/ratelimit"
)

const toolName = "emit_activity_report"

// SummarizeActivity asks the model for a structured narrative of the
// fetched repository activity. The model must answer with ONE call to
// the report function tool; anything else is an error.
func SummarizeActivity(ctx context.Context, apiKey string, limiter *ratelimit.Limiter, job ReportJob) (Report, error) {
	if limiter != nil {
		if err := limiter.WaitOpenAI(ctx); err != nil {
			return Report{}, err
		}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))

	sys := `You summarize git repository activity. Output ONE function call "emit_activity_report" with JSON matching the provided schema.
Write a one-sentence headline, a handful of highlight bullets grouping related commits, and the contributor list with commit counts.
Be concise and truthful; de-duplicate similar commits.`

	jobJSON, _ := json.Marshal(job)

	tool := openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        toolName,
		Description: openai.String("Return the final activity report in the exact structure the app expects."),
		Parameters: openai.FunctionParameters{
			"type": "object",
			"properties": map[string]any{
				"repo":     map[string]any{"type": "string"},
				"headline": map[string]any{"type": "string"},
				"highlights": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"contributors": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":    map[string]any{"type": "string"},
							"email":   map[string]any{"type": "string"},
							"commits": map[string]any{"type": "integer"},
						},
						"required": []string{"name", "commits"},
					},
				},
			},
			"required": []string{"repo", "headline", "highlights", "contributors"},
		},
	})

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Seed:  openai.Int(0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(sys),
			openai.UserMessage(fmt.Sprintf(`{"instruction":"Summarize this repository activity","payload":%s}`, string(jobJSON))),
		},
		Tools: []openai.ChatCompletionToolUnionParam{tool},
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Report{}, err
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return Report{}, fmt.Errorf("model did not return tool call")
	}

	var out Report
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		if tc.Function.Name == toolName {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &out); err != nil {
				return Report{}, fmt.Errorf("bad tool args: %w", err)
			}
			break
		}
	}
	if out.Repo == "" {
		return Report{}, fmt.Errorf("empty report payload")
	}
	return out, nil
}
