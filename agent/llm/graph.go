package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// CompileStructuredGraph builds a prompt -> model -> JSON-parse pipeline
// producing a typed value. The classifier and the extractor both run on it;
// input reaches the model through the {input} template slot.
func CompileStructuredGraph[T any](
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(escapeBraces(systemPrompt)),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("render", template); err != nil {
		return nil, fmt.Errorf("%s: add template node: %w", graphName, err)
	}
	if err := graph.AddChatModelNode("invoke", chatModel); err != nil {
		return nil, fmt.Errorf("%s: add model node: %w", graphName, err)
	}
	if err := graph.AddLambdaNode("decode", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("%s: add parser node: %w", graphName, err)
	}

	edges := [][2]string{
		{compose.START, "render"},
		{"render", "invoke"},
		{"invoke", "decode"},
		{"decode", compose.END},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("%s: add edge %s->%s: %w", graphName, e[0], e[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("%s: compile: %w", graphName, err)
	}
	return runner, nil
}

// escapeBraces doubles literal braces so JSON examples inside system prompts
// survive FString formatting.
func escapeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}
