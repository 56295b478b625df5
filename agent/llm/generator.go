package llm

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

// Generator is the plain text-generation capability consumed by mode tools.
// The system prompt varies per tool, so no graph is pre-compiled here.
type Generator struct {
	model einomodel.BaseChatModel
}

var _ contractx.TextGenerator = (*Generator)(nil)

func NewGenerator(model einomodel.BaseChatModel) *Generator {
	return &Generator{model: model}
}

func (g *Generator) Generate(ctx context.Context, system string, input string) (string, error) {
	msg, err := g.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(input),
	})
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: generator returned empty content", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}
