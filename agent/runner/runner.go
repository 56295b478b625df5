// Package runner executes one query inside a mode's execution context with a
// hard step budget. Each step is one model call; tool results are fed back
// until the model answers in plain text or the budget runs out.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
)

const fallbackMaxSteps = 6

type Runner struct {
	model einomodel.ToolCallingChatModel
}

func New(model einomodel.ToolCallingChatModel) *Runner {
	return &Runner{model: model}
}

// Run drives the tool-calling loop for one query. Tools are bound per call
// because each mode carries a different set.
func (r *Runner) Run(ctx context.Context, ec contractx.ExecutionContext, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is empty", contractx.ErrInvalidInput)
	}

	toolModel := einomodel.BaseChatModel(r.model)
	if len(ec.Tools) > 0 {
		bound, err := r.model.WithTools(ec.Tools)
		if err != nil {
			return "", fmt.Errorf("%w: bind tools for mode=%s: %v", contractx.ErrModelInvoke, ec.Mode, err)
		}
		toolModel = bound
	}

	maxSteps := ec.MaxSteps
	if maxSteps < 1 {
		maxSteps = fallbackMaxSteps
	}

	messages := []*schema.Message{
		schema.SystemMessage(ec.Instructions),
		schema.UserMessage(query),
	}

	for step := 1; step <= maxSteps; step++ {
		msg, err := toolModel.Generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("%w: step %d for mode=%s: %v", contractx.ErrModelInvoke, step, ec.Mode, err)
		}
		if msg == nil {
			return "", fmt.Errorf("%w: nil model response at step %d", contractx.ErrSchemaViolation, step)
		}

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return "", fmt.Errorf("%w: empty final answer at step %d", contractx.ErrSchemaViolation, step)
			}
			return content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := r.executeCall(ctx, ec, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, schema.ToolMessage(result, call.ID))
		}
	}

	log.Warn().Str("mode", string(ec.Mode)).Int("max_steps", maxSteps).Msg("step budget exhausted without a final answer")
	return "", fmt.Errorf("%w: mode=%s budget=%d", contractx.ErrStepBudgetExhausted, ec.Mode, maxSteps)
}

func (r *Runner) executeCall(ctx context.Context, ec contractx.ExecutionContext, call schema.ToolCall) (string, error) {
	tool := strings.TrimSpace(call.Function.Name)
	if tool == "" {
		return "", fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "", fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
		}
	}

	result, err := ec.Executor(ctx, tool, args)
	if err != nil {
		return "", fmt.Errorf("execute tool=%s: %w", tool, err)
	}

	buf, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("%w: marshal result for tool=%s: %v", contractx.ErrValidation, tool, err)
	}
	return string(buf), nil
}
