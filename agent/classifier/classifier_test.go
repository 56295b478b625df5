package classifier

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
	promptx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/prompt"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func newTestClassifier(t *testing.T, fake *fakeToolCallingModel) *Classifier {
	t.Helper()
	registry := modex.NewRegistry(promptx.LoadSet())
	c, err := New(context.Background(), fake, "classifier prompt", registry, contractx.ModeSuggestPlaces)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestClassifyResolvesModeAndDays(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"generation_mode":"itinerary","days":3}`},
		},
	}
	c := newTestClassifier(t, fake)

	result, err := c.Classify(context.Background(), "Plan a 3-day trip to Chiang Mai")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Mode != contractx.ModeItinerary {
		t.Fatalf("mode = %s, want itinerary", result.Mode)
	}
	if result.LowConfidence {
		t.Fatal("valid classification must not be low confidence")
	}
	if result.Days() != 3 {
		t.Fatalf("days = %d, want 3", result.Days())
	}
}

func TestClassifyNormalizesTagCase(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"generation_mode":"Find_Accommodation"}`},
		},
	}
	c := newTestClassifier(t, fake)

	result, err := c.Classify(context.Background(), "hotel near the old town")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Mode != contractx.ModeFindAccommodation {
		t.Fatalf("mode = %s, want find_accommodation", result.Mode)
	}
}

func TestClassifyUnknownTagDegradesToDefault(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `{"generation_mode":"road_trip"}`},
		},
	}
	c := newTestClassifier(t, fake)

	result, err := c.Classify(context.Background(), "take me somewhere")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Mode != contractx.ModeSuggestPlaces {
		t.Fatalf("mode = %s, want default suggest_places", result.Mode)
	}
	if !result.LowConfidence {
		t.Fatal("degraded classification must be low confidence")
	}
}

func TestClassifyUnparseableOutputDegradesToDefault(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: `sorry, I cannot help with that`},
		},
	}
	c := newTestClassifier(t, fake)

	result, err := c.Classify(context.Background(), "asdf qwerty")
	if err != nil {
		t.Fatalf("Classify() must not propagate parse failures, got %v", err)
	}
	if result.Mode != contractx.ModeSuggestPlaces || !result.LowConfidence {
		t.Fatalf("expected low-confidence default, got %+v", result)
	}
}

func TestClassifyModelFailureDegradesToDefault(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{err: errors.New("upstream timeout")}
	c := newTestClassifier(t, fake)

	result, err := c.Classify(context.Background(), "plan something")
	if err != nil {
		t.Fatalf("Classify() must not propagate model failures, got %v", err)
	}
	if result.Mode != contractx.ModeSuggestPlaces || !result.LowConfidence {
		t.Fatalf("expected low-confidence default, got %+v", result)
	}
}

func TestClassifyEmptyQueryFails(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeToolCallingModel{})
	_, err := c.Classify(context.Background(), "   ")
	if !errors.Is(err, contractx.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewRejectsUnregisteredFallback(t *testing.T) {
	t.Parallel()

	registry := modex.NewRegistry(promptx.LoadSet())
	_, err := New(context.Background(), &fakeToolCallingModel{}, "p", registry, contractx.Mode("bogus"))
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
