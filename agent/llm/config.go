package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	openrouterx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/openrouter"
)

// Role selects which stage of the pipeline a chat model serves. The
// classifier and extractor run at temperature 0 so structured output stays
// reproducible.
type Role string

const (
	RoleClassifier Role = "classifier"
	RoleExtractor  Role = "extractor"
	RoleGenerator  Role = "generator"
	RoleRunner     Role = "runner"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ClassifierModel string `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	ExtractorModel  string `envconfig:"EXTRACTOR_MODEL" split_words:"true"`
	GeneratorModel  string `envconfig:"GENERATOR_MODEL" split_words:"true"`
	RunnerModel     string `envconfig:"RUNNER_MODEL" split_words:"true"`

	GeneratorTemperature float32 `envconfig:"GENERATOR_TEMPERATURE" split_words:"true" default:"-1"`
	RunnerTemperature    float32 `envconfig:"RUNNER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model configuration for a role.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleClassifier:
		if v := strings.TrimSpace(c.ClassifierModel); v != "" {
			modelName = v
		}
		temp = 0
	case RoleExtractor:
		if v := strings.TrimSpace(c.ExtractorModel); v != "" {
			modelName = v
		}
		temp = 0
	case RoleGenerator:
		if v := strings.TrimSpace(c.GeneratorModel); v != "" {
			modelName = v
		}
		if c.GeneratorTemperature >= 0 {
			temp = c.GeneratorTemperature
		}
	case RoleRunner:
		if v := strings.TrimSpace(c.RunnerModel); v != "" {
			modelName = v
		}
		if c.RunnerTemperature >= 0 {
			temp = c.RunnerTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
