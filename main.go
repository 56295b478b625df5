package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/classifier"
	contractx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/contract"
	"github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/dispatcher"
	"github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/extract"
	llmx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/llm"
	modex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/mode"
	promptx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/prompt"
	retrievalx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/retrieval"
	runnerx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/runner"
	storagex "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/storage"
	toolx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/agent/tool"
	configx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/config"
	embedderx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/embedder"
	_ "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/logger/autoload"
	nominatimx "github.com/tanpawarit/Roamly-Travel-Query-Dispatch/pkg/nominatim"
)

const defaultMode = contractx.ModeSuggestPlaces

func main() {
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	storeCfg := configx.MustNew[storagex.Config]("POSTGRES")
	store, err := storagex.NewStore(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open record store")
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping record store")
	}

	embedCfg := configx.MustNew[embedderx.Config]("EMBEDDING")
	embed, err := embedderx.New(*embedCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create embedder")
	}

	nomCfg := configx.MustNew[nominatimx.Config]("NOMINATIM")
	geocoder, err := nominatimx.NewClient(*nomCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create geocoder")
	}

	prompts := promptx.LoadSet()
	registry := modex.NewRegistry(prompts)

	classifierCfg := llmCfg.OpenRouterFor(llmx.RoleClassifier)
	classifierModel, err := classifierCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create classifier model")
	}
	cls, err := classifier.New(ctx, classifierModel, prompts.Classifier, registry, defaultMode)
	if err != nil {
		log.Fatal().Err(err).Msg("create classifier")
	}

	extractorCfg := llmCfg.OpenRouterFor(llmx.RoleExtractor)
	extractorModel, err := extractorCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create extractor model")
	}
	ext, err := extract.New(ctx, extractorModel, prompts.Extractor)
	if err != nil {
		log.Fatal().Err(err).Msg("create extractor")
	}

	generatorCfg := llmCfg.OpenRouterFor(llmx.RoleGenerator)
	generatorModel, err := generatorCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create generator model")
	}

	deps := toolx.Deps{
		Extractor:        ext,
		Retriever:        retrievalx.NewEngine(store, embed, geocoder),
		Comparator:       retrievalx.NewComparator(store),
		Generator:        llmx.NewGenerator(generatorModel),
		GenerationPrompt: prompts.Generation,
	}

	disp, err := dispatcher.New(cls, registry, deps, defaultMode, dispatcher.WithMemoization())
	if err != nil {
		log.Fatal().Err(err).Msg("create dispatcher")
	}

	runnerCfg := llmCfg.OpenRouterFor(llmx.RoleRunner)
	runnerModel, err := runnerCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create runner model")
	}
	run := runnerx.New(runnerModel)

	repl(ctx, disp, run, registry)
}

func repl(ctx context.Context, disp *dispatcher.Dispatcher, run *runnerx.Runner, registry *modex.Registry) {
	fmt.Println("Travel query REPL. /modes lists modes, /mode <tag> <query> forces one, /quit exits.")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var explicit string
		switch {
		case line == "/quit" || line == "/exit":
			return
		case line == "/modes":
			for _, info := range registry.List() {
				fmt.Printf("  %-20s %s (tools=%d, max_steps=%d)\n", info.Tag, info.Description, info.ToolCount, info.MaxSteps)
			}
			continue
		case strings.HasPrefix(line, "/mode "):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "/mode "))
			parts := strings.SplitN(rest, " ", 2)
			if len(parts) < 2 {
				fmt.Println("usage: /mode <tag> <query>")
				continue
			}
			explicit, line = parts[0], strings.TrimSpace(parts[1])
		}

		ec, result, err := disp.Dispatch(ctx, line, explicit)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if result.LowConfidence {
			fmt.Printf("[mode=%s, low confidence]\n", ec.Mode)
		} else {
			fmt.Printf("[mode=%s]\n", ec.Mode)
		}

		answer, err := run.Run(ctx, ec, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
}
