package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"rednote-trends/internal/ai"
	"rednote-trends/internal/config"
	"rednote-trends/internal/generator"
	"rednote-trends/internal/model"
	"rednote-trends/internal/normalize"
	"rednote-trends/internal/prompt"
	"rednote-trends/internal/trend"
)

// buildNormalizer loads the lexicon (with optional YAML override) and
// constructs the normalizer.
func buildNormalizer(cfg config.Config) (*normalize.Normalizer, error) {
	lex := normalize.DefaultLexicon()
	if cfg.Analysis.LexiconFile != "" {
		var err error
		lex, err = normalize.LoadLexicon(cfg.Analysis.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: %w", cfg.Analysis.LexiconFile, err)
		}
		slog.Info("lexicon override loaded", "file", cfg.Analysis.LexiconFile)
	}
	return normalize.New(lex), nil
}

func buildAnalyzer(cfg config.Config) (*trend.Analyzer, error) {
	norm, err := buildNormalizer(cfg)
	if err != nil {
		return nil, err
	}
	return trend.NewAnalyzer(norm, trend.Config{
		TopKeywords:      cfg.Analysis.TopKeywords,
		MinClusterSize:   cfg.Analysis.MinClusterSize,
		KeywordsPerTopic: cfg.Analysis.KeywordsPerTopic,
	}), nil
}

func buildPromptConfig(cfg config.Config) prompt.Config {
	return prompt.Config{
		MaxSeedKeywords: cfg.Analysis.KeywordsPerTopic,
		TargetLength: model.LengthRange{
			Min: cfg.Generation.MinChars,
			Max: cfg.Generation.MaxChars,
		},
	}
}

// buildGenerator returns nil when no completion backend is configured;
// the pipeline then stops after the trend report.
func buildGenerator(cfg config.Config) (*generator.Generator, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, nil
	}
	timeout, err := time.ParseDuration(cfg.Generation.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid generation.timeout: %w", err)
	}
	completer := ai.NewOpenAI(ai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	params := ai.Params{
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}
	return generator.New(completer, params, generator.Config{
		Timeout:     timeout,
		Retries:     cfg.Generation.Retries,
		Concurrency: cfg.Generation.Concurrency,
	}), nil
}
