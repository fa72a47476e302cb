// Package factory runs the two model passes that turn intake facts into a
// business document.
package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"siteforge/internal/ai/prompts"
	"siteforge/internal/schema"
)

// Completer is the model collaborator: it answers a prompt with a JSON
// object.
type Completer interface {
	CompleteJSON(ctx context.Context, prompt string, temperature float32) (map[string]any, error)
}

type Factory struct {
	llm                Completer
	planTemperature    float32
	contentTemperature float32
	logger             *zap.Logger
}

func New(llm Completer, planTemperature, contentTemperature float32, logger *zap.Logger) *Factory {
	return &Factory{
		llm:                llm,
		planTemperature:    planTemperature,
		contentTemperature: contentTemperature,
		logger:             logger.Named("factory"),
	}
}

// Result is one generation run.
type Result struct {
	RunID    string           `json:"run_id"`
	Slug     string           `json:"slug"`
	Plan     *schema.Plan     `json:"plan"`
	Document *schema.Document `json:"business_json"`
}

// Generate runs the plan pass, normalizes the plan, runs the content pass
// against it and normalizes the draft. Any model failure aborts the run; no
// partial document is returned.
func (f *Factory) Generate(ctx context.Context, facts schema.Facts) (*Result, error) {
	runID := uuid.New().String()
	log := f.logger.With(zap.String("run_id", runID))
	start := time.Now()
	log.Info("Generating site", zap.String("site_for", facts.SiteFor), zap.String("business_name", facts.BusinessName))

	rawPlan, err := f.llm.CompleteJSON(ctx, prompts.PlanPrompt(facts), f.planTemperature)
	if err != nil {
		return nil, fmt.Errorf("plan pass: %w", err)
	}
	plan := schema.NormalizePlan(rawPlan, facts)
	planMap, err := plan.Map()
	if err != nil {
		return nil, fmt.Errorf("plan pass: %w", err)
	}
	if err := schema.Must(planMap, schema.PlanKeys...); err != nil {
		return nil, fmt.Errorf("plan pass: %w", err)
	}
	log.Debug("Plan normalized", zap.String("vibe", plan.Settings.Vibe), zap.Any("strategy", plan.Strategy))

	contentPrompt, err := prompts.ContentPrompt(facts, planMap)
	if err != nil {
		return nil, fmt.Errorf("content pass: %w", err)
	}
	draft, err := f.llm.CompleteJSON(ctx, contentPrompt, f.contentTemperature)
	if err != nil {
		return nil, fmt.Errorf("content pass: %w", err)
	}

	// The draft is layered over the plan; the plan's section choices stand.
	merged := schema.Merge(planMap, draft)
	merged["strategy"] = planMap["strategy"]
	upgraded, shape := schema.Upgrade(merged)
	if shape == schema.ShapeLegacy {
		log.Debug("Draft used legacy field names, migrated")
	}

	doc := schema.NormalizeDocument(upgraded, facts)
	docMap, err := doc.Map()
	if err != nil {
		return nil, fmt.Errorf("content pass: %w", err)
	}
	if err := schema.Must(docMap, schema.DocumentKeys...); err != nil {
		return nil, fmt.Errorf("content pass: %w", err)
	}

	log.Info("Site generated", zap.String("slug", doc.Brand.Slug), zap.Duration("took", time.Since(start)))
	return &Result{RunID: runID, Slug: doc.Brand.Slug, Plan: plan, Document: doc}, nil
}
