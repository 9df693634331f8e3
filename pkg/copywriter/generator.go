package copywriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/genai"
	"meridian-hq/crosswind/pkg/usage"
)

// ModelClient is the metered generative path the generator needs.
// *genai.MeteredClient satisfies it.
type ModelClient interface {
	Available() bool
	GenerateJSON(ctx context.Context, component usage.Component, prompt string, v any) (*genai.Result, error)
}

// Generator produces ad copy variations per platform. With a configured
// model client it asks for campaign-specific copy seeded with the ad
// library's top performers; otherwise, and on any model failure, it
// serves the built-in templates.
type Generator struct {
	client  ModelClient
	library adstore.Library
	logger  *slog.Logger
}

// New creates a copy generator. Both client and library may be nil:
// without a client every call takes the template path, without a
// library the model prompt carries no reference ads and suggestions
// come back empty.
func New(client ModelClient, library adstore.Library, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client:  client,
		library: library,
		logger:  logger.With("component", "copywriter"),
	}
}

// Variations generates a copy set for the platform and reports which
// path produced it.
func (g *Generator) Variations(ctx context.Context, platform string) (*Variations, string) {
	if g.client != nil && g.client.Available() {
		v, err := g.modelVariations(ctx, platform)
		if err == nil {
			return v, SourceModel
		}
		g.logger.Error("model copy generation failed, using templates", "platform", platform, "error", err)
	}

	return TemplateVariations(platform), SourceTemplate
}

func (g *Generator) modelVariations(ctx context.Context, platform string) (*Variations, error) {
	prompt := g.buildPrompt(ctx, platform)

	var payload Variations
	if _, err := g.client.GenerateJSON(ctx, usage.ComponentCopywriter, prompt, &payload); err != nil {
		return nil, err
	}

	if len(payload.Headlines) == 0 || len(payload.Descriptions) == 0 || len(payload.CTAs) == 0 {
		return nil, fmt.Errorf("model returned an incomplete copy set")
	}
	return &payload, nil
}

// Suggestions derives copy guidance from the library's top performers.
// Without a library the guidance is empty but present.
func (g *Generator) Suggestions(ctx context.Context) (*Suggestions, error) {
	if g.library == nil {
		return PerformanceSuggestions(nil), nil
	}

	top, err := g.library.TopPerformers(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load top performers: %w", err)
	}
	return PerformanceSuggestions(top), nil
}

// buildPrompt renders the JSON-constrained copy prompt, seeded with up
// to three of the platform's best ads when a library is configured.
func (g *Generator) buildPrompt(ctx context.Context, platform string) string {
	var references strings.Builder
	if g.library != nil {
		top, err := g.library.TopPerformers(ctx, platform, 3)
		if err != nil {
			g.logger.Warn("failed to load reference ads for prompt", "platform", platform, "error", err)
		}
		for i, ad := range top {
			fmt.Fprintf(&references, "%d. %q (CTA: %q, CTR %.2f%%, ROAS %.2f)\n", i+1, ad.Headline, ad.CTA, ad.CTR, ad.ROAS)
		}
	}

	refBlock := "No reference ads available yet."
	if references.Len() > 0 {
		refBlock = references.String()
	}

	return fmt.Sprintf(`Write ad copy variations for a B2B campaign on %s.

These ads are performing best on this platform today:
%s
Requirements:
1. Three headlines under 40 characters
2. Three descriptions under 90 characters
3. Three calls to action under 20 characters
4. %s

Return ONLY a valid JSON object with these exact keys (no markdown, no extra text):
{
"headlines": ["headline 1", "headline 2", "headline 3"],
"descriptions": ["description 1", "description 2", "description 3"],
"ctas": ["cta 1", "cta 2", "cta 3"]
}`, platform, refBlock, platformTone(platform))
}

func platformTone(platform string) string {
	switch platform {
	case "google_ads":
		return "Write terse search copy leading with the benefit"
	case "linkedin":
		return "Write professional copy for decision makers"
	default:
		return "Write conversational copy that earns the scroll-stop"
	}
}
