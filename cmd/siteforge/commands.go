package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"siteforge/internal/ai"
	"siteforge/internal/factory"
	"siteforge/internal/images"
	"siteforge/internal/schema"
	"siteforge/internal/site"
	"siteforge/internal/store"
	"siteforge/internal/utils"
)

var facts schema.Facts

var (
	noBuild   bool
	writeBack bool

	normalizeClientID string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the plan and content passes and save clients/<slug>/business.base.json",
	Example: `  siteforge generate --site-for "Mobile dog grooming" --name "Pawsh Wash" \
    --email hi@pawsh.example --city Austin --goal Book`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var mergeCmd = &cobra.Command{
	Use:   "merge <slug>",
	Short: "Merge business.updates.json over business.base.json into business.json",
	Args:  cobra.ExactArgs(1),
	RunE:  runMerge,
}

var imagesCmd = &cobra.Command{
	Use:   "images <slug>",
	Short: "Fetch hero and gallery photos for the merged document from Unsplash",
	Args:  cobra.ExactArgs(1),
	RunE:  runImages,
}

var stageCmd = &cobra.Command{
	Use:   "stage <slug>",
	Short: "Copy the merged document and images into the site and run the build",
	Args:  cobra.ExactArgs(1),
	RunE:  runStage,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file|->",
	Short: "Upgrade and re-normalize a business document, printing the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&facts.SiteFor, "site-for", "", "What the business does (required)")
	f.StringVar(&facts.BusinessName, "name", "", "Business name")
	f.StringVar(&facts.Email, "email", "", "Contact email")
	f.StringVar(&facts.Phone, "phone", "", "Contact phone")
	f.StringVar(&facts.MainCity, "city", "", "Main city served")
	f.StringVar(&facts.Goal, "goal", schema.GoalContact, "Primary goal: Contact, Call, Quote or Book")
	f.StringVar(&facts.ToneHint, "tone", "", "Tone hint for the copy")
	f.StringVar(&facts.ClientID, "client-id", "", "Identifier used as the slug when no name is known")
	f.BoolVar(&facts.AllowTestimonials, "allow-testimonials", false, "Allow a testimonials section")
	f.BoolVar(&facts.AllowInvestment, "allow-investment", false, "Allow a pricing section")
	f.BoolVar(&facts.AllowComparison, "allow-comparison", false, "Allow a comparison section")
	f.BoolVar(&facts.AllowEvents, "allow-events", false, "Allow an events section")
	_ = generateCmd.MarkFlagRequired("site-for")

	stageCmd.Flags().BoolVar(&noBuild, "no-build", false, "Stage files without running BUILD_COMMAND")
	normalizeCmd.Flags().StringVar(&normalizeClientID, "client-id", "", "Identifier used as the slug when the document has none")
	normalizeCmd.Flags().BoolVarP(&writeBack, "write", "w", false, "Rewrite the file in place instead of printing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireLLM(); err != nil {
		return err
	}
	gen := ai.NewGenerator(cfg.OpenAIKey, cfg.OpenAIModel, logger)
	result, err := factory.New(gen, cfg.PlanTemperature, cfg.ContentTemperature, logger).Generate(cmd.Context(), facts)
	if err != nil {
		return err
	}

	st := clientStore()
	if err := st.SaveBase(result.Slug, result.Document); err != nil {
		return err
	}
	doc, err := st.Merge(result.Slug)
	if err != nil {
		return err
	}
	path, _ := st.MergedPath(result.Slug)
	logger.Info("Generated client document", zap.String("run_id", result.RunID), zap.String("slug", doc.Brand.Slug))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path)
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	st := clientStore()
	doc, err := st.Merge(args[0])
	if err != nil {
		return err
	}
	path, _ := st.MergedPath(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %s (brand.slug=%s)\n", path, doc.Brand.Slug)
	return nil
}

func runImages(cmd *cobra.Command, args []string) error {
	slug := args[0]
	st := clientStore()
	doc, err := st.LoadMerged(slug)
	if err != nil {
		return fmt.Errorf("%w (run merge first)", err)
	}
	dir, err := st.ImagesDir(slug)
	if err != nil {
		return err
	}

	fetcher := images.NewFetcher(utils.NewHTTPClient(logger, 3, 30*time.Second), cfg.UnsplashAPIURL, cfg.UnsplashAccessKey, osFs, logger)
	report, err := fetcher.Fetch(cmd.Context(), images.Jobs(doc, slug), dir)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d, skipped %d image(s) in %s\n", len(report.Saved), len(report.Skipped), dir)
	return nil
}

func runStage(cmd *cobra.Command, args []string) error {
	build := cfg.BuildCommand
	if noBuild {
		build = ""
	}
	report, err := site.NewStager(clientStore(), cfg.SiteDir, build, logger).Stage(cmd.Context(), args[0])
	if report != nil && report.BuildOutput != "" {
		fmt.Fprint(cmd.OutOrStdout(), report.BuildOutput)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Staged %s and %d image(s)\n", report.DataPath, report.ImageCount)
	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	path := args[0]
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = afero.ReadFile(osFs, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return fmt.Errorf("parse %s: expected a JSON object", path)
	}
	upgraded, shape := schema.Upgrade(raw)
	doc := schema.NormalizeStored(upgraded, schema.Facts{ClientID: normalizeClientID})
	logger.Debug("Normalized document", zap.String("shape", shape.String()), zap.String("slug", doc.Brand.Slug))

	out, err := store.Encode(doc)
	if err != nil {
		return err
	}
	if writeBack && path != "-" {
		if err := afero.WriteFile(osFs, path, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Rewrote %s (%s)\n", path, shape)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
