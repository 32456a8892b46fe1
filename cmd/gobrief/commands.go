package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobrief/internal/app"
	"github.com/hyperifyio/gobrief/internal/schema"
	"github.com/hyperifyio/gobrief/internal/server"
)

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "gobrief",
		Short:         "Turn free-form marketing briefings into structured briefs",
		Long:          "gobrief extracts brand, audience, storyline, SEO, legal and platform fields from a free-form briefing, classifies its language and angle, and drafts platform content from the result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	o.bindPersistent(root)
	root.AddCommand(
		newParseCmd(o),
		newDraftCmd(o),
		newValidateCmd(),
		newServeCmd(o),
		newVersionCmd(),
	)
	return root
}

func newParseCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse briefing files into structured briefs",
		Long:  "Parse one or more briefings (text, Markdown or HTML files, http(s) URLs, or '-' for stdin) and write one structured brief per input to stdout or to --out.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.buildConfig(cmd)
			if err != nil {
				return err
			}
			// Parsing never drafts, so skip the model preflight.
			cfg.DryRun = true
			return runParse(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write one file per brief plus manifest.json into this directory")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", app.DefaultConcurrency, "Number of inputs parsed in parallel")
	cmd.Flags().BoolVar(&o.explain, "explain", false, "Include the extraction trace with each brief")
	return cmd
}

// runParse writes every brief that parsed and then reports the inputs that
// did not.
func runParse(ctx context.Context, cfg app.Config, inputs []string, stdin io.Reader, stdout io.Writer) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	results, err := a.ParseFiles(ctx, inputs, stdin)
	if err != nil {
		return err
	}
	if err := a.WriteResults(stdout, results); err != nil {
		return err
	}
	var failed []error
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", len(failed), len(results), errors.Join(failed...))
	}
	return nil
}

func newDraftCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft <file>",
		Short: "Parse a briefing and draft content for its platforms",
		Long:  "Parse a briefing and draft an article plus one variant per target platform. The model is used when --llm.model is set; --dry-run forces the template drafter.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.buildConfig(cmd)
			if err != nil {
				return err
			}
			return runDraft(cmd.Context(), cfg, args[0], o.asData, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&o.asData, "data", false, "Emit brief, draft and issues as JSON or YAML (see --format) instead of Markdown")
	return cmd
}

func runDraft(ctx context.Context, cfg app.Config, input string, asData bool, stdin io.Reader, stdout io.Writer) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	results, err := a.ParseFiles(ctx, []string{input}, stdin)
	if err != nil {
		return err
	}
	if results[0].Err != nil {
		return results[0].Err
	}
	res, err := a.Draft(ctx, results[0].Brief)
	if err != nil {
		return err
	}
	if asData {
		return app.Encode(stdout, res, cfg.Format)
	}
	_, err = io.WriteString(stdout, a.RenderMarkdown(res))
	return err
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <brief.json>",
		Short: "Validate a serialized brief against the JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schema.ValidateBriefFile(args[0]); err != nil {
				var verr *schema.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprint(cmd.ErrOrStderr(), verr.Error())
					return fmt.Errorf("%s: validation failed", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return nil
		},
	}
}

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the brief API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.buildConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			defer a.Close()
			return server.New(a).Start(ctx)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", app.DefaultAddr, "Listen address")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.CurrentBuild().String())
		},
	}
}
