package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zen-systems/tripgate/pkg/archive"
	"github.com/zen-systems/tripgate/pkg/extract"
	"github.com/zen-systems/tripgate/pkg/itinerary"
	"github.com/zen-systems/tripgate/pkg/planner"
	"github.com/zen-systems/tripgate/pkg/prompt"
)

func extractCmd() *cobra.Command {
	var strategyFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "extract [request]",
		Short: "Extract trip details from a travel request",
		Long: `Extracts locations, dates, travelers and preferences from the request.
	The request is read from the arguments, or from stdin when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := newExtractor(cfg, strategyFlag)
			if err != nil {
				return err
			}
			d := e.Extract(text)
			if jsonFlag {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			return writeDetails(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "extraction strategy (cascade, keyword)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the details as JSON")

	return cmd
}

func promptCmd() *cobra.Command {
	var strategyFlag string
	var plainFlag bool

	cmd := &cobra.Command{
		Use:   "prompt [request]",
		Short: "Compile a travel request into an itinerary directive",
		Long: `Extracts the trip details and prints the directive sent to the generation
	service. Details that fail validation print a correction message instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := newExtractor(cfg, strategyFlag)
			if err != nil {
				return err
			}
			directive, err := prompt.Compile(e.Extract(text), time.Now())
			if err != nil {
				return reportValidation(cmd.OutOrStdout(), err)
			}
			if !plainFlag {
				directive = prompt.WithStructuredOutput(directive)
			}
			fmt.Fprintln(cmd.OutOrStdout(), directive)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "extraction strategy (cascade, keyword)")
	cmd.Flags().BoolVar(&plainFlag, "plain", false, "omit the structured JSON request")

	return cmd
}

func planCmd() *cobra.Command {
	var sel selection
	var jsonFlag bool
	var outFlag string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "plan [request]",
		Short: "Plan an itinerary for a travel request",
		Long: `Extracts the trip details, sends the directive to the generation service
	and re-parses the reply into a structured itinerary.

	Use --out to export the reply and the plan as itinerary_<destination>_<time>
	text and JSON files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := newPlanner(cfg, sel)
			if err != nil {
				return err
			}
			if timeout <= 0 {
				timeout = cfg.RequestTimeout
			}

			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			fmt.Fprintf(os.Stderr, "Planning with %s/%s\n", p.Adapter(), p.Model())
			plan, err := p.Plan(ctx, text)
			if err != nil {
				return err
			}
			if plan.Validation != nil {
				return reportValidation(cmd.OutOrStdout(), plan.Validation)
			}

			if outFlag != "" {
				if err := exportPlan(outFlag, plan); err != nil {
					return err
				}
			}
			if jsonFlag {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.Reply.Content)
			fmt.Fprintf(os.Stderr, "Parsed %d days (%s)\n", len(plan.Itinerary.Days), itinerarySource(plan.Itinerary))
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.provider, "provider", "", "generation provider (google, anthropic, openai, deepseek, mock)")
	cmd.Flags().StringVar(&sel.model, "model", "", "model or alias")
	cmd.Flags().StringVar(&sel.strategy, "strategy", "", "extraction strategy (cascade, keyword)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the plan as JSON")
	cmd.Flags().StringVar(&outFlag, "out", "", "export directory for the reply and plan")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "generation timeout (default from config)")

	return cmd
}

func parseCmd() *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "parse [reply]",
		Short: "Re-parse a generation reply into a structured itinerary",
		Long: `Reads a reply from --file, the arguments or stdin and prints the
	structured itinerary as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if fileFlag != "" {
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return err
				}
				text = string(data)
			} else {
				var err error
				if text, err = readInput(args, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), itinerary.Parse(text))
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "reply file path")

	return cmd
}

func exportPlan(dir string, plan *planner.Plan) error {
	store, err := archive.NewStore(dir)
	if err != nil {
		return fmt.Errorf("failed to open export directory: %w", err)
	}
	out, err := store.SavePlan(plan.Details.Destination, plan.Reply.Content, plan, plan.Reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to export plan: %w", err)
	}
	hash, err := store.StoreObject(plan.Reply)
	if err != nil {
		return fmt.Errorf("failed to store reply: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Exported %s and %s (reply %s)\n", out.TextPath, out.JSONPath, hash[:12])
	return nil
}

func reportValidation(w io.Writer, err error) error {
	var v *prompt.ValidationError
	if !errors.As(err, &v) {
		return err
	}
	fmt.Fprintln(w, v.Error())
	return errNeedsCorrection
}

func itinerarySource(it *itinerary.Itinerary) string {
	if it.Failed() {
		return "failed"
	}
	return it.Source
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDetails(w io.Writer, d *extract.Details) error {
	m := d.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%s\n", k, formatValue(m[k]))
	}
	return tw.Flush()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case []string:
		return strings.Join(v, ", ")
	case map[string]int:
		return fmt.Sprintf("%d adults, %d children, %d infants", v["Adults"], v["Children"], v["Infants"])
	default:
		return fmt.Sprint(v)
	}
}
