package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/tripgate/pkg/adapter"
	"github.com/zen-systems/tripgate/pkg/config"
)

func modelsCmd() *cobra.Command {
	var resolveFlag bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List generation providers and their models",
		Long: `Lists each provider, whether its API key is configured and its models.
	Use --resolve to show the model aliases and what they resolve to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			aliases, err := config.LoadAliasesFromDir(cfg.ConfigDir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if resolveFlag {
				fmt.Fprintln(w, "ALIAS\tMODEL\tPROVIDER")
				for _, name := range aliases.AliasNames() {
					model := aliases.Resolve(name)
					fmt.Fprintf(w, "%s\t%s\t%s\n", name, model, formatProvider(aliases.ProviderFor(name)))
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "PROVIDER\tCONFIGURED\tMODELS")
			for _, name := range adapter.Providers() {
				models := aliases.Providers[name]
				if len(models) == 0 {
					models = []string{"-"}
				}
				configured := "no"
				if cfg.HasAdapter(name) {
					configured = "yes"
				}
				marker := ""
				if name == adapter.DefaultProvider {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\n", name, marker, configured, strings.Join(models, ", "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&resolveFlag, "resolve", false, "show aliases and what they resolve to")

	return cmd
}

func formatProvider(p string) string {
	if p == "" {
		return "(unlisted)"
	}
	return p
}
