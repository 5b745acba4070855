package main

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/veille-marches/tender-cli/internal/catalog"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect and edit the extraction pattern catalog",
}

var patternsListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List catalog patterns, optionally for one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := loadCatalog()
		snapshot := cat.Snapshot()

		categories := make([]string, 0, len(snapshot))
		for c := range snapshot {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		for _, c := range categories {
			if len(args) == 1 && args[0] != c {
				continue
			}
			subs := make([]string, 0, len(snapshot[c]))
			for s := range snapshot[c] {
				subs = append(subs, s)
			}
			sort.Strings(subs)

			for _, s := range subs {
				fmt.Printf("%s/%s (%d)\n", c, s, len(snapshot[c][s]))
				for _, p := range snapshot[c][s] {
					fmt.Printf("  %s\n", p)
				}
			}
		}
		return nil
	},
}

var patternsAddCmd = &cobra.Command{
	Use:   "add <category> <subcategory> <pattern>",
	Short: "Add a pattern to the catalog and save it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Patterns.File == "" {
			return eris.New("patterns.file must be configured to persist catalog edits")
		}
		cat := loadCatalog()
		cat.Add(args[0], args[1], args[2])
		return cat.SaveFile(cfg.Patterns.File)
	},
}

var patternsRemoveCmd = &cobra.Command{
	Use:   "remove <category> <subcategory> <pattern>",
	Short: "Remove a pattern from the catalog and save it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Patterns.File == "" {
			return eris.New("patterns.file must be configured to persist catalog edits")
		}
		cat := loadCatalog()
		if !cat.Remove(args[0], args[1], args[2]) {
			return eris.Errorf("pattern not found in %s/%s", args[0], args[1])
		}
		return cat.SaveFile(cfg.Patterns.File)
	},
}

var patternsSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the effective catalog to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadCatalog().SaveFile(args[0])
	},
}

// loadCatalog builds the effective catalog: defaults plus the configured
// override file when present. Load failures fall back to defaults.
func loadCatalog() *catalog.Catalog {
	cat := catalog.New()
	if cfg.Patterns.File != "" {
		_ = cat.LoadFile(cfg.Patterns.File)
	}
	return cat
}

func init() {
	patternsCmd.AddCommand(patternsListCmd, patternsAddCmd, patternsRemoveCmd, patternsSaveCmd)
	rootCmd.AddCommand(patternsCmd)
}
