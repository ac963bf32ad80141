package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/coolbeans/lexcite/pkg/authorities"
	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/engine"
	"github.com/coolbeans/lexcite/pkg/style"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexcite",
		Short: "Legal citation engine",
		Long: `Lexcite extracts structured citations from legal text, resolves
short forms and "Id." references to their antecedents, validates each
citation against formal citation rules, and renders citations back into
styled text, including deduplicated tables of authorities.`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("style-dir", "", "directory of custom style YAML files")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(formatCmd())
	rootCmd.AddCommand(toaCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(stylesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine builds the engine, loading any custom style directory given via
// the persistent --style-dir flag.
func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	registry := style.NewDefaultRegistry()
	if dir, _ := cmd.Flags().GetString("style-dir"); dir != "" {
		if err := registry.LoadDirectory(dir); err != nil {
			return nil, fmt.Errorf("loading style directory: %w", err)
		}
	}
	return engine.NewWithStyles(registry)
}

// readInput returns the document text from the file argument, or stdin
// when no argument is given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Extract citations from a document",
		Long: `Extract structured citations from a document, resolving short
forms and "Id." references against their antecedents.

Example:
  lexcite parse brief.txt
  cat brief.txt | lexcite parse --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			citations := eng.Parse(text)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(citations)
			}

			fmt.Printf("Found %d citation(s)\n", len(citations))
			for _, cite := range citations {
				fmt.Printf("  [%d-%d] %-12s %s\n",
					cite.StartIndex, cite.EndIndex, cite.Type, cite.FullCitation)
				if cite.ShortForm != "" {
					fmt.Printf("               short form of %q\n", cite.FullCitation)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "emit citations as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate the citations in a document",
		Long: `Parse a document and validate every citation against per-type
required-field checklists and the reporter and court tables. Invalid
citations are flagged for review, never dropped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			citations := eng.ParseAndValidate(text, nil)
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(citations)
			}

			invalid := 0
			for _, cite := range citations {
				status := "ok"
				if !cite.IsValid {
					status = "INVALID"
					invalid++
				}
				fmt.Printf("  %-8s %-12s %s\n", status, cite.Type, cite.FullCitation)
				for _, finding := range cite.Errors {
					fmt.Printf("           %s: %s\n", finding.Severity, finding.Message)
				}
			}
			fmt.Printf("%d citation(s), %d invalid\n", len(citations), invalid)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "emit annotated citations as JSON")
	return cmd
}

func formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Reformat the citations in a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			styleName, _ := cmd.Flags().GetString("style")
			marker, _ := cmd.Flags().GetString("marker")
			opts := &style.Options{EmphasisMarker: marker}

			for _, cite := range eng.Parse(text) {
				fmt.Println(eng.Format(cite, style.Style(styleName), opts))
			}
			return nil
		},
	}
	cmd.Flags().String("style", string(style.StyleBluebook), "citation style")
	cmd.Flags().String("marker", "*", "emphasis marker for italicized spans")
	return cmd
}

func toaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toa [file]",
		Short: "Generate a table of authorities",
		Long: `Generate a categorized, deduplicated, sorted table of
authorities from the citations in a document.

Example:
  lexcite toa brief.txt --style Bluebook`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			styleName, _ := cmd.Flags().GetString("style")
			table := eng.GenerateTableOfAuthorities(eng.ParseAndValidate(text, nil))
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(table)
			}

			rendered := eng.RenderTableOfAuthorities(table, style.Style(styleName))
			for _, category := range authorities.Categories {
				lines := rendered[category]
				if len(lines) == 0 {
					continue
				}
				fmt.Printf("%s:\n", category)
				for _, line := range lines {
					fmt.Printf("  %s\n", line)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("style", string(style.StyleBluebook), "citation style")
	cmd.Flags().Bool("json", false, "emit the table as JSON")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the citations in a document",
		Long: `Export citations as flat JSON records, CSV rows, or
bibtex-like bibliography entries.

Example:
  lexcite export brief.txt --format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			out, err := eng.ExportCitations(
				eng.ParseAndValidate(text, nil),
				authorities.ExportFormat(format),
			)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().String("format", string(authorities.ExportJSON), `export format: "json", "csv", or "bibtex-like"`)
	return cmd
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Process a document end to end",
		Long: `Parse, resolve, and validate a document, generate its table of
authorities, and rewrite repeat citations to their short form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			styleName, _ := cmd.Flags().GetString("style")
			result := eng.ProcessDocument(text, &engine.ProcessOptions{
				Style: style.Style(styleName),
			})

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(result)
			}
			if output, _ := cmd.Flags().GetString("output"); output != "" {
				if err := os.WriteFile(output, []byte(result.ProcessedText), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Printf("Wrote processed document to %s (%d citations)\n",
					output, len(result.Citations))
				return nil
			}
			fmt.Print(result.ProcessedText)
			return nil
		},
	}
	cmd.Flags().String("style", string(style.StyleBluebook), "citation style")
	cmd.Flags().String("output", "", "write the processed document to a file")
	cmd.Flags().Bool("json", false, "emit the full result as JSON")
	return cmd
}

func stylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List available citation styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := style.NewDefaultRegistry()
			if dir, _ := cmd.Flags().GetString("style-dir"); dir != "" {
				if err := registry.LoadDirectory(dir); err != nil {
					return fmt.Errorf("loading style directory: %w", err)
				}
			}
			for _, name := range registry.Styles() {
				count := 0
				for _, t := range []citation.CitationType{
					citation.CitationTypeCase, citation.CitationTypeStatute,
					citation.CitationTypeRegulation, citation.CitationTypeRule,
					citation.CitationTypeConstitution, citation.CitationTypeBook,
					citation.CitationTypeArticle,
				} {
					if _, ok := registry.Get(style.Style(name), t); ok {
						count++
					}
				}
				fmt.Printf("  %-12s %d rule(s)\n", name, count)
			}
			return nil
		},
	}
}
