package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flaredoc/flare2adoc/internal/runner"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a directory of topic files to AsciiDoc",
	Long: `Convert walks the input directory, converts every topic file it
finds and writes the results under the output directory, preserving the
relative layout. Snippet attribute definitions collected along the way
can be written to a separate file with --snippets-file.`,
	SilenceUsage: true,
	RunE:         runConvert,
}

func init() {
	convertCmd.Flags().String("in", ".", "input directory with topic files")
	convertCmd.Flags().String("out", "out", "output directory for converted documents")
	convertCmd.Flags().String("snippets-file", "", "write snippet attribute definitions to this file")
	convertCmd.Flags().Int("jobs", 0, "number of parallel workers (0 selects automatically)")
	convertCmd.Flags().StringSlice("known-snippet", nil, "snippet name that is defined elsewhere (repeatable)")
	convertCmd.Flags().Bool("yes", false, "overwrite a non-empty output directory without asking")
	convertCmd.Flags().Bool("quiet", false, "only report failures")
	convertCmd.Flags().Bool("verbose", false, "print per-file conversion timings")

	for _, name := range []string{"in", "out", "snippets-file", "jobs", "known-snippet", "yes", "quiet", "verbose"} {
		if err := viper.BindPFlag(name, convertCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts := runner.Options{
		InputDir:      viper.GetString("in"),
		OutputDir:     viper.GetString("out"),
		SnippetsFile:  viper.GetString("snippets-file"),
		Jobs:          viper.GetInt("jobs"),
		KnownSnippets: viper.GetStringSlice("known-snippet"),
		Quiet:         viper.GetBool("quiet"),
		Verbose:       viper.GetBool("verbose"),
	}

	if !viper.GetBool("yes") {
		proceed, err := confirmOverwrite(opts.OutputDir)
		if err != nil {
			return err
		}
		if !proceed {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	summary, err := runner.Run(opts)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Succeeded+summary.Failed)
	}
	return nil
}

// confirmOverwrite asks before writing into an output directory that
// already has contents. A missing or empty directory needs no answer.
func confirmOverwrite(outputDir string) (bool, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	if len(entries) == 0 {
		return true, nil
	}

	overwrite := false
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Output directory %s is not empty. Overwrite?", outputDir)).
		Affirmative("Yes, overwrite.").
		Negative("No, abort.").
		Value(&overwrite).
		Run()
	if err != nil {
		return false, err
	}
	return overwrite, nil
}
