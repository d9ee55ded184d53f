// snapconv converts chat snapshot files from the command line, without the
// web runner.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felo/chatsnap/internal/convert"
)

var (
	flagKind      string
	flagOutput    string
	flagAssetsDir string
)

var rootCmd = &cobra.Command{
	Use:   "snapconv",
	Short: "Convert chat snapshots (MHTML) to clean HTML, Q&A text, or Markdown",
	Long: `snapconv extracts conversations from browser-saved chat snapshots.

It reads an .mhtml export, finds the question/answer turns inside it, and
writes a cleaned transcript. Run "snapconv kinds" for the available
converters.`,
	SilenceUsage: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input-file>",
	Short: "Convert one snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]

		kind, err := convert.ParseKind(flagKind)
		if err != nil {
			return err
		}

		input, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		inputName := filepath.Base(inputPath)

		outputPath := flagOutput
		if outputPath == "" {
			outputPath = filepath.Join(filepath.Dir(inputPath), convert.OutputName(inputName, kind))
		}

		req := convert.Request{
			Input:     input,
			Kind:      kind,
			InputName: inputName,
		}
		if kind == convert.KindQAMarkdownAssets {
			req.AssetsDir = flagAssetsDir
			if req.AssetsDir == "" {
				base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
				req.AssetsDir = base + "_assets"
			}
		}

		artifact, err := convert.Run(req)
		if err != nil {
			return err
		}

		if err := os.WriteFile(outputPath, artifact.Bytes, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}

		fmt.Printf("%s → %s (%d bytes)\n", inputName, outputPath, len(artifact.Bytes))
		if n := artifact.TurnCount(); n > 0 {
			fmt.Printf("turns: %d\n", n)
		}
		if artifact.Diagnostics != "" {
			fmt.Fprintln(os.Stderr, "diagnostics:")
			for _, line := range strings.Split(artifact.Diagnostics, "\n") {
				fmt.Fprintln(os.Stderr, "  "+line)
			}
		}
		return nil
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the available converters",
	Run: func(cmd *cobra.Command, args []string) {
		for _, info := range convert.Kinds() {
			fmt.Printf("%-20s %s (%s → %s)\n",
				info.Kind, info.Description,
				strings.Join(info.InputExts, "/"), info.OutputExt)
		}
	},
}

func init() {
	convertCmd.Flags().StringVarP(&flagKind, "kind", "k", string(convert.KindQAMarkdown), "converter kind (see: snapconv kinds)")
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path (default: input name with the kind's extension)")
	convertCmd.Flags().StringVar(&flagAssetsDir, "assets-dir", "", "directory for extracted images (qa-markdown-assets only)")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(kindsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
