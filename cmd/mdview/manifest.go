package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/manifest"
)

var (
	manifestDir     string
	manifestOut     string
	manifestInclude []string
	manifestExclude []string
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Generate items.json for a documents folder",
	Long: `Walks the documents folder and writes the sorted list of markdown paths
the viewer navigates. Include and exclude globs use doublestar syntax and
are matched against paths relative to the folder.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := manifestOut
		if out == "" {
			out = filepath.Join(manifestDir, "items.json")
		}
		n, err := manifest.WriteFile(manifestDir, out, manifest.GenerateOptions{
			Include: manifestInclude,
			Exclude: manifestExclude,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", n, out)
		return nil
	},
}

func init() {
	manifestCmd.Flags().StringVar(&manifestDir, "dir", ".", "documents folder")
	manifestCmd.Flags().StringVarP(&manifestOut, "out", "o", "", "output file (default <dir>/items.json)")
	manifestCmd.Flags().StringSliceVar(&manifestInclude, "include", nil, "include glob (repeatable, default **/*.md)")
	manifestCmd.Flags().StringSliceVar(&manifestExclude, "exclude", nil, "exclude glob (repeatable)")
	rootCmd.AddCommand(manifestCmd)
}
