package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/loader"
	"github.com/dgallion1/mdview/internal/markdown"
	"github.com/dgallion1/mdview/internal/outline"
	"github.com/dgallion1/mdview/internal/source"
	"github.com/dgallion1/mdview/internal/viewer"
)

var (
	renderIndex    int
	renderPath     string
	renderFragment string
	renderJSON     bool
)

type renderOutput struct {
	loader.Result
	Theme    string `json:"theme"`
	Fragment string `json:"fragment,omitempty"`
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one page to stdout",
	Long: `Loads the manifest from the configured source and renders one page.
Select the page with --p (manifest index), --path (manifest path) or
--fragment (a "#p=<n>" deep link). Without a selector the first page is
rendered. A page that fails to load is still printed, and the command
exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr())

		keys := viewer.KeyIndex
		raw := renderFragment
		switch {
		case cmd.Flags().Changed("path"):
			keys = viewer.KeyPath
		case cmd.Flags().Changed("p"):
			raw = strconv.Itoa(renderIndex)
		case raw != "":
			raw = viewer.FragmentValue(raw)
		}

		src, _, err := source.Open(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()

		md := markdown.New(markdown.Options{LightStyle: cfg.LightStyle, DarkStyle: cfg.DarkStyle})
		v, err := viewer.Bootstrap(ctx, src, loader.New(src, md, log), viewer.Options{Keys: keys}, log)
		if err != nil {
			return err
		}

		key := renderPath
		if !cmd.Flags().Changed("path") {
			k, ok := keys.InitialKey(v.Manifest(), raw)
			if !ok {
				return fmt.Errorf("manifest is empty")
			}
			key = k
		}
		res, err := v.LoadKey(ctx, key)
		if err != nil {
			return err
		}

		mode, err := cliTheme()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if renderJSON {
			if res.Headings == nil {
				res.Headings = []outline.Heading{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			o := renderOutput{Result: res, Theme: mode.Attr()}
			if res.State == loader.StateRendered {
				o.Fragment = keys.Fragment(res.Page)
			}
			if err := enc.Encode(o); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "<article data-theme=%q>\n%s</article>\n", mode.Attr(), res.Content)
		}

		if res.State != loader.StateRendered {
			return fmt.Errorf("page %s: %s", res.Page.Path, res.State)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().IntVar(&renderIndex, "p", 0, "manifest index of the page")
	renderCmd.Flags().StringVar(&renderPath, "path", "", "manifest path of the page")
	renderCmd.Flags().StringVar(&renderFragment, "fragment", "", `deep link fragment, e.g. "#p=3"`)
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "print the result as JSON")
	renderCmd.MarkFlagsMutuallyExclusive("p", "path", "fragment")
	rootCmd.AddCommand(renderCmd)
}
