package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdview/internal/theme"
)

var themeFile string

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the persisted light/dark preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cliTheme()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), mode)
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip and persist the light/dark preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := themeStore()
		if err != nil {
			return err
		}
		mode, err := theme.NewManager(store, theme.NoPreference).Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), mode)
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

func themeStore() (*theme.FileStore, error) {
	path := themeFile
	if path == "" {
		p, err := theme.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return theme.NewFileStore(path), nil
}

// cliTheme resolves the stored preference. A terminal has no color-scheme
// query, so an unset preference is light.
func cliTheme() (theme.Mode, error) {
	store, err := themeStore()
	if err != nil {
		return theme.Light, err
	}
	return theme.NewManager(store, theme.NoPreference).Mode(), nil
}
