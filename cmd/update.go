package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repository = "s0up4200/lobster"

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update lobster to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := semver.ParseTolerant(version); err != nil {
			return fmt.Errorf("cannot update a development build (version %q)", version)
		}

		latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repository))
		if err != nil {
			return fmt.Errorf("error occurred while detecting version: %w", err)
		}
		if !found {
			return fmt.Errorf("no release found for %s", repository)
		}

		if latest.LessOrEqual(version) {
			logger.Info().Str("version", version).Msg("Already up to date")
			return nil
		}
		if checkOnly {
			logger.Info().Str("current", version).Str("latest", latest.Version()).Msg("Update available")
			return nil
		}

		exe, err := selfupdate.ExecutablePath()
		if err != nil {
			return fmt.Errorf("could not locate executable path: %w", err)
		}

		logger.Info().Str("version", latest.Version()).Str("asset", latest.AssetName).Msg("Downloading release")
		if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
			return fmt.Errorf("error occurred while updating binary: %w", err)
		}

		logger.Info().Str("version", latest.Version()).Msg("Successfully updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}
