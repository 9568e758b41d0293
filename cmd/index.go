package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sperrmuell/sources/osmindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the address index from the OSM extract and write the debug listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		idx, err := osmindex.NewBuilder(cfg.Municipality, logger).BuildFile(cmd.Context(), cfg.OSMFile)
		if err != nil {
			return err
		}
		if err := osmindex.WriteListings(idx, cfg.DebugDir); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d addresses on %d streets in %s\n",
			idx.Addresses.Len(), idx.Streets.Len(), cfg.Municipality)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
