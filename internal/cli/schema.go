package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSchemaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema text the language model is prompted with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(flags, os.Stderr)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			if err := rt.requireTarget(); err != nil {
				return err
			}
			schema, err := rt.service.Schema(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), schema.Render())
			return err
		},
	}
}
