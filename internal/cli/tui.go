package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joacominatel/askdb/internal/tui"
)

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Ask questions in the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Console logging would draw over the UI; the log file still gets everything.
			rt, err := setup(flags, io.Discard)
			if err != nil {
				return err
			}
			defer rt.log.Close()

			model := tui.NewModel(cmd.Context(), rt.service, rt.cfg, rt.target)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
