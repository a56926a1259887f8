package reminder

import (
	"github.com/spf13/cobra"
)

// Cmd is the reminder command group
var Cmd = &cobra.Command{
	Use:   "reminder",
	Short: "Inspect and deliver intake reminders",
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(cancelAllCmd)
	Cmd.AddCommand(takenCmd)
	Cmd.AddCommand(serveCmd)
}
