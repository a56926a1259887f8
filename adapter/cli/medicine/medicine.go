package medicine

import (
	"github.com/spf13/cobra"
)

// Cmd is the medicine command group
var Cmd = &cobra.Command{
	Use:   "medicine",
	Short: "Manage medicine stock and expiry",
	Long:  `Record the stock, dose per intake and expiry date that schedules are resolved against.`,
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
}
