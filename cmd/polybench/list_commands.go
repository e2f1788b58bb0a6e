// cmd/polybench/list_commands.go
package polybench

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format, with the command path in the first column and its short description in the second column.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

type commandInfo struct {
	path        string
	description string
}

// listAllCommands walks the tree under root and writes each command path and
// short description, padded into two columns.
func listAllCommands(w io.Writer, root *cobra.Command) {
	rows := collectCommandData(root, "", "")

	width := 0
	for _, r := range rows {
		width = max(width, len(r.path))
	}

	fmt.Fprintln(w, "Commands and Subcommands:")
	for _, r := range rows {
		fmt.Fprintf(w, "  %s%s%s\n", r.path, strings.Repeat(" ", width-len(r.path)+2), r.description)
	}
}

// collectCommandData flattens the command tree into indented path/description
// pairs, parents before children.
func collectCommandData(cmd *cobra.Command, parent, indent string) []commandInfo {
	fullPath := cmd.Name()
	if parent != "" {
		fullPath = parent + " " + cmd.Name()
	}

	rows := []commandInfo{{path: indent + fullPath, description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		rows = append(rows, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return rows
}
