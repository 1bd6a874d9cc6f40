package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var grpcAddr string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docversion",
	Short: "document version control",
	Example: `docversion serve
docversion context set --actor <user-id> --role editor
docversion record -d <doc-id> -t <title> -c <content>
docversion history -d <doc-id> --author <user-id> --from 2024-01-01
docversion diff --from <version-id> --to <version-id>
docversion restore -d <doc-id> -v <version-id> --reason <reason>
docversion tag add -v <version-id> -l <label>
docversion stats -d <doc-id> --days 30`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "addr", ":4020", "address of the version service")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
