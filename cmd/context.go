package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emrgen/docversion/internal/authz"
	"github.com/emrgen/docversion/internal/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	contextDir      = "./.tmp"
	contextFileName = "docversion"
)

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

// Context is the caller identity sent with every request.
type Context struct {
	ActorID string `mapstructure:"actor_id" json:"actor_id"`
	Role    string `mapstructure:"role" json:"role"`
}

// saves the context info to ./.tmp/docversion.yml
func setContextCommand() *cobra.Command {
	var actorID string
	var role string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if actorID == "" || role == "" {
				color.Red(`missing: --actor and --role`)
				return
			}
			if _, err := authz.ParseRole(role); err != nil {
				color.Red("%v", err)
				return
			}

			if err := writeContext(Context{ActorID: actorID, Role: role}); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&actorID, "actor", "a", "", "actor id")
	command.Flags().StringVarP(&role, "role", "r", "", "administrator, expert, editor or viewer")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			printField("Actor", ctx.ActorID)
			printField("Role", ctx.Role)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeContext(Context{}); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}
			fmt.Println("context reset")
		},
	}

	return command
}

func contextViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(contextFileName)
	v.AddConfigPath(contextDir)
	v.SetConfigType("yml")
	return v
}

func writeContext(ctx Context) error {
	if err := os.MkdirAll(contextDir, 0o755); err != nil {
		return err
	}

	v := contextViper()
	v.Set("context", map[string]string{"actor_id": ctx.ActorID, "role": ctx.Role})

	return v.WriteConfigAs(filepath.Join(contextDir, contextFileName+".yml"))
}

func readContext() Context {
	var ctx Context

	v := contextViper()
	if err := v.ReadInConfig(); err != nil {
		return ctx
	}

	if err := v.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// actorContext returns a context carrying the saved actor.
func actorContext() context.Context {
	cfg := readContext()
	if cfg.ActorID == "" {
		color.Yellow("no context set, run: docversion context set --actor <id> --role <role>")
	}

	return server.ActorContext(context.Background(), cfg.ActorID, cfg.Role)
}
