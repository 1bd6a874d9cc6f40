package cmd

import (
	"github.com/emrgen/docversion/internal/config"
	"github.com/emrgen/docversion/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := config.GetDb(config.LoadConfig())
			if err != nil {
				logrus.Fatal(err)
			}
			if err = model.Migrate(db); err != nil {
				logrus.Fatal(err)
			}
			logrus.Info("database migrated")
		},
	}

	return command
}
