package cmd

import (
	"github.com/emrgen/docversion/internal/config"
	"github.com/emrgen/docversion/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var grpcPort string
	var httpPort string

	command := &cobra.Command{
		Use:   "serve",
		Short: "start the grpc server and the rest gateway",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			if cmd.Flag("grpc-port").Changed {
				cfg.Server.GrpcPort = grpcPort
			}
			if cmd.Flag("http-port").Changed {
				cfg.Server.HttpPort = httpPort
			}

			server.NewServer(cfg).Start()
		},
	}

	command.Flags().StringVar(&grpcPort, "grpc-port", "4020", "grpc port")
	command.Flags().StringVar(&httpPort, "http-port", "4021", "rest gateway port")

	return command
}
