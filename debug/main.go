package main

import (
	"os"
	"path/filepath"

	"github.com/emrgen/docversion/internal/config"
	"github.com/emrgen/docversion/internal/server"
	"github.com/sirupsen/logrus"
)

// debug runs the server against a throwaway sqlite database with verbose logging.
func main() {
	cfg := config.LoadConfig()
	logrus.SetLevel(logrus.DebugLevel)

	dir, err := os.MkdirTemp("", "docversion-debug-")
	if err != nil {
		logrus.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(dir, "docversion.db")
	cfg.Jobs.InvariantCheck = "@every 30s"

	if grpcPort := os.Getenv("GRPC_PORT"); grpcPort != "" {
		cfg.Server.GrpcPort = grpcPort
	}
	if httpPort := os.Getenv("HTTP_PORT"); httpPort != "" {
		cfg.Server.HttpPort = httpPort
	}

	logrus.Debugf("debug database: %s", cfg.Database.Path)
	if err = server.Start(cfg); err != nil {
		logrus.Error(err)
	}
}
