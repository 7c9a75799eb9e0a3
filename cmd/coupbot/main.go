package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/jswaro/coup/internal/command"
	"github.com/jswaro/coup/internal/config"
	"github.com/jswaro/coup/internal/server"
	"github.com/jswaro/coup/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	reg := store.New(cfg.ResponseWindow)
	disp := command.New(reg, logger.Named("command"))
	srv := server.New(cfg, reg, disp, logger.Named("server"))

	if err := srv.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
