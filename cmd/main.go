// Package main runs the money transfer API server.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/money-transfer/cmd/httpserver"
	"github.com/go-petr/money-transfer/internal/middleware"
	"github.com/go-petr/money-transfer/pkg/configpkg"
	"github.com/go-petr/money-transfer/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	go server.Refund.Run(ctx)

	logger.Info().Msg("MONEY TRANSFER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
