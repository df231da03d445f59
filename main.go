package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"funplay.com/server/game"
	"funplay.com/server/internal"
	"funplay.com/server/nats"
	"funplay.com/server/rest"
	"funplay.com/server/util"
	"funplay.com/server/wallet"
)

var delayConfigFile *string
var mainLogger = log.With().Str("logger_name", "main::main").Logger()

func init() {
	delayConfigFile = flag.String("delays", "delays.yaml", "YAML file containing pause times")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	delays, err := game.ParseDelayConfig(*delayConfigFile)
	if err != nil {
		mainLogger.Warn().Msgf("Could not load delay config, using defaults: %s", err)
		delays = game.DefaultDelays()
	}

	db, err := sqlx.Connect("postgres", internal.GetWalletConnStr())
	if err != nil {
		return errors.Wrap(err, "Error connecting to the wallet database")
	}

	walletService, err := wallet.NewService(db)
	if err != nil {
		return errors.Wrap(err, "Error creating the wallet service")
	}
	if err := walletService.EnsureSchema(); err != nil {
		return errors.Wrap(err, "Error preparing the wallet schema")
	}

	redisAddr := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
	cachedWallet := wallet.NewRedisCachedWallet(walletService, redisAddr, util.Env.GetRedisPW(), util.Env.GetRedisDB())

	natsURL := util.Env.GetNatsURL()
	mainLogger.Info().Msgf("NATS URL: %s", natsURL)
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return errors.Wrap(err, "Error connecting to the NATS server")
	}

	hub := nats.NewHub(nc)
	manager := game.NewManager(cachedWallet, hub, delays)
	if err := hub.Start(manager); err != nil {
		return errors.Wrap(err, "Error starting the NATS hub")
	}

	mainLogger.Info().Msg("Poker server running")
	rest.RunRestServer(cachedWallet, walletService, manager)
	return nil
}
