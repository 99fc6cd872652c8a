package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/NgigiN/pesatrack/internal/config"
	"github.com/NgigiN/pesatrack/internal/discord"
	"github.com/NgigiN/pesatrack/internal/logging"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logging.New(os.Getenv("LOG_LEVEL"))

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Warn("No .env file loaded, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log.SetLevel(parseLevel(cfg.LogLevel))

	bot, err := discord.NewBot(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize the discord bot")
	}
	if err := bot.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start bot")
	}

	log.Info("Bot is running...")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
	log.Info("Bot stopped.")
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
