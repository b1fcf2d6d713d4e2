package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/timerapp/timerapp-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.New(logger.Options{ServiceName: "migrate"}).Error(ctx, "migrate failed", err)
		stop()
		os.Exit(1)
	}
}
