package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ronmurphy/canvasdesk/internal/wm"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := wm.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	manager, err := wm.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to create window manager")
	}
	defer manager.Close()

	if err := manager.Init(); err != nil {
		if errors.Is(err, wm.ErrAnotherWMRunning) {
			log.Fatal("another window manager is already running")
		}
		log.WithError(err).Fatal("failed to initialize window manager")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		manager.Close()
		os.Exit(0)
	}()

	log.Info("driftwm running")
	if err := manager.Run(); err != nil {
		log.WithError(err).Fatal("event loop exited")
	}
}
