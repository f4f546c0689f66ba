package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"battleship-server/internal/app"
	"battleship-server/internal/battleship"
	"battleship-server/internal/config"
	"battleship-server/internal/session"
)

var log = logrus.New()

func setupLogging(cfg *config.Config) {
	logLevel := logrus.InfoLevel
	if cfg.Development {
		logLevel = logrus.DebugLevel
	}
	if cfg.LogLevel != "" {
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logLevel = level
		}
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if cfg.LogFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(
			rotatefilehook.RotateFileConfig{
				Filename:   cfg.LogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Level:      logLevel,
				Formatter:  &logrus.JSONFormatter{},
			},
		)
		if err != nil {
			log.Fatal("unable to create rotating log file hook: ", err)
		}
		log.AddHook(hook)
	}

	battleship.Log = log
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	_ = godotenv.Load()

	cfg := config.New()

	setupLogging(cfg)

	log.Info("starting up, development = ", cfg.Development)
	log.WithFields(cfg.Fields()).Debug("config")

	cookies := config.NewCookies(log.Warn)
	store := session.NewStore(cfg.SessionTTL, log)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: app.New(log, cookies, store).Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		store.Janitor(gCtx, time.Minute)
		return nil
	})
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
