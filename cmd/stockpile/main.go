package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talkincode/stockpile/config"
	"github.com/talkincode/stockpile/internal/api"
	"github.com/talkincode/stockpile/internal/app"
	"github.com/talkincode/stockpile/internal/webserver"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("c", "/etc/stockpile.yml", "config file path")
	initDb   = flag.Bool("initdb", false, "drop and recreate the relational tables")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("stockpile", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	server := webserver.NewWebServer(cfg)
	handler := api.NewHandler(application.Store(), application.Registry(),
		application.Importer(), application)
	handler.Register(server.Echo())

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigChan:
		zap.S().Infof("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zap.S().Errorf("shutdown error: %v", err)
		}
	}
}
