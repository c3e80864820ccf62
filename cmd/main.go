package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/slateroom/slateroom-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		a.Close()
		os.Exit(0)
	}()

	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	if err := a.Run(addr); err != nil {
		a.Log.Error("Server failed", "error", err)
	}
}
