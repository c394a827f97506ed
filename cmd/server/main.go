// cmd/server/main.go
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/perchgames/slaptable/internal/handlers"
	"github.com/perchgames/slaptable/internal/history"
	"github.com/perchgames/slaptable/internal/middleware"
	"github.com/perchgames/slaptable/internal/router"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	// Event feed is optional; the table runs fine without Redis.
	var recorder router.EventRecorder
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		r, err := history.New(addr, getEnvInt("REDIS_DB", 0), os.Getenv("HISTORY_QUEUE_NAME"))
		if err != nil {
			logger.Fatalf("failed to connect event feed: %v", err)
		}
		defer r.Close()
		logger.Infof("event feed enabled on %s", addr)
		recorder = r
	}

	rt := router.New(logger, recorder)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HealthHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(handlers.WSHandler(logger, rt)))

	l, err := net.Listen("tcp", fmt.Sprintf(":%s", getEnv("PORT", "8080")))
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	server := &http.Server{Handler: mux}
	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else a default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
