package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cprun/internal/cli/client"
	"cprun/internal/cli/config"
	"cprun/internal/cli/repl"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 30s)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	clientTimeout := time.Duration(cfg.TimeoutSec) * time.Second
	if *timeout > 0 {
		clientTimeout = *timeout
	}

	session := repl.New(client.New(cfg.BaseURL, clientTimeout), cfg.PrettyJSON)
	if err := session.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "cli stopped: %v\n", err)
	}
}
