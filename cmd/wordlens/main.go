// Copyright 2025 The WordLens Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the WordLens dictionary client.

WordLens talks to a dictionary REST API. It can run as an interactive
terminal front-end, or as a MessagePack IPC bridge for text editors.

# Usage

Start the interactive front-end against the configured API:

	wordlens

Point it at another API and enable debug logs:

	wordlens -api https://dict.example.com -d

Serve editor plugins over stdin/stdout:

	wordlens -ipc

# Configuration

The config file lives at ~/.config/wordlens/config.toml and is created with
defaults on first run:

	[api]
	base_url = "http://localhost:3000"
	timeout_ms = 10000
	rate_per_sec = 10.0
	burst = 5
	retry_delay_ms = 500

	[search]
	page_size = 10
	min_suggest_len = 2
	suggest_limit = 10
	suggest_debounce_ms = 300
	search_debounce_ms = 600
	cache_size = 256

	[game]
	option_count = 4
	real_options = 2
	synonym_points = 8
	anagram_points = 10

	[cli]
	preview_definitions = 3
	preview_synonyms = 8

WORDLENS_API_URL overrides base_url, and -api overrides both.

# Command Line Flags

	-config string
	    Path to a config file
	-api string
	    API base URL
	-d  Toggle debug mode
	-ipc
	    Serve msgpack requests on stdin/stdout
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordlens/internal/cli"
	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/config"
	"github.com/bastiangx/wordlens/pkg/notify"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/bastiangx/wordlens/pkg/server"
	"github.com/bastiangx/wordlens/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordlens"
	gh      = "https://github.com/bastiangx/wordlens"
)

// sigHandler cancels ctx on the first interrupt and exits on the second.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		<-c
		os.Exit(0)
	}()
}

// main wires config, the API client and the chosen front-end.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	apiURL := flag.String("api", "", "API base URL (overrides config and "+config.EnvAPIURL+")")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	ipcMode := flag.Bool("ipc", false, "Serve msgpack requests on stdin/stdout")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithRateLimit(cfg.API.RatePerSec, cfg.API.Burst),
		api.WithRetryDelay(cfg.API.RetryDelay()),
	)
	suggestions := suggest.NewCached(client, suggest.NewCache(cfg.Search.CacheSize))
	log.Debug("API client ready", "base", client.BaseURL(), "cache", cfg.Search.CacheSize)

	if *ipcMode {
		log.Debug("spawning IPC")
		srv := server.NewServer(client, suggestions, os.Stdin, os.Stdout, server.Options{
			PageSize:      cfg.Search.PageSize,
			SuggestLimit:  cfg.Search.SuggestLimit,
			MinSuggestLen: cfg.Search.MinSuggestLen,
			Timeout:       cfg.API.Timeout(),
			APIName:       client.BaseURL(),
			Logger:        logger.NewWithConfig(os.Stderr, "ipc", log.GetLevel(), *debugMode, *debugMode, log.TextFormatter),
		})
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("IPC error: %v", err)
		}
		return
	}

	log.SetReportTimestamp(false)
	notes := notify.NewChannel(64, log.Default())
	opts := cfg.Search.ControllerOptions()
	opts.Notifier = notes
	ctrl := search.New(client, suggestions, opts)
	defer ctrl.Close()

	inputHandler := cli.NewInputHandler(ctrl, notes, os.Stdin, os.Stdout, cli.Options{
		Renderer: cli.Renderer{
			PreviewDefinitions: cfg.CLI.PreviewDefinitions,
			PreviewSynonyms:    cfg.CLI.PreviewSynonyms,
		},
		Rules: cfg.Game.Rules(),
	})
	if err := inputHandler.Start(ctx); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ WordLens ] A dictionary in your terminal")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}
