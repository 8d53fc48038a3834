// Package cmd provides the wadden-sea command line interface.
//
// Commands:
//   - serve: HTTP API server
//   - query: answer a single question from the terminal
//   - entities: list the registered knowledge bases
//   - migrate: apply database migrations
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// Execute is the entry point for the wadden-sea CLI.
func Execute() error {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe(logger)
	case "query":
		return runQuery(logger)
	case "entities":
		return runEntities()
	case "migrate":
		return runMigrate(logger)
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("wadden-sea - question answering over Wadden Sea knowledge bases")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wadden-sea serve [addr]              Start the HTTP API server (default: 127.0.0.1:8080)")
	fmt.Println("  wadden-sea query -entity seal [q]    Answer a question from one knowledge base")
	fmt.Println("  wadden-sea entities                  List registered knowledge bases")
	fmt.Println("  wadden-sea migrate                   Apply database migrations")
	fmt.Println("  wadden-sea --version                 Show version information")
	fmt.Println("  wadden-sea --help                    Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OPENAI_API_KEY     Model API key (unless resolved via key vault)")
	fmt.Println("  DATABASE_URL       Postgres connection URL (overrides config)")
	fmt.Println("  WADDEN_*           Override any config key, e.g. WADDEN_TOP_K=10")
	fmt.Println("  DEBUG              Enable debug logging")
}
