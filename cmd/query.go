package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/voice-for-nature/wadden-sea/internal/app"
	"github.com/voice-for-nature/wadden-sea/internal/config"
	"github.com/voice-for-nature/wadden-sea/internal/engine"
	"github.com/voice-for-nature/wadden-sea/internal/log"
)

// runQuery answers a single question and prints the answer with its
// sources. The question is taken from the remaining arguments:
//
//	wadden-sea query -entity seal "How do seals stay warm?"
func runQuery(logger log.Logger) error {
	queryFlags := flag.NewFlagSet("query", flag.ContinueOnError)
	queryFlags.SetOutput(os.Stderr)

	entity := queryFlags.String("entity", "general", "knowledge base to query")
	query := queryFlags.String("query", "", "question to answer (or pass it as remaining arguments)")

	args := []string{}
	if len(os.Args) > 2 {
		args = os.Args[2:]
	}
	if err := queryFlags.Parse(args); err != nil {
		return fmt.Errorf("parsing query flags: %w", err)
	}

	question := *query
	if question == "" {
		question = strings.Join(queryFlags.Args(), " ")
	}
	if question == "" {
		return fmt.Errorf("no question given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	result, err := a.Engine.ProcessQuery(ctx, question, *entity)
	if err != nil {
		return fmt.Errorf("answering query: %w", err)
	}

	printResult(os.Stdout, result)
	return nil
}

const resultRule = "============================================================"

// printResult renders a query result for the terminal: the answer, then
// the numbered source list in ranking order.
func printResult(w io.Writer, res *engine.Result) {
	fmt.Fprintln(w, resultRule)
	fmt.Fprintln(w, "ANSWER:")
	fmt.Fprintln(w, resultRule)
	fmt.Fprintln(w, res.Answer)
	fmt.Fprintln(w)
	fmt.Fprintln(w, resultRule)
	fmt.Fprintln(w, "SOURCES:")
	fmt.Fprintln(w, resultRule)
	if len(res.Sources) == 0 {
		fmt.Fprintln(w, "No sources found")
	} else {
		for i, source := range res.Sources {
			fmt.Fprintf(w, "%d. %s\n", i+1, source)
		}
	}
	fmt.Fprintln(w, resultRule)
}
