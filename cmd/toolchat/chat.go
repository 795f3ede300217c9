package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/config"
	"github.com/effective-security/toolchat/llm"
	"github.com/effective-security/toolchat/mcpconn"
	"github.com/effective-security/toolchat/orchestrator"
	"github.com/effective-security/toolchat/registry"
	"github.com/spf13/cobra"
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	completer, err := llm.NewFromConfig(ctx, &cfg.LLM)
	if err != nil {
		return err
	}

	reg := registry.New()
	mgr := mcpconn.NewManager()
	defer mgr.Shutdown()

	connected := mgr.ConnectAll(ctx, cfg.Providers, reg)
	fmt.Printf("Connected to %d of %d providers, %d tools available.\n",
		connected, len(cfg.Providers), reg.Len())

	in := bufio.NewScanner(os.Stdin)
	orc := orchestrator.New(completer, reg,
		&stdinPrompter{in: in, out: os.Stdout},
		orchestrator.WithCallback(orchestrator.NewPrinterCallback(os.Stdout)),
		orchestrator.WithHistoryWindow(cfg.HistoryWindow),
	)

	fmt.Println("Chat started. Type 'exit' to quit.")
	for {
		fmt.Print("\nYou: ")
		if !in.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		input := strings.TrimSpace(in.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Bye.")
			return nil
		}
		// per-turn errors are already reported by the callback; the
		// conversation continues
		_ = orc.ProcessTurn(ctx, input)
	}
	return nil
}

// stdinPrompter answers clarification questions from the same input
// stream as the chat loop.
type stdinPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *stdinPrompter) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}
	fmt.Fprintf(p.out, "? %s: ", question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", errors.WithStack(err)
		}
		return "", errors.New("input closed")
	}
	return strings.TrimSpace(p.in.Text()), nil
}
