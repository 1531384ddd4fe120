// Command ask is an interactive terminal client for the research assistant.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/xiaot623/gogo/quantumqa/internal/config"
	"github.com/xiaot623/gogo/quantumqa/internal/transport/http/auth"
)

var (
	addr      = flag.String("addr", "", "API base URL (default http://localhost:<HTTP_PORT>)")
	userID    = flag.String("user", "cli-user", "User id to mint a development token for")
	sessionID = flag.String("session", "", "Session to continue")
	timeout   = flag.Duration("timeout", 90*time.Second, "Per-request timeout")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	base := *addr
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", cfg.HTTPPort)
	}

	token, err := auth.MintToken(cfg.JWTSecret, *userID, 24*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to mint token: %v\n", err)
		os.Exit(1)
	}
	client := NewClient(base, token, *timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println(boldGreen("Quantum Research Assistant"))
	fmt.Printf("Server: %s  User: %s\n", boldCyan(base), boldCyan(*userID))
	fmt.Println("Ask about quantum computing or quantum mechanics. Commands: /new, /history, exit.")
	fmt.Println()

	session := *sessionID
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"):
			return
		case input == "/new":
			session = ""
			fmt.Println(yellow("Started a new conversation."))
			continue
		case input == "/history":
			if session == "" {
				fmt.Println(yellow("No conversation yet."))
				continue
			}
			msgs, err := client.History(ctx, session)
			if err != nil {
				fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
				continue
			}
			for _, m := range msgs {
				fmt.Printf("%s %s\n", boldCyan(m.Role.Label()+":"), m.Content)
			}
			continue
		}

		resp, err := client.Chat(ctx, input, session)
		if err != nil {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
			if ctx.Err() != nil {
				return
			}
			continue
		}
		session = resp.SessionID

		fmt.Print(boldCyan("Assistant: "))
		if !resp.IsInDomain {
			fmt.Println(yellow(resp.Answer))
		} else {
			fmt.Println(resp.Answer)
			fmt.Printf("%s %d papers, %d web results (confidence %.2f)\n",
				yellow("Retrieved"), resp.SourcesCount.Papers, resp.SourcesCount.WebResults, resp.Confidence)
		}
		fmt.Println()
	}
}
