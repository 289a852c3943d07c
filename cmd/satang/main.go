package main

import (
	"fmt"
	"os"

	"satang/internal/cli"
	"satang/internal/config"
)

const usage = `satang - personal finance tracker client

Usage:
  satang <command> [arguments]

Commands:
  login                Sign in with Google and link the backend account
  logout               Sign out and clear the stored token
  status               Show session and stored token state
  overview             Show the finance dashboard
  list                 List transactions (flags: -type, -month, -category;
                       -months/-categories print the selectable options)
  delete <id>          Delete a transaction
  profile              Show profile settings
  savings <percent>    Update the savings percentage
  chat <text>          Record a transaction from free text
  chat-history         Show the recorded conversation
  chat-retry           Retry the last chat message
  chat-clear           Clear the conversation
`

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.Production())
	cli.ValidateConfig(logger, cfg)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	command, args := os.Args[1], os.Args[2:]

	// Rebuild the session from the provider's persisted session before
	// any command runs; login and logout manage the session themselves.
	if command != "login" && command != "logout" {
		app.rehydrate(ctx)
	}

	var runErr error
	switch command {
	case "login":
		runErr = app.runLogin(ctx)
	case "logout":
		runErr = app.runLogout()
	case "status":
		runErr = app.runStatus()
	case "overview":
		runErr = app.runOverview(ctx)
	case "list":
		runErr = app.runList(ctx, args)
	case "delete":
		runErr = app.runDelete(ctx, args)
	case "profile":
		runErr = app.runProfile(ctx)
	case "savings":
		runErr = app.runSavings(ctx, args)
	case "chat":
		runErr = app.runChat(ctx, args)
	case "chat-history":
		runErr = app.runChatHistory(ctx)
	case "chat-retry":
		runErr = app.runChatRetry(ctx)
	case "chat-clear":
		runErr = app.runChatClear(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
