package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"comment-gateway/internal/client"
	"comment-gateway/internal/config"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/logger"
	"comment-gateway/internal/session"
)

const usage = `Usage: commentctl [flags] <command> <post-id> [args]

Commands:
  tree    <post-id>                        show comments as a nested tree
  flat    <post-id>                        show comments as a flat list
  show    <post-id>                        show comments in the -view mode
  post    <post-id> <text...>              add a top-level comment
  reply   <post-id> <comment-id> <text...> reply to a comment
  edit    <post-id> <comment-id> <text...> replace a comment's content
  delete  <post-id> <comment-id>           delete a comment (asks first unless -yes)
  restore <post-id> <comment-id>           restore a deleted comment (admin)
  watch   <post-id>                        reprint the list on a schedule

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("commentctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	token := fs.String("token", "", "bearer token (default $COMMENT_TOKEN)")
	view := fs.String("view", "", "list mode for show and watch: tree or flat")
	yes := fs.Bool("yes", false, "delete without asking for confirmation")
	schedule := fs.String("schedule", "", "watch schedule, e.g. \"@every 10s\" (default from config)")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	log, err := logger.NewConsole(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	mode, err := domain.ParseViewMode(*view)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if *schedule == "" {
		*schedule = cfg.Watch.Schedule
	}

	c := &console{
		client:    client.NewCommentClient(cfg.CommentAPI.BaseURL, cfg.CommentAPI.Timeout, log, nil),
		sessions:  session.Static(loadSession(*token, cfg.JWT.Secret, log)),
		logger:    log,
		mode:      mode,
		schedule:  *schedule,
		timeout:   cfg.CommentAPI.Timeout,
		assumeYes: *yes,
		in:        bufio.NewReader(stdin),
		out:       stdout,
	}
	if err := c.run(ctx, fs.Args()); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errorText(err))
		if isUsageError(err) {
			return 2
		}
		return 1
	}
	return 0
}

// loadSession reads the credential from the flag or COMMENT_TOKEN. A token the
// parser rejects is still forwarded; the Comment Service has the final say.
func loadSession(token, secret string, log *zap.Logger) *session.Session {
	if token == "" {
		token = os.Getenv("COMMENT_TOKEN")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	s, err := session.NewParser(secret).Parse(token)
	if err != nil {
		log.Warn("Could not read identity from token", zap.Error(err))
		return &session.Session{Token: token}
	}
	return s
}
