// Command ihdrs-console is a terminal client for the IHDRS backend. It keeps
// its session in ~/.ihdrs/session.json, so consecutive invocations share one
// login the same way the web client shares it across tabs.
//
// Usage:
//
//	ihdrs-console login -u alice
//	ihdrs-console whoami
//	ihdrs-console recognize -image digit.png
//	ihdrs-console history -page 1 -size 10
//	ihdrs-console logout
//
// Configuration comes from the environment (optionally a .env file):
// IHDRS_BASE_URL, IHDRS_TIMEOUT, IHDRS_ADMIN_ROLE, IHDRS_STATE_FILE.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	ihdrs "github.com/ihdrs/ihdrs-client-go"
	"github.com/ihdrs/ihdrs-client-go/api"
	"github.com/ihdrs/ihdrs-client-go/credstore"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("command failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ihdrs-console <command> [flags]

commands:
  login       authenticate and store the session
  register    create an account
  logout      clear the stored session
  whoami      print the current session profile
  validate    re-check the session against the backend
  recognize   submit an image for digit recognition
  history     list past recognitions
  metrics     print session counters`)
}

func run(ctx context.Context, logger *slog.Logger, command string, args []string) error {
	manager, err := buildManager(ctx, logger)
	if err != nil {
		return err
	}
	defer manager.Close()

	switch command {
	case "login":
		return cmdLogin(ctx, manager, args)
	case "register":
		return cmdRegister(ctx, manager, args)
	case "logout":
		redirect := manager.Logout(ctx)
		logger.Info("logged out", "next", redirect.To)
		return nil
	case "whoami":
		return cmdWhoami(manager)
	case "validate":
		return cmdValidate(ctx, manager, logger)
	case "recognize":
		return cmdRecognize(ctx, manager, args)
	case "history":
		return cmdHistory(ctx, manager, args)
	case "metrics":
		return printJSON(manager.MetricsSnapshot())
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func buildManager(ctx context.Context, logger *slog.Logger) (*ihdrs.Manager, error) {
	cfg := ihdrs.DefaultConfig()
	cfg.API.BaseURL = os.Getenv("IHDRS_BASE_URL")
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	if raw := os.Getenv("IHDRS_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("IHDRS_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if role := os.Getenv("IHDRS_ADMIN_ROLE"); role != "" {
		cfg.Routes.AdminRole = role
	}
	cfg.API.UserAgent = "ihdrs-console"

	statePath := os.Getenv("IHDRS_STATE_FILE")
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		statePath = filepath.Join(home, ".ihdrs", "session.json")
	}
	store, err := credstore.NewFileStore(statePath)
	if err != nil {
		return nil, err
	}

	sink := logSink{logger: logger}
	return ihdrs.New().
		WithConfig(cfg).
		WithStore(store).
		WithNoticeSink(sink).
		Build(ctx)
}

// logSink renders notices as log lines; the console has no toast UI.
type logSink struct {
	logger *slog.Logger
}

func (s logSink) Emit(_ context.Context, notice ihdrs.Notice) {
	s.logger.Info(notice.Message, "level", notice.Level.String(), "source", notice.Source)
}

func cmdLogin(ctx context.Context, manager *ihdrs.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("login: -u username required")
	}

	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}

	result, err := manager.Login(ctx, ihdrs.Credentials{
		Username: *username,
		Password: password,
	}, "")
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", result.Snapshot.Profile.Username, result.Snapshot.Profile.Role)
	return nil
}

func cmdRegister(ctx context.Context, manager *ihdrs.Manager, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("register: -u username required")
	}

	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	result, err := manager.Register(ctx, ihdrs.Registration{
		Username: *username,
		Password: password,
		Email:    *email,
		Phone:    *phone,
	})
	if err != nil {
		return err
	}
	fmt.Printf("account created, log in at %s\n", result.RedirectTo)
	return nil
}

func cmdWhoami(manager *ihdrs.Manager) error {
	if !manager.IsLoggedIn() {
		fmt.Println("not logged in")
		return nil
	}
	snapshot := manager.Snapshot()
	if expiresAt, ok := manager.SessionExpiresAt(); ok {
		fmt.Printf("session expires %s\n", expiresAt.Format(time.RFC3339))
	}
	return printJSON(snapshot.Profile)
}

func cmdValidate(ctx context.Context, manager *ihdrs.Manager, logger *slog.Logger) error {
	if !manager.IsLoggedIn() {
		fmt.Println("not logged in")
		return nil
	}
	if err := manager.ValidateSession(ctx); err != nil {
		return err
	}
	logger.Info("session confirmed", "user", manager.Username())
	return nil
}

func cmdRecognize(ctx context.Context, manager *ihdrs.Manager, args []string) error {
	fs := flag.NewFlagSet("recognize", flag.ExitOnError)
	imagePath := fs.String("image", "", "path to image file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *imagePath == "" {
		return fmt.Errorf("recognize: -image path required")
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		return err
	}

	result, err := manager.API().Recognize(ctx, api.RecognizeRequest{
		ImageData:  base64.StdEncoding.EncodeToString(data),
		InputType:  api.InputUpload,
		ClientInfo: "ihdrs-console",
	})
	if err != nil {
		return err
	}
	fmt.Printf("digit: %d  confidence: %.2f%%\n", result.Digit, result.Confidence*100)
	if result.NeedRewrite {
		fmt.Println("low confidence, consider rewriting the digit")
	}
	return nil
}

func cmdHistory(ctx context.Context, manager *ihdrs.Manager, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	page := fs.Int64("page", 1, "page number")
	size := fs.Int64("size", 10, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := manager.API().History(ctx, *page, *size)
	if err != nil {
		return err
	}
	for _, record := range result.Records {
		fmt.Printf("#%d  digit=%d  confidence=%.2f  %s  %s\n",
			record.RecordID, record.Result, record.Confidence, record.InputType, record.CreateTime)
	}
	fmt.Printf("page %d/%d (%d total)\n", result.Current, result.Pages, result.Total)
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	// Piped stdin, e.g. in scripts.
	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
