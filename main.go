package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n0madic/go-jwtinfo/internal/auth"
	"github.com/n0madic/go-jwtinfo/internal/config"
	"github.com/n0madic/go-jwtinfo/internal/input"
	"github.com/n0madic/go-jwtinfo/internal/jwt"
	"github.com/n0madic/go-jwtinfo/internal/render"
)

const usage = `Usage: go-jwtinfo <command> [flags]
Commands: decode, check, info, token, watch`

// Exit codes for the check command.
const (
	exitActive     = 0
	exitInactive   = 1
	exitUnreadable = 2
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode":
		os.Exit(cmdDecode(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "info":
		os.Exit(cmdInfo(os.Args[2:]))
	case "token":
		os.Exit(cmdToken(os.Args[2:]))
	case "watch":
		os.Exit(cmdWatch(os.Args[2:]))
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// readToken loads a token from -f, from the positional argument, or from
// stdin when the argument is missing or "-".
func readToken(file string, args []string, stdin io.Reader, strict bool) (jwt.Token, error) {
	var opts []jwt.Option
	if strict {
		opts = append(opts, jwt.WithStrict())
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return jwt.Token{}, err
		}
		defer f.Close()
		return input.Read(f, opts...)
	}
	if len(args) == 0 || args[0] == "-" {
		return input.Read(stdin, opts...)
	}
	return input.Parse([]byte(args[0]), opts...)
}

func cmdDecode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	cfg := config.DefaultFromEnv()
	file := fs.String("f", "", "Read the token from a file")
	path := fs.String("path", "", "Print a single claim selected by a gjson path")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format (text|json|yaml)")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Reject segments with characters outside the base64url alphabet")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored JSON output")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	fs.Parse(args)
	setupLogging(cfg.Verbose)

	if !config.ValidFormat(cfg.Format) {
		slog.Error("unsupported output format", "format", cfg.Format)
		return 1
	}

	tok, err := readToken(*file, fs.Args(), os.Stdin, cfg.Strict)
	if err != nil {
		slog.Error("failed to read token", "error", err)
		return 1
	}
	if err := tok.Check(); err != nil {
		slog.Debug("token did not decode cleanly", "error", err)
	}

	if *path != "" {
		v, ok := tok.Path(*path)
		if !ok {
			slog.Error("claim not found", "path", *path)
			return 1
		}
		fmt.Println(render.Value(v))
		return 0
	}

	now := time.Now()
	if cfg.Format == config.FormatText {
		if err := render.Text(os.Stdout, tok, now); err != nil {
			slog.Error("failed to write output", "error", err)
			return 1
		}
		return 0
	}

	doc, err := render.Document(tok, now)
	if err != nil {
		slog.Error("failed to render token", "error", err)
		return 1
	}
	switch cfg.Format {
	case config.FormatJSON:
		os.Stdout.Write(render.JSON(doc, !cfg.NoColor && isTerminal(os.Stdout)))
	case config.FormatYAML:
		out, err := render.YAML(doc)
		if err != nil {
			slog.Error("failed to render YAML", "error", err)
			return 1
		}
		os.Stdout.Write(out)
	}
	return 0
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfg := config.DefaultFromEnv()
	file := fs.String("f", "", "Read the token from a file")
	quiet := fs.Bool("q", false, "Do not print the status")
	fs.DurationVar(&cfg.Leeway, "leeway", cfg.Leeway, "Clock skew tolerance for exp and nbf")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Reject segments with characters outside the base64url alphabet")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	fs.Parse(args)
	setupLogging(cfg.Verbose)

	tok, err := readToken(*file, fs.Args(), os.Stdin, cfg.Strict)
	if err != nil {
		slog.Error("failed to read token", "error", err)
		return exitUnreadable
	}
	code, status := checkStatus(tok, time.Now(), cfg.Leeway)
	if !*quiet {
		fmt.Println(status)
	}
	return code
}

// checkStatus maps a token to the check command's exit code and label.
func checkStatus(tok jwt.Token, now time.Time, leeway time.Duration) (int, string) {
	if err := tok.Check(); err != nil {
		return exitUnreadable, "unreadable: " + err.Error()
	}
	if tok.ExpiredAt(now.Add(-leeway)) {
		return exitInactive, "expired"
	}
	if nbf, ok := tok.NotBefore(); ok && nbf.After(now.Add(leeway)) {
		return exitInactive, "not yet valid"
	}
	if exp, ok := tok.ExpiresAt(); ok {
		return exitActive, "active, expires " + render.Relative(exp, now)
	}
	return exitActive, "active, no expiry"
}

func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output the account status as JSON")
	fs.Parse(args)

	af, err := auth.ReadAuthFile()
	st := auth.Describe(af, time.Now())
	if *jsonOut {
		data, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(data))
		return 0
	}

	if err != nil || !st.SignedIn {
		fmt.Println("\U0001F464 Account")
		fmt.Println("  • Not signed in")
		fmt.Println("  • Sign in with the Codex CLI, then run: go-jwtinfo info")
		return 0
	}

	email := st.Email
	if email == "" {
		email = "<unknown>"
	}

	fmt.Println("\U0001F464 Account")
	fmt.Println("  • Signed in with ChatGPT")
	fmt.Printf("  • Login: %s\n", email)
	fmt.Printf("  • Plan: %s\n", st.Plan)
	if st.AccountID != "" {
		fmt.Printf("  • Account ID: %s\n", st.AccountID)
	}
	fmt.Println()
	printTokenExpiry(st)
	return 0
}

func printTokenExpiry(st auth.Status) {
	fmt.Println("⏳ Access token")
	if st.ExpiresAt.IsZero() {
		fmt.Println("  • No expiry claim")
		return
	}
	now := time.Now()
	fmt.Printf("  • Expires: %s (%s)\n", render.FormatLocalDateTime(st.ExpiresAt), render.Relative(st.ExpiresAt, now))
	switch {
	case st.Expired:
		fmt.Println("  • Status: expired")
	case st.NeedsRefresh:
		fmt.Println("  • Status: refresh due")
	default:
		fmt.Println("  • Status: active")
	}
}

func cmdToken(args []string) int {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	file := fs.String("f", "", "Path to auth.json (default: search known locations)")
	fs.Parse(args)

	tok, err := auth.NewTokenSource(*file).Token()
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			slog.Error("access token expired; refresh it with the Codex CLI")
		} else {
			slog.Error("no usable access token", "error", err)
		}
		return 1
	}
	fmt.Println(tok.AccessToken)
	return 0
}

func cmdWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	file := fs.String("f", "", "Path to auth.json (default: search known locations)")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	fs.Parse(args)
	setupLogging(*verbose)

	path := auth.WatchTarget(*file)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("watching auth file", "path", path)
	err := auth.Watch(ctx, path, func(st auth.Status, err error) {
		if err != nil {
			slog.Warn("auth file changed but could not be read", "error", err)
			return
		}
		slog.Info("auth file changed",
			"signed_in", st.SignedIn,
			"email", st.Email,
			"expires_at", st.ExpiresAt,
			"expired", st.Expired,
			"needs_refresh", st.NeedsRefresh,
		)
	})
	if err != nil {
		slog.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
