// Package main is the minutes CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/minutes/internal/cli"
	"github.com/hyperjump/minutes/internal/config"
	"github.com/hyperjump/minutes/internal/extract"
	"github.com/hyperjump/minutes/internal/mailer"
	"github.com/hyperjump/minutes/internal/models"
	"github.com/hyperjump/minutes/internal/pipeline"
	"github.com/hyperjump/minutes/internal/prompt"
	"github.com/hyperjump/minutes/internal/server"
	"github.com/hyperjump/minutes/internal/summarizer"
	"github.com/hyperjump/minutes/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/minutes/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing file at the default path is not an error: the config then comes from the
// environment alone. Returns the config and the path that was actually loaded ("" for env only).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.LoadEnv()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "summarize":
		runSummarize()
	case "email":
		runEmail()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("minutes version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLoggerWithFile(debugMode, utils.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("provider", cfg.Summarizer.Provider),
		zap.String("model", cfg.Summarizer.Model),
		zap.String("mail_host", cfg.Mail.Host),
	)

	p, err := initializePipeline(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}

	srv := server.NewServer(p, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// initializePipeline wires the extractor, provider client and relay sender from cfg.
func initializePipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	if cfg.Summarizer.APIKey == "" && cfg.Summarizer.Provider != config.ProviderOpenAICompatible {
		logger.Warn("no summarization API key configured; summarize requests will fail with 401",
			zap.String("provider", cfg.Summarizer.Provider))
	}
	client, err := summarizer.NewFromConfig(ctx, cfg.Summarizer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}
	if cfg.Mail.Username == "" {
		logger.Warn("no mail username configured; the relay must accept unauthenticated mail",
			zap.String("mail_host", cfg.Mail.Host))
	}
	sender, err := mailer.NewSMTPSender(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	return pipeline.New(extract.NewExtractor(), client, sender, mailer.DefaultsFromConfig(cfg.Mail), logger), nil
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "minutes summarize \"notes\" -output json"
// would otherwise leave -output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' && a != "-" {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins all positional args with spaces so multi-word text
// works the same with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// configPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func configPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// serverURLFromConfig derives the default --server value from the config at path.
// On load failure it returns http://localhost:8000.
func serverURLFromConfig(path string) string {
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil {
		return "http://localhost:8000"
	}
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port))
}

// readText returns the contents of path, or of stdin when path is "-".
func readText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func parseOutput(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func printSummarizeUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: minutes summarize [flags] [transcript text | -]\n\n")
	fmt.Fprintf(fs.Output(), "The transcript is all remaining arguments joined by spaces, or stdin when it is \"-\".\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  minutes summarize --file standup.pdf
  minutes summarize --prompt "List the action items" < notes.txt -
  minutes summarize --output json "Team discussed Q3 roadmap."
`)
}

func runSummarize() {
	args := argsReorder(os.Args[2:])
	defaultServer := serverURLFromConfig(configPathFromArgs(args, defaultConfigPath))

	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	_ = fs.String("config", defaultConfigPath, "config file path (used for the default server URL)")
	serverURL := fs.String("server", defaultServer, "server URL")
	file := fs.String("file", "", "transcript file to upload (.txt or .pdf)")
	instruction := fs.String("prompt", prompt.DefaultInstruction, "instruction for the summary")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSummarizeUsage(fs) }
	_ = fs.Parse(args)
	format := parseOutput(*outputFormat)

	req := &models.SummarizeRequest{Instruction: *instruction}
	if *file != "" {
		content, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
			os.Exit(1)
		}
		req.File = &models.Upload{Name: filepath.Base(*file), Content: content}
	} else if fs.NArg() == 1 && fs.Arg(0) == "-" {
		text, err := readText("-", os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		req.Transcript = text
	} else {
		req.Transcript = joinArgs(fs.Args())
	}
	if !req.HasFile() && strings.TrimSpace(req.Transcript) == "" {
		printSummarizeUsage(fs)
		os.Exit(1)
	}

	result, err := cli.NewClient(*serverURL, nil).Summarize(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summarize failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSummary(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runEmail() {
	args := argsReorder(os.Args[2:])
	defaultServer := serverURLFromConfig(configPathFromArgs(args, defaultConfigPath))

	fs := flag.NewFlagSet("email", flag.ExitOnError)
	_ = fs.String("config", defaultConfigPath, "config file path (used for the default server URL)")
	serverURL := fs.String("server", defaultServer, "server URL")
	to := fs.String("to", "", "comma separated recipients")
	subject := fs.String("subject", "", "subject (default: the server's configured subject)")
	message := fs.String("message", "", "message body")
	messageFile := fs.String("message-file", "", "read the message body from a file, or stdin with -")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)
	format := parseOutput(*outputFormat)

	body := *message
	if *messageFile != "" {
		text, err := readText(*messageFile, os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read message: %v\n", err)
			os.Exit(1)
		}
		body = text
	}
	req := &models.EmailRequest{
		Recipients: models.ParseRecipients(*to),
		Subject:    *subject,
		Message:    body,
	}
	if err := req.Validate(); err != nil {
		fmt.Println("Usage: minutes email --to a@example.com,b@example.com [--subject s] (--message m | --message-file f)")
		os.Exit(1)
	}

	result, err := cli.NewClient(*serverURL, nil).SendEmail(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Send failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteEmailResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "where to write the starter config")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeStarterConfig(*path, *force); err != nil {
		fmt.Printf("Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *path)
	fmt.Println("Set GEMINI_API_KEY (or summarizer.api_key), EMAIL_USER and EMAIL_PASS before starting the server.")
}

// writeStarterConfig writes the default config to path. Secrets are left empty so they can
// come from the environment.
func writeStarterConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return config.Save(path, cfg)
}

func printUsage() {
	fmt.Println(`minutes - Meeting transcript summarizer

Usage:
  minutes server [flags]              Start the HTTP server
  minutes summarize [flags] [text]    Summarize a transcript through a running server
  minutes email [flags]               Email a summary through a running server
  minutes init [flags]                Write a starter config file
  minutes version                     Show version
  minutes help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/minutes/config.yaml)
  --debug            Enable debug logging

Summarize Flags:
  --server string    Server URL (default from config, or http://localhost:8000)
  --file string      Upload a .txt or .pdf file instead of transcript text
  --prompt string    Instruction for the summary
  --output string    Output format: text or json (default: text)

Email Flags:
  --server string        Server URL (default from config, or http://localhost:8000)
  --to string            Comma separated recipients
  --subject string       Subject (default: Meeting Summary)
  --message string       Message body
  --message-file string  Read the message body from a file, or stdin with -
  --output string        Output format: text or json (default: text)

Init Flags:
  --config string    Path to write (default: config.yaml)
  --force            Overwrite an existing file

Environment:
  PORT, MINUTES_PORT                          Listen port (default 8000)
  SUMMARIZER_PROVIDER                         gemini, openai, anthropic or openai-compatible
  GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, SUMMARIZER_API_KEY
  EMAIL_USER, EMAIL_PASS, SMTP_HOST, SMTP_PORT, SMTP_TLS

Examples:
  minutes server
  minutes summarize --file standup.pdf
  minutes summarize --prompt "List the action items" "Alice will ship the beta on Friday."
  minutes summarize --file notes.txt | minutes email --to team@example.com --message-file -`)
}
