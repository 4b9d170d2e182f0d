// Command lumino is a command-line client for the Lumino fine-tuning API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	sdk "github.com/luminolabs/lumino/sdk/go"
	"github.com/luminolabs/lumino/sdk/go/internal/config"
)

const usageText = `usage: lumino [-config path] [-env-file path] [-output json|yaml] [-debug] <group> <command> [flags] [args]

groups:
  user         me | update | settings
  api-keys     list | get | create | update | revoke
  datasets     list | get | upload | download | update | delete
  fine-tuning  list | get | create | cancel | delete | metrics | logs
  models       base | base-get | fine-tuned | fine-tuned-get | fine-tuned-delete | performance | compare
  usage        total-cost | records
  billing      credit-history | credits-add | credits-deduct
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// usageError marks bad invocations, which exit with status 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lumino", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }
	configPath := fs.String("config", "", "YAML config file (default ~/.lumino/config.yaml)")
	envFile := fs.String("env-file", "", "dotenv file (default .env)")
	output := fs.String("output", "", "output format: json or yaml")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(config.Options{
		ConfigPath:    *configPath,
		RequireConfig: *configPath != "",
		EnvFile:       *envFile,
	})
	if err != nil {
		fmt.Fprintf(stderr, "lumino: %v\n", err)
		return 1
	}
	if *output != "" {
		cfg.Output = *output
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "lumino: %v\n", err)
			return 2
		}
	}
	if *debug {
		cfg.Debug = true
	}

	logger := newLogger(stderr, cfg.Debug)
	defer func() { _ = logger.Sync() }()

	cmd, err := lookup(rest[0], rest[1])
	if err != nil {
		fmt.Fprintf(stderr, "lumino: %v\n", err)
		fs.Usage()
		return 2
	}

	var result any
	err = sdk.WithSession(ctx, sdk.Config{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Logger:    logger,
		UserAgent: "lumino-cli/" + sdk.Version,
	}, func(ctx context.Context, client *sdk.Client) error {
		var cmdErr error
		result, cmdErr = cmd(ctx, client, rest[2:])
		return cmdErr
	})
	if err != nil {
		fmt.Fprintf(stderr, "lumino: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			return 2
		}
		return 1
	}
	if result == nil {
		return 0
	}
	if err := printResult(stdout, cfg.Output, result); err != nil {
		fmt.Fprintf(stderr, "lumino: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds a console logger on w. Levels are colored when w is a terminal.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zap.WarnLevel
	if debug {
		level = zap.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}
