package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/lexlapax/autoobj/pkg/auto"
	"github.com/lexlapax/autoobj/pkg/config"
	"github.com/lexlapax/autoobj/pkg/log"
	"github.com/lexlapax/autoobj/pkg/scripting"
)

func main() {
	// Parse command-line flags
	configPath := pflag.String("config", "", "Path to configuration file")
	envFiles := pflag.StringSlice("env-file", nil, "Env files to load before reading configuration (default .env)")
	stdinMode := pflag.BoolP("stdin", "s", false, "Read from stdin and exit when complete")
	pflag.Parse()

	if err := config.LoadEnvFiles(*envFiles...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	logger := log.Setup(cfg.Logging)
	log.Info("Starting autoobj REPL", "module", cfg.Scripting.Module, "sandbox", cfg.Scripting.SandboxEnabled())

	sess, err := newSession(cfg, logger)
	if err != nil {
		log.Error("Failed to initialize scripting engine", "error", err)
		os.Exit(1)
	}
	defer sess.Close()

	for _, path := range pflag.Args() {
		if err := sess.engine.LoadScriptFile(path); err != nil {
			log.Error("Failed to load script", "path", path, "error", auto.ErrorFrom(err))
			os.Exit(1)
		}
	}

	if *stdinMode {
		sess.runStdin(os.Stdin)
		return
	}
	sess.runInteractive()
}

// newSession builds the environment and engine described by cfg and loads
// every configured script directory that exists.
func newSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	env := auto.NewEnvironment(
		auto.WithSink(cfg.Warnings.WarningSink(log.WithComponent(logger, "warnings"), os.Stderr)),
		auto.WithLogger(log.WithComponent(logger, "auto")),
	)

	engine, err := scripting.NewLuaEngine(
		cfg.Scripting.EngineConfig(),
		scripting.WithModule(cfg.Scripting.Module, env.Loader),
	)
	if err != nil {
		return nil, err
	}

	for _, dir := range cfg.Scripting.Paths {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			log.Debug("Skipping missing script directory", "dir", dir)
			continue
		}
		if err := engine.LoadScriptDir(dir); err != nil {
			engine.Close()
			return nil, fmt.Errorf("loading %s: %w", dir, auto.ErrorFrom(err))
		}
	}

	return &session{env: env, engine: engine, out: os.Stdout}, nil
}
