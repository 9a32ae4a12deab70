package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmacleod/sitrep/config"
	"github.com/kmacleod/sitrep/intel"
	"github.com/kmacleod/sitrep/ipc"
	"github.com/kmacleod/sitrep/rules"
	"github.com/kmacleod/sitrep/skills"
)

const banner = `
███████╗██╗████████╗██████╗ ███████╗██████╗
██╔════╝██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗
███████╗██║   ██║   ██████╔╝█████╗  ██████╔╝
╚════██║██║   ██║   ██╔══██╗██╔══╝  ██╔═══╝
███████║██║   ██║   ██║  ██║███████╗██║
╚══════╝╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝

Doctrine-Driven RTS Intelligence`

type flags struct {
	configPath string
	host       string
	port       int
	doctrine   string
	interval   time.Duration
	logLevel   string
	debugIntel bool
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:          "sitrep",
		Short:        "Battlefield intel aggregator and rules commander for OpenRA Red Alert",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, f.debugIntel)
		},
	}

	root.Flags().StringVar(&f.configPath, "config", "", "config file (default searches ./sitrep.yaml)")
	root.Flags().StringVar(&f.host, "host", "127.0.0.1", "query server host")
	root.Flags().IntVar(&f.port, "port", 7445, "query server port")
	root.Flags().StringVar(&f.doctrine, "doctrine", "", "doctrine YAML file (default built-in)")
	root.Flags().DurationVar(&f.interval, "interval", time.Second, "poll interval")
	root.Flags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.Flags().BoolVar(&f.debugIntel, "debug-intel", false, "print the debug intel view each tick instead of acting")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags layers explicitly-set flags over the file/env config.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("doctrine") {
		cfg.Doctrine = f.doctrine
	}
	if cmd.Flags().Changed("interval") {
		cfg.PollInterval = f.interval
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

func run(cfg *config.Config, debugIntel bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)
	slog.Info("starting sitrep", "addr", cfg.Addr(), "interval", cfg.PollInterval, "language", cfg.Language)

	client, err := ipc.Dial(cfg.Addr())
	if err != nil {
		return err
	}
	defer client.Close()

	service := intel.NewService(client, cfg.TTLs())
	layer := intel.NewLayer(service)
	kit := skills.NewKit(client, service, logger)

	doctrine := rules.DefaultDoctrine()
	if cfg.Doctrine != "" {
		doctrine, err = rules.LoadDoctrine(cfg.Doctrine)
		if err != nil {
			return err
		}
	}
	engine, err := rules.NewEngine(doctrine.Rules, kit, logger)
	if err != nil {
		return err
	}
	slog.Info("doctrine loaded", "name", doctrine.Name, "rules", len(doctrine.Rules))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case <-ticker.C:
			if debugIntel {
				printDebug(layer)
				continue
			}
			engine.Evaluate(layer.Brief(false))
		}
	}
}

func printDebug(layer *intel.Layer) {
	out, err := json.MarshalIndent(layer.Debug(false), "", "  ")
	if err != nil {
		slog.Error("marshal debug intel", "error", err)
		return
	}
	fmt.Println(string(out))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
