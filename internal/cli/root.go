// Package cli implements the vecbench command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hupe1980/vecpress"
	"github.com/hupe1980/vecpress/internal/config"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	verbose    bool
}

// NewRootCmd returns the vecbench root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "vecbench",
		Short: "Compare compression methods on sequences of float vectors",
		Long: `vecbench measures how well correlation-aware codecs compress sequences
of embedding vectors compared with generic byte compressors.

Configuration is read from vecbench.yaml (current directory or ~/.vecbench)
and VECBENCH_* environment variables; flags override both.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default is ./vecbench.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newRunCmd(g),
		newAnalyzeCmd(g),
		newMethodsCmd(),
		newReportCmd(g),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command until completion or SIGINT/SIGTERM.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	if g.configFile != "" {
		return config.Load(g.configFile)
	}

	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".vecbench"))
	}
	return config.Load("", dirs...)
}

// newLogger builds the logger described by cfg. --verbose forces debug.
func (g *globalOptions) newLogger(w io.Writer, cfg config.LogConfig) *vecpress.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if g.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return vecpress.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return vecpress.NewLogger(slog.NewTextHandler(w, opts))
}
