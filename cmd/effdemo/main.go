// Command effdemo runs small scenarios exercising the effect runtime:
// a counter handled through the state effect, scoped event handling with
// a non-resuming branch, pausable coroutines driven by a polling loop,
// and deferred request resumptions resolved from another goroutine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-effects/perform/config"
	"github.com/go-effects/perform/effects/binding"
	"github.com/go-effects/perform/effects/log"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "effdemo",
	Short: "Demonstrations of the perform effect runtime",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(counterCmd, eventsCmd, pauseCmd, requestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoContext builds the ambient scopes every demo runs under: a zap log
// frame and, when configured, a binding frame holding the config file's
// bindings. The returned cleanup pops the frames in reverse order.
func demoContext(cmd *cobra.Command) (context.Context, *config.Config, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg = loaded
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, endOfLog := log.WithZapHandler(ctx, 16, logger)
	ctx, endOfBinding := binding.WithHandler(ctx, cfg.ScopeConfig("effects.binding"), cfg.Bindings)

	cleanup := func() {
		endOfBinding()
		endOfLog()
	}
	return ctx, cfg, cleanup, nil
}
