package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/effects/log"
	"github.com/go-effects/perform/effects/state"
)

// The counter scenario: business logic adds to a counter and reads it
// back without knowing where the count lives. The add handler is itself
// effectful — it keeps the count in the enclosing state frame.
var (
	sigAdd      = effects.NewSignature[int, int]("demo.counter.add")
	sigSeeCount = effects.NewSignature[effects.Unit, int]("demo.counter.see_count")
	sigComplete = effects.NewSignature[string, effects.Unit]("demo.counter.complete")
)

const counterKey = "count"

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Counter handled through nested state and counter frames",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cfg, cleanup, err := demoContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		// State frame first, counter frames on top: the counter
		// handlers run under the context captured at registration,
		// so their state performs resolve to this frame.
		ctx, endOfState := state.WithHandler(ctx, cfg.ScopeConfig("effects.state"), false, map[string]int{counterKey: 0})
		defer endOfState()

		ctx, endOfAdd := effects.WithHandler(ctx, sigAdd, 1, handleAdd)
		defer endOfAdd()

		ctx, endOfSee := effects.WithHandler(ctx, sigSeeCount, 1, handleSeeCount)
		defer endOfSee()

		ctx, endOfComplete := effects.WithFireAndForgetHandler(ctx, sigComplete, 1, func(ctx context.Context, msg string) {
			log.Effect(ctx, log.LevelInfo, "counter completed", map[string]interface{}{"message": msg})
		})
		defer endOfComplete()

		return runCounter(ctx, cmd)
	},
}

// runCounter is the pure-looking business logic: it performs effects and
// never touches the store directly.
func runCounter(ctx context.Context, cmd *cobra.Command) error {
	for _, n := range []int{1, 2, 4} {
		total, err := effects.Perform(ctx, sigAdd, n)
		if err != nil {
			return err
		}
		cmd.Printf("added %d, count is now %d\n", n, total)
	}

	count, err := effects.Perform(ctx, sigSeeCount, effects.Unit{})
	if err != nil {
		return err
	}
	cmd.Printf("final count: %d\n", count)

	return effects.FireAndForget(ctx, sigComplete, fmt.Sprintf("reached %d", count))
}

func handleAdd(ctx context.Context, n int) (int, error) {
	cur, err := state.EffectLoad[string, int](ctx, counterKey)
	if err != nil {
		return 0, err
	}
	next := cur + n
	if err := state.EffectStore(ctx, counterKey, next); err != nil {
		return 0, err
	}
	return next, nil
}

func handleSeeCount(ctx context.Context, _ effects.Unit) (int, error) {
	return state.EffectLoad[string, int](ctx, counterKey)
}
