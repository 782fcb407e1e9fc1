package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-effects/perform/effects/coro"
)

// The pause scenario: coroutines suspend themselves mid-loop and a
// polling loop in main resumes them, interleaving their progress.
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pausable coroutines resumed from a polling loop",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, _, cleanup, err := demoContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		sched := coro.NewScheduler(ctx, 4)

		worker := func(name string, steps int) func(context.Context) error {
			return func(ctx context.Context) error {
				for i := 1; i <= steps; i++ {
					cmd.Printf("%s: step %d/%d\n", name, i, steps)
					if err := coro.Pause(ctx); err != nil {
						return err
					}
				}
				cmd.Printf("%s: done\n", name)
				return nil
			}
		}

		sched.Go(worker("alpha", 3))
		sched.Go(worker("beta", 2))

		done := make(chan error, 1)
		go func() { done <- sched.Wait() }()

		for {
			select {
			case err := <-done:
				return err
			default:
				if sched.StepAll() == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}
	},
}
