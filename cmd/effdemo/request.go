package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-effects/perform/effects"
	"github.com/go-effects/perform/effects/spawn"
)

// The request scenario: the handler never resumes inline. It parks each
// resumption on a queue, and a resolver goroutine answers them later,
// outside the handler's original dynamic extent.
var sigRequest = effects.NewSignature[string, string]("demo.request.fetch")

type pendingRequest struct {
	url string
	r   *effects.Resumption[string]
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Deferred resumptions resolved from a resolver goroutine",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, _, cleanup, err := demoContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		pending := make(chan pendingRequest, 8)

		ctx, endOfSpawn := spawn.WithHandler(ctx, 4)
		defer endOfSpawn()

		ctx, endOfRequests := effects.WithDeferredHandler(ctx, sigRequest, 4,
			func(_ context.Context, url string, r *effects.Resumption[string]) {
				pending <- pendingRequest{url: url, r: r}
			},
			func() { close(pending) },
		)
		defer endOfRequests()

		// Resolver lives on the spawn scope: the scope join guarantees
		// it has exited before the frames above are popped.
		if err := spawn.Effect(ctx, func(ctx context.Context) {
			for {
				select {
				case req, ok := <-pending:
					if !ok {
						return
					}
					time.Sleep(10 * time.Millisecond) // pretend to fetch
					_ = req.r.Resume("payload of " + req.url)
				case <-ctx.Done():
					return
				}
			}
		}); err != nil {
			return err
		}

		for _, url := range []string{"https://a.example", "https://b.example", "https://c.example"} {
			body, err := effects.Perform(ctx, sigRequest, url)
			if err != nil {
				return err
			}
			cmd.Printf("%s -> %q\n", url, body)
		}
		return nil
	},
}
