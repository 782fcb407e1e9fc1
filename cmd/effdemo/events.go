package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/go-effects/perform/effects"
)

// The events scenario: a handler inspects each event and chooses per
// event whether to resume the computation with an acknowledgement or to
// abandon it, ending the computation at the perform site.
type event struct {
	Kind   string
	Detail string
}

var sigEvent = effects.NewSignature[event, string]("demo.events.emit")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Scoped event handling with a non-resuming branch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, _, cleanup, err := demoContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, endOfEvents := effects.WithDeferredHandler(ctx, sigEvent, 4,
			func(_ context.Context, ev event, r *effects.Resumption[string]) {
				switch ev.Kind {
				case "fatal":
					cmd.Printf("handler: abandoning after fatal event %q\n", ev.Detail)
					_ = r.Abandon()
				default:
					_ = r.Resume("ack:" + ev.Detail)
				}
			})
		defer endOfEvents()

		emit := func(ev event) error {
			ack, err := effects.Perform(ctx, sigEvent, ev)
			if err != nil {
				return err
			}
			cmd.Printf("resumed with %q\n", ack)
			return nil
		}

		if err := emit(event{Kind: "progress", Detail: "step-1"}); err != nil {
			return err
		}
		if err := emit(event{Kind: "progress", Detail: "step-2"}); err != nil {
			return err
		}

		err = emit(event{Kind: "fatal", Detail: "disk gone"})
		if errors.Is(err, effects.ErrAbandoned) {
			cmd.Println("computation abandoned, as requested by the handler")
			return nil
		}
		return err
	},
}
