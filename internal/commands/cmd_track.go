package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/comanda/internal/core/notify"
	"github.com/colonyops/comanda/internal/tui/orderstatus"
)

type TrackCmd struct {
	flags *Flags
}

// NewTrackCmd creates a new track command
func NewTrackCmd(flags *Flags) *TrackCmd {
	return &TrackCmd{flags: flags}
}

// Register adds the track command to the application
func (cmd *TrackCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "track",
		Usage:     "Follow a single order's status in real time",
		UsageText: "comanda track <order-id>",
		Description: `Opens the order status view for one order. Status changes arrive over
the restaurant's notification stream; the view also supports cancelling
a pending order and leaving a review once it's ready.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *TrackCmd) run(ctx context.Context, c *cli.Command) error {
	orderRef := c.Args().First()
	if orderRef == "" {
		return fmt.Errorf("usage: comanda track <order-id>")
	}
	if err := requireTTY(); err != nil {
		return err
	}

	channel := notify.New(
		cmd.flags.Config.Notifications.StreamURL,
		notify.WithLogger(log.With().Str("component", "notify").Logger()),
	)

	m := orderstatus.New(cmd.flags.Client, channel, orderRef)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run order view: %w", err)
	}
	return nil
}
