package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/comanda/internal/core/notify"
	"github.com/colonyops/comanda/internal/tui/kitchen"
)

type KitchenCmd struct {
	flags *Flags

	// flags
	filter string
}

// NewKitchenCmd creates a new kitchen command
func NewKitchenCmd(flags *Flags) *KitchenCmd {
	return &KitchenCmd{flags: flags}
}

// Register adds the kitchen command to the application
func (cmd *KitchenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "kitchen",
		Usage:     "Open the live kitchen board",
		UsageText: "comanda kitchen [--filter received|preparing|ready]",
		Description: `Shows the kitchen's order queue. New orders announce themselves as they
arrive; 's' starts preparing the selected order and 'm' marks it ready.

The board also refreshes on an interval as a fallback for missed events.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "initial queue filter (all, received, preparing, ready)",
				Destination: &cmd.filter,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *KitchenCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireTTY(); err != nil {
		return err
	}

	filter, err := kitchen.ParseFilter(cmd.filter)
	if err != nil {
		return err
	}

	channel := notify.New(
		cmd.flags.Config.Notifications.StreamURL,
		notify.WithLogger(log.With().Str("component", "notify").Logger()),
	)

	m := kitchen.New(cmd.flags.Client, channel, filter, cmd.flags.Config.Kitchen.RefreshInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run kitchen board: %w", err)
	}
	return nil
}
