package commands

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/comanda/internal/api"
	"github.com/colonyops/comanda/internal/core/orders"
	"github.com/colonyops/comanda/internal/core/styles"
)

type NewCmd struct {
	flags *Flags

	// form values
	name  string
	email string
	items string
	notes string
}

// NewNewCmd creates a new "new" command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Place a new order",
		UsageText: "comanda new",
		Description: `Walks through an order form and submits it to the restaurant.

Items are entered one per line, optionally with a quantity:

    2x Tacos al pastor
    Horchata

On success the order id is printed along with a 'comanda track' hint.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireTTY(); err != nil {
		return err
	}

	if err := cmd.runForm(); err != nil {
		return err
	}

	items, err := parseItems(cmd.items)
	if err != nil {
		return err
	}

	snapshot, err := cmd.flags.Client.CreateOrder(ctx, api.OrderDraft{
		CustomerName:  strings.TrimSpace(cmd.name),
		CustomerEmail: strings.TrimSpace(cmd.email),
		Items:         items,
		Notes:         strings.TrimSpace(cmd.notes),
	})
	if err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	out := c.Root().Writer
	fmt.Fprintln(out, styles.TextSuccess.Render("Order placed."))
	fmt.Fprintf(out, "  Order: %s\n", snapshot.DisplayNumber())
	fmt.Fprintf(out, "  Track: comanda track %s\n", snapshot.ID)
	return nil
}

func (cmd *NewCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Validate(validateRequired("name")).
				Value(&cmd.name),
			huh.NewInput().
				Title("Email").
				Validate(validateEmail).
				Value(&cmd.email),
			huh.NewText().
				Title("Items").
				Description("One per line, e.g. '2x Tacos al pastor'").
				Validate(validateItems).
				Value(&cmd.items),
			huh.NewText().
				Title("Notes").
				Description("Optional; allergies, delivery instructions, etc.").
				Value(&cmd.notes),
		),
	).WithTheme(styles.FormTheme()).Run()
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validateItems(s string) error {
	_, err := parseItems(s)
	return err
}

// parseItems turns the free-form items text into order items. Each non-empty
// line is one item; a leading "Nx " or trailing " xN" sets the quantity.
func parseItems(text string) ([]orders.Item, error) {
	var items []orders.Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name, qty := line, 1

		if i := strings.IndexAny(line, "xX"); i > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(line[:i])); err == nil && n > 0 {
				qty = n
				name = strings.TrimSpace(line[i+1:])
			}
		}
		if name == line {
			if i := strings.LastIndexAny(line, "xX"); i > 0 && i < len(line)-1 {
				if n, err := strconv.Atoi(strings.TrimSpace(line[i+1:])); err == nil && n > 0 {
					qty = n
					name = strings.TrimSpace(line[:i])
				}
			}
		}

		if name == "" {
			return nil, fmt.Errorf("item line %q has no name", line)
		}
		items = append(items, orders.Item{Name: name, Quantity: qty})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}
	return items, nil
}
