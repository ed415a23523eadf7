package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/comanda/internal/api"
)

type ReviewsCmd struct {
	flags *Flags

	// flags
	page  int
	limit int
	raw   bool
}

// NewReviewsCmd creates a new reviews command
func NewReviewsCmd(flags *Flags) *ReviewsCmd {
	return &ReviewsCmd{flags: flags}
}

// Register adds the reviews command to the application
func (cmd *ReviewsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reviews",
		Usage:     "Browse published customer reviews",
		UsageText: "comanda reviews [--page N] [--limit N]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "page",
				Usage:       "page to fetch",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "reviews per page",
				Value:       10,
				Destination: &cmd.limit,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print plain markdown without terminal rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewsCmd) run(ctx context.Context, c *cli.Command) error {
	page, err := cmd.flags.Client.PublicReviews(ctx, cmd.page, cmd.limit)
	if err != nil {
		return fmt.Errorf("fetch reviews: %w", err)
	}

	out := c.Root().Writer

	if len(page.Reviews) == 0 {
		fmt.Fprintln(out, "No reviews yet.")
		return nil
	}

	md := reviewsMarkdown(page, cmd.page)
	if cmd.raw {
		fmt.Fprintln(out, md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Fprintln(out, md)
		return nil
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		fmt.Fprintln(out, md)
		return nil
	}
	fmt.Fprint(out, rendered)

	if page.HasMore {
		fmt.Fprintf(out, "More available: comanda reviews --page %d\n", cmd.page+1)
	}
	return nil
}

func reviewsMarkdown(page api.ReviewPage, pageNum int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reviews (page %d, %d total)\n\n", pageNum, page.Total)

	for _, r := range page.Reviews {
		name := r.CustomerName
		if name == "" {
			name = "Anonymous"
		}
		fmt.Fprintf(&b, "## %s %s\n\n", stars(r.OverallRating), name)
		fmt.Fprintf(&b, "Food: %s", stars(r.FoodRating))
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " · %s", r.CreatedAt.Format("Jan 2, 2006"))
		}
		b.WriteString("\n\n")
		if r.Comment != "" {
			fmt.Fprintf(&b, "> %s\n\n", r.Comment)
		}
	}
	return b.String()
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
