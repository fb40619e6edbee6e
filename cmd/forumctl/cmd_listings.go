package main

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"studentForum/internal/modules/listings/application/usecase"
	"studentForum/internal/modules/listings/domain"
	"studentForum/internal/platform/store"
)

type ListingsCmd struct {
	flags    *Flags
	kind     string
	category string
	search   string
}

func NewListingsCmd(flags *Flags) *ListingsCmd {
	return &ListingsCmd{flags: flags}
}

func (cmd *ListingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "listings",
		Usage:     "Print stored opportunities or scholarships as a table",
		UsageText: "forumctl listings --kind scholarships [--category c] [--search text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "opportunities or scholarships",
				Value:       "opportunities",
				Destination: &cmd.kind,
			},
			&cli.StringFlag{
				Name:        "category",
				Usage:       "only listings in this category",
				Destination: &cmd.category,
			},
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"s"},
				Usage:       "free text matched against title, description and organization",
				Destination: &cmd.search,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ListingsCmd) run(ctx context.Context, c *cli.Command) error {
	kind, err := domain.ParseKind(cmd.kind)
	if err != nil {
		return fmt.Errorf("%w: %q", err, cmd.kind)
	}
	db, err := store.Open(ctx, cmd.flags.Config.Store.Options())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	items, err := usecase.NewListingService(db).List(ctx, kind, cmd.category, cmd.search)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.Root().Writer)
	table.SetHeader([]string{"ID", "Title", "Organization", "Category", "Deadline", "Posted by"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, l := range items {
		id := l.ID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append([]string{id, l.Title, l.Organization, l.Category, l.Deadline, l.PostedBy})
	}
	table.Render()
	return nil
}
