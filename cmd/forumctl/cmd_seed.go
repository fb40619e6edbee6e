package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	listingusecase "studentForum/internal/modules/listings/application/usecase"
	listinginfra "studentForum/internal/modules/listings/infrastructure"
	"studentForum/internal/platform/store"
)

type SeedCmd struct {
	flags *Flags
	file  string
}

func NewSeedCmd(flags *Flags) *SeedCmd {
	return &SeedCmd{flags: flags}
}

func (cmd *SeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "seed",
		Usage:       "Import opportunities and scholarships from a YAML file",
		UsageText:   "forumctl seed --file listings.yaml",
		Description: "Entries already present (same kind, title and organization) are skipped.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to the listings YAML file",
				Required:    true,
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SeedCmd) run(ctx context.Context, c *cli.Command) error {
	file, err := listinginfra.LoadSeedFile(cmd.file)
	if err != nil {
		return err
	}
	db, err := store.Open(ctx, cmd.flags.Config.Store.Options())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	listings := file.Listings()
	inserted, err := listingusecase.NewListingService(db).Import(ctx, listings)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "imported %d of %d listings\n", inserted, len(listings))
	return nil
}
