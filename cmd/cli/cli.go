package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/joefazee/findcountry/app/countries"
	"github.com/joefazee/findcountry/models"
)

// browser is what the commands drive: the list state and the detail service.
type browser struct {
	state   countries.ListController
	service countries.Service
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(b *browser) *cli.App {
	app := &cli.App{
		Name:    "findcountry",
		Usage:   "Browse countries from restcountries",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(b),
			detailCmd(b),
			savedCmd(b),
			forgetCmd(b),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// listCmd fetches every country and prints the filtered, sorted view.
func listCmd(b *browser) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Fetch all countries and print the visible list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Filter by name or capital"},
			&cli.IntFlag{Name: "sort", Aliases: []string{"s"}, Value: int(countries.SortAreaAsc),
				Usage: "0 area asc, 1 area desc, 2 population asc, 3 population desc, 4 name, 5 favorites"},
			&cli.StringSliceFlag{Name: "favorite", Aliases: []string{"f"}, Usage: "Mark a country key as favorite (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			all, err := b.state.Refresh(ctx)
			if err != nil {
				return outputError(err)
			}
			names := make(map[string]string, len(all.View))
			for _, rec := range all.View {
				names[rec.Key()] = rec.Name()
			}

			for _, key := range c.StringSlice("favorite") {
				added, _, err := b.state.ToggleFavorite(ctx, key)
				if err != nil {
					return outputError(err)
				}
				name, known := names[key]
				if !added || !known {
					continue
				}
				// The process may exit before an async save would finish.
				if err := b.service.SaveFavoriteDetail(ctx, name); err != nil {
					fmt.Fprintf(c.App.ErrWriter, "could not store %s: %v\n", key, err)
				}
			}

			if _, err := b.state.SetSortOption(ctx, countries.SortOption(c.Int("sort"))); err != nil {
				return outputError(err)
			}
			snap, err := b.state.SetQuery(ctx, c.String("query"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c, countries.ToCountryListResponse(snap))
		},
	}
}

// detailCmd prints the detail of one country, storing it locally.
func detailCmd(b *browser) *cli.Command {
	return &cli.Command{
		Name:      "detail",
		Usage:     "Fetch and store the detail of a country",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(models.ErrInvalidCountryName)
			}
			detail, err := b.service.GetCountryDetail(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, detail)
		},
	}
}

// savedCmd prints one stored country, or all of them without an argument.
func savedCmd(b *browser) *cli.Command {
	return &cli.Command{
		Name:      "saved",
		Usage:     "Print stored country details",
		ArgsUsage: "[NAME]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				info, err := b.service.GetSavedCountry(c.Context, c.Args().First())
				if err != nil {
					return outputError(err)
				}
				return outputJSON(c, info)
			}

			infos, err := b.service.ListSavedCountries(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, infos)
		},
	}
}

// forgetCmd removes a stored country.
func forgetCmd(b *browser) *cli.Command {
	return &cli.Command{
		Name:      "forget",
		Usage:     "Delete a stored country detail",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(models.ErrInvalidCountryName)
			}
			if err := b.service.DeleteSavedCountry(c.Context, c.Args().First()); err != nil {
				return outputError(err)
			}
			return outputJSON(c, map[string]string{"deleted": c.Args().First()})
		},
	}
}

// outputJSON writes v as indented JSON to the app's writer.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode is the process status for an error returned by the app: the
// code carried by a cli.Exit error, 1 for anything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// outputError maps domain errors to exit codes.
func outputError(err error) error {
	switch {
	case errors.Is(err, models.ErrRecordNotFound), errors.Is(err, models.ErrCountryNotFound):
		return cli.Exit(err.Error(), 2)
	case errors.Is(err, models.ErrPermissionDenied):
		return cli.Exit(err.Error(), 3)
	case errors.Is(err, models.ErrNetwork):
		return cli.Exit(err.Error(), 4)
	default:
		return cli.Exit(err.Error(), 1)
	}
}
