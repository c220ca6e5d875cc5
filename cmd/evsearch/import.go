package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/derWhity/eventcal/internal/importer"
	eventrepo "github.com/derWhity/eventcal/internal/repos/event/sqlite"
	venuerepo "github.com/derWhity/eventcal/internal/repos/venue/sqlite"
	"github.com/derWhity/eventcal/internal/search"
)

// importCommand imports venues and events from a YAML file
type importCommand struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"YAML file to import" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

// Execute implements the go-flags Commander interface
func (c *importCommand) Execute(_ []string) error {
	ctx, err := c.app.setup()
	if err != nil {
		return err
	}
	f, err := os.Open(c.Args.File)
	if err != nil {
		return errors.Wrap(err, "import: Cannot open import file")
	}
	defer f.Close()
	events := eventrepo.New(c.app.db, search.Builder{}, c.app.logger)
	venues := venuerepo.New(c.app.db, c.app.logger)
	res, err := importer.Import(ctx, f, events, venues, c.app.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.app.out, "Imported %d events with %d tags, created %d venues\n", res.Events, res.Tags, res.Venues)
	return nil
}
