// Command evsearch searches the event calendar and imports events from the command line
package main

import (
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	eventcal "github.com/derWhity/eventcal/internal"
	"github.com/derWhity/eventcal/internal/ctxhelper"
	"github.com/derWhity/eventcal/internal/database"
	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
)

const appVersion = "0.1.0"

// globalFlags are available to all commands
type globalFlags struct {
	Config  string `long:"config" description:"Configuration file (JSON or YAML) to take the data directory and search limits from"`
	DB      string `long:"db" description:"Database file to use instead of the one inside the data directory"`
	Verbose []bool `short:"v" long:"verbose" description:"Show log output (repeat for debug messages)"`
}

// app holds what the commands share
type app struct {
	globals globalFlags
	out     io.Writer
	logger  *logrus.Entry
	conf    models.AppConfig
	// injectable for testing - nil opens the configured database
	db *sqlx.DB
}

func newApp(out io.Writer) *app {
	l := logrus.New()
	l.Out = os.Stderr
	return &app{
		out:    out,
		logger: l.WithField(log.FldVersion, appVersion),
	}
}

// setup configures logging, loads the configuration and opens the database
func (a *app) setup() (context.Context, error) {
	switch len(a.globals.Verbose) {
	case 0:
		a.logger.Logger.SetLevel(logrus.WarnLevel)
	case 1:
		a.logger.Logger.SetLevel(logrus.InfoLevel)
	default:
		a.logger.Logger.SetLevel(logrus.DebugLevel)
	}
	ctx := ctxhelper.WithLogger(context.Background(), a.logger)
	cs := eventcal.NewConfigService(a.globals.Config)
	if a.globals.Config != "" {
		if err := cs.Load(ctx); err != nil {
			return nil, err
		}
	}
	a.conf = cs.GetConfig(ctx)
	if a.db == nil {
		fn := a.globals.DB
		if fn == "" {
			fn = database.PathIn(a.conf.DataDir)
		}
		db, err := database.Open(fn, a.logger)
		if err != nil {
			return nil, err
		}
		a.db = db
	}
	return ctx, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// buildParser constructs the go-flags parser with all commands registered
func buildParser(a *app) *goflags.Parser {
	parser := goflags.NewParser(&a.globals, goflags.Default)
	parser.Name = "evsearch"
	parser.LongDescription = "Searches the event calendar by keywords and imports events from YAML files."
	parser.AddCommand("search", "Search events",
		"Search events whose title, description or URL contains any of the words or which are tagged with one of them.",
		&searchCommand{app: a},
	)
	parser.AddCommand("import", "Import events from a YAML file",
		"Import venues and events from a YAML file. Venues are matched by their title.",
		&importCommand{app: a},
	)
	return parser
}

func run(a *app, args []string) error {
	defer a.close()
	if _, err := buildParser(a).ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

func main() {
	if err := run(newApp(os.Stdout), os.Args[1:]); err != nil {
		if _, ok := err.(*goflags.Error); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
