package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/derWhity/eventcal/internal/models"
	eventrepo "github.com/derWhity/eventcal/internal/repos/event/sqlite"
	"github.com/derWhity/eventcal/internal/search"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Margin(0, 0, 1, 0)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			PaddingLeft(2)
)

// searchCommand searches events by keywords
type searchCommand struct {
	Order   string `long:"order" description:"Order of the results: date, name, title, venue or location" default:"date"`
	Limit   int    `long:"limit" description:"Maximum number of results (0 uses the configured default)"`
	SkipOld bool   `long:"skip-old" description:"Ignore events that started before yesterday"`
	JSON    bool   `long:"json" description:"Print the events as JSON"`
	Args    struct {
		Words []string `positional-arg-name:"WORDS" description:"Keywords - an event matches if it matches any of them"`
	} `positional-args:"yes"`

	app *app
}

// Execute implements the go-flags Commander interface
func (c *searchCommand) Execute(args []string) error {
	ctx, err := c.app.setup()
	if err != nil {
		return err
	}
	builder := search.Builder{
		DefaultLimit: c.app.conf.Search.DefaultLimit,
		MaxLimit:     c.app.conf.Search.MaxLimit,
	}
	query := strings.Join(append(c.Args.Words, args...), " ")
	opts := models.SearchOptions{
		Order:   models.ParseSortOrder(c.Order),
		Limit:   c.Limit,
		SkipOld: c.SkipOld,
	}
	list, err := eventrepo.New(c.app.db, builder, c.app.logger).Search(ctx, query, opts)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(c.app.out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	c.printHuman(query, list)
	return nil
}

func (c *searchCommand) printHuman(query string, list []models.Event) {
	word := "events"
	if len(list) == 1 {
		word = "event"
	}
	summary := fmt.Sprintf("Found %d %s", len(list), word)
	if query != "" {
		summary += fmt.Sprintf(" for %q", query)
	}
	fmt.Fprintln(c.app.out, summaryStyle.Render(summary))
	for _, ev := range list {
		fmt.Fprintln(c.app.out, titleStyle.Render(ev.Title))
		meta := ev.StartTime.Local().Format("2006-01-02 15:04")
		if ev.Venue != nil {
			meta += " @ " + ev.Venue.Title
		}
		fmt.Fprintln(c.app.out, metaStyle.Render(meta))
		if len(ev.Tags) > 0 {
			fmt.Fprintln(c.app.out, metaStyle.Render("tags: "+strings.Join(ev.Tags, ", ")))
		}
		if ev.URL != "" {
			fmt.Fprintln(c.app.out, metaStyle.Render(ev.URL))
		}
	}
}
