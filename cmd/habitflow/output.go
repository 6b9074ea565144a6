package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/export"
	"github.com/arthur-debert/habitflow/habitflow/imports"
	"github.com/arthur-debert/habitflow/habitflow/search"
	"github.com/arthur-debert/habitflow/habitflow/stats"
	"github.com/arthur-debert/habitflow/types"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"gopkg.in/yaml.v3"
)

const trendBarWidth = 20

// printer renders command results in the configured format
type printer struct {
	w      io.Writer
	format string
	styles styles
}

func (cli *ViperCLI) newPrinter(w io.Writer) (*printer, error) {
	format := strings.ToLower(cli.viperInst.GetString("format"))
	switch format {
	case "", "table":
		format = "table"
	case "json", "yaml":
	default:
		return nil, NewUsageError("format output", fmt.Sprintf("unknown format %q", format),
			"Use --format table, json or yaml")
	}
	return &printer{
		w:      w,
		format: format,
		styles: newStyles(w, cli.viperInst.GetBool("no-color")),
	}, nil
}

// structured writes v as JSON or YAML and reports whether it did
func (p *printer) structured(v interface{}) (bool, error) {
	switch p.format {
	case "json":
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		return true, encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, err
		}
		return true, encoder.Close()
	}
	return false, nil
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) habit(h types.Habit, now time.Time) error {
	if ok, err := p.structured(h); ok {
		return err
	}
	p.printf("%s %s %s\n", p.styles.swatch(h.Color), p.styles.header.Render(h.Name), p.styles.dim.Render(string(h.ID)))
	if h.Description != "" {
		p.printf("  %s\n", h.Description)
	}
	p.printf("  %s, %d days a week, created %s\n", h.Category, h.TargetDays, humanize.RelTime(h.CreatedAt, now, "ago", "from now"))
	return nil
}

func (p *printer) habits(habits []types.Habit, now time.Time) error {
	if ok, err := p.structured(habits); ok {
		return err
	}
	if len(habits) == 0 {
		p.printf("No habits yet. Add one with 'habitflow add <name>'.\n")
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTARGET\tCREATED")
	for _, h := range habits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/wk\t%s\n",
			h.ID, h.Name, h.Category, h.TargetDays,
			humanize.RelTime(h.CreatedAt, now, "ago", "from now"))
	}
	return tw.Flush()
}

func (p *printer) toggled(h types.Habit, date types.Date, done bool) error {
	result := struct {
		ID        types.HabitID `json:"id" yaml:"id"`
		Name      string        `json:"name" yaml:"name"`
		Date      types.Date    `json:"date" yaml:"date"`
		Completed bool          `json:"completed" yaml:"completed"`
	}{h.ID, h.Name, date, done}
	if ok, err := p.structured(result); ok {
		return err
	}

	state := "not completed"
	if done {
		state = "completed"
	}
	p.printf("%s %s %s on %s\n", p.styles.check(done), h.Name, state, date)
	return nil
}

// today renders the dashboard view for a single day
func (p *printer) today(s stats.Summary) error {
	view := struct {
		Date       types.Date           `json:"date" yaml:"date"`
		Progress   stats.DayProgress    `json:"progress" yaml:"progress"`
		BestStreak int                  `json:"bestStreak" yaml:"bestStreak"`
		Habits     []stats.HabitSummary `json:"habits" yaml:"habits"`
	}{s.AsOf, s.Today, s.BestStreak, s.Habits}
	if ok, err := p.structured(view); ok {
		return err
	}

	day := time.Date(s.AsOf.Year, s.AsOf.Month, s.AsOf.Day, 0, 0, 0, 0, time.UTC)
	p.printf("%s\n\n", p.styles.title.Render("Today: "+day.Format("Monday, January 2, 2006")))
	if len(s.Habits) == 0 {
		p.printf("No habits yet. Add one with 'habitflow add <name>'.\n")
		return nil
	}

	rows := make([][]string, 0, len(s.Habits))
	for _, h := range s.Habits {
		rows = append(rows, []string{
			p.styles.check(h.CompletedToday),
			h.Habit.Name,
			p.styles.dim.Render(string(h.Habit.ID)),
			fmt.Sprintf("streak %d", h.Streak),
			p.styles.dim.Render(fmt.Sprintf("%d/%d this week", h.Weekly.CompletedCount, h.Habit.TargetDays)),
		})
	}
	for _, line := range columns(rows, 2) {
		p.printf("%s\n", line)
	}

	p.printf("\n%d of %d done (%d%%), best streak %d %s\n",
		s.Today.Completed, s.Today.Total, s.Today.Percentage,
		s.BestStreak, english.PluralWord(s.BestStreak, "day", ""))
	return nil
}

func (p *printer) summary(s stats.Summary) error {
	if ok, err := p.structured(s); ok {
		return err
	}

	p.printf("%s\n\n", p.styles.title.Render(fmt.Sprintf("Statistics as of %s", s.AsOf)))

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Habits\t%d\n", s.TotalHabits)
	fmt.Fprintf(tw, "Best streak\t%d\n", s.BestStreak)
	fmt.Fprintf(tw, "Total completions\t%s\n", humanize.Comma(int64(s.TotalCompletions)))
	fmt.Fprintf(tw, "Average weekly rate\t%d%%\n", s.AverageWeeklyRate)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Habits) > 0 {
		p.printf("\n")
		tw = tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTREAK\tTHIS WEEK\tTOTAL")
		for _, h := range s.Habits {
			fmt.Fprintf(tw, "%s\t%d\t%d/7 (%d%%)\t%d\n",
				h.Habit.Name, h.Streak, h.Weekly.CompletedCount, h.Weekly.Percentage, h.TotalCompletions)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(s.Series) > 0 {
		p.printf("\n%s\n", p.styles.header.Render(fmt.Sprintf("Last %d days", len(s.Series))))
		for _, point := range s.Series {
			p.printf("%s  %s  %d/%d\n", point.Date,
				p.styles.trendBar(point.CompletedCount, point.TotalHabitCount, trendBarWidth),
				point.CompletedCount, point.TotalHabitCount)
		}
	}
	return nil
}

func (p *printer) exported(meta export.Metadata, path string, size int64) error {
	result := struct {
		export.Metadata `yaml:",inline"`
		Path            string `json:"path" yaml:"path"`
		Bytes           int64  `json:"bytes" yaml:"bytes"`
	}{meta, path, size}
	if ok, err := p.structured(result); ok {
		return err
	}

	p.printf("Exported %d %s and %d %s to %s (%s)\n",
		meta.HabitCount, english.PluralWord(meta.HabitCount, "habit", ""),
		meta.CompletionCount, english.PluralWord(meta.CompletionCount, "completion", ""),
		path, humanize.Bytes(uint64(size)))
	return nil
}

func (p *printer) imported(r imports.Result, path string) error {
	if ok, err := p.structured(r); ok {
		return err
	}

	p.printf("Imported %d %s and %d %s from %s\n",
		r.Habits, english.PluralWord(r.Habits, "habit", ""),
		r.Completions, english.PluralWord(r.Completions, "completion", ""),
		path)
	if r.Orphaned > 0 {
		p.printf("%s\n", p.styles.warning.Render(fmt.Sprintf("Dropped %d %s for unknown habits",
			r.Orphaned, english.PluralWord(r.Orphaned, "entry", "entries"))))
	}
	if r.DuplicateIDs > 0 {
		p.printf("%s\n", p.styles.warning.Render(fmt.Sprintf("Skipped %d duplicate habit %s",
			r.DuplicateIDs, english.PluralWord(r.DuplicateIDs, "id", ""))))
	}
	for _, w := range r.Warnings {
		p.printf("%s\n", p.styles.warning.Render("Warning: "+w))
	}
	return nil
}

func (p *printer) found(query string, results []search.Result) error {
	if ok, err := p.structured(results); ok {
		return err
	}
	if len(results) == 0 {
		p.printf("No habits match %q\n", query)
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMATCHED\tSCORE")
	for _, r := range results {
		fields := make([]string, 0, len(r.MatchedFields))
		for _, f := range r.MatchedFields {
			fields = append(fields, string(f))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			r.Habit.ID, r.Habit.Name, r.Habit.Category, strings.Join(fields, ","), r.Score)
	}
	return tw.Flush()
}

// message prints a one-line confirmation, or a small object in
// structured formats
func (p *printer) message(text string, fields map[string]interface{}) error {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["message"] = text
	if ok, err := p.structured(fields); ok {
		return err
	}
	p.printf("%s\n", text)
	return nil
}
