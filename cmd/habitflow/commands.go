package main

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/habitflow/habitflow"
	"github.com/arthur-debert/habitflow/habitflow/export"
	"github.com/arthur-debert/habitflow/habitflow/imports"
	"github.com/arthur-debert/habitflow/habitflow/search"
	"github.com/arthur-debert/habitflow/habitflow/stats"
	"github.com/arthur-debert/habitflow/types"
	"github.com/spf13/cobra"
)

// addHabitFlags adds the habit field flags shared by add and update
func addHabitFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "Longer description")
	cmd.Flags().StringP("category", "c", "", "Category: wellness|fitness|learning|productivity|creative")
	cmd.Flags().String("color", "", "Color tag, e.g. bg-green-500")
	cmd.Flags().String("icon", "", "Icon name")
	cmd.Flags().IntP("target", "t", 0, "Target days per week (1-7)")
	cmd.Flags().StringP("name", "n", "", "New name (update only)")
}

func (cli *ViperCLI) addInitCommand() {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the habits file",
		Long: `Create the habits file if it does not exist yet.

Examples:
  habitflow init              # Empty store
  habitflow init --samples    # Start with three example habits`,

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, _ := cmd.Flags().GetBool("samples")
			return cli.executeInit(cmd, samples)
		},
	}
	initCmd.Flags().Bool("samples", false, "Add example habits when the store is empty")

	cli.rootCmd.AddCommand(initCmd)
}

func (cli *ViperCLI) executeInit(cmd *cobra.Command, samples bool) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	existing := len(tracker.Habits())
	if samples && existing == 0 {
		added, err := tracker.SeedSamples()
		if err != nil {
			return WrapError("add sample habits", err)
		}
		if err := checkSaved("initialize store", tracker); err != nil {
			return err
		}
		return p.message(fmt.Sprintf("Initialized %s with %d sample habits", tracker.StorePath(), len(added)),
			map[string]interface{}{"path": tracker.StorePath(), "habits": len(added)})
	}

	if err := tracker.Save(); err != nil {
		return NewStoreError("initialize store", err)
	}
	text := fmt.Sprintf("Initialized %s", tracker.StorePath())
	if samples {
		text = fmt.Sprintf("%s; it already has %d habits, samples not added", text, existing)
	}
	return p.message(text, map[string]interface{}{"path": tracker.StorePath(), "habits": existing})
}

func (cli *ViperCLI) addAddCommand() {
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Long: `Add a new habit. Blank fields get defaults: category wellness,
color bg-blue-500, 7 target days a week.

Examples:
  habitflow add "Read for 30 minutes" --category learning
  habitflow add Exercise -c fitness --target 5 --color bg-red-500`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.executeAdd(cmd, args[0])
		},
	}
	addHabitFlags(addCmd)

	cli.rootCmd.AddCommand(addCmd)
}

func (cli *ViperCLI) executeAdd(cmd *cobra.Command, name string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	draft := types.HabitDraft{Name: name}
	draft.Description, _ = flags.GetString("description")
	category, _ := flags.GetString("category")
	draft.Category = types.Category(category)
	draft.Color, _ = flags.GetString("color")
	draft.Icon, _ = flags.GetString("icon")
	draft.TargetDays, _ = flags.GetInt("target")
	if flags.Changed("target") && draft.TargetDays == 0 {
		return NewUsageError("add habit", "invalid targetDays: must be between 1 and 7", CommonSuggestions.TargetRange)
	}

	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	h, err := tracker.AddHabit(draft)
	if err != nil {
		return WrapError("add habit", err)
	}
	if err := checkSaved("add habit", tracker); err != nil {
		return err
	}
	return p.habit(h, cli.clock())
}

func (cli *ViperCLI) addUpdateCommand() {
	updateCmd := &cobra.Command{
		Use:   "update <habit>",
		Short: "Change fields of a habit",
		Long: `Change one or more fields of a habit. Only the flags given are changed.

Examples:
  habitflow update 3f2a... --target 4
  habitflow update 3f2a... --name "Evening walk" --category fitness`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.executeUpdate(cmd, args[0])
		},
	}
	addHabitFlags(updateCmd)

	cli.rootCmd.AddCommand(updateCmd)
}

func (cli *ViperCLI) executeUpdate(cmd *cobra.Command, id string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var u types.HabitUpdate
	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		u.Name = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		u.Description = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c := types.Category(v)
		u.Category = &c
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		u.Color = &v
	}
	if flags.Changed("icon") {
		v, _ := flags.GetString("icon")
		u.Icon = &v
	}
	if flags.Changed("target") {
		v, _ := flags.GetInt("target")
		u.TargetDays = &v
	}
	if u.IsEmpty() {
		return NewUsageError("update habit", "nothing to change",
			"Pass at least one of --name, --description, --category, --color, --icon or --target")
	}

	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	target, err := resolveHabit(tracker, "update habit", id)
	if err != nil {
		return err
	}
	h, err := tracker.UpdateHabit(target.ID, u)
	if err != nil {
		return WrapError("update habit", err)
	}
	if err := checkSaved("update habit", tracker); err != nil {
		return err
	}
	return p.habit(h, cli.clock())
}

func (cli *ViperCLI) addDeleteCommand() {
	deleteCmd := &cobra.Command{
		Use:     "delete <habit>",
		Aliases: []string{"rm"},
		Short:   "Delete a habit and its completion history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.executeDelete(cmd, args[0])
		},
	}

	cli.rootCmd.AddCommand(deleteCmd)
}

func (cli *ViperCLI) executeDelete(cmd *cobra.Command, id string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	h, err := resolveHabit(tracker, "delete habit", id)
	if err != nil {
		return err
	}
	if err := tracker.DeleteHabit(h.ID); err != nil {
		return WrapError("delete habit", err)
	}
	if err := checkSaved("delete habit", tracker); err != nil {
		return err
	}
	return p.message(fmt.Sprintf("Deleted %q", h.Name), map[string]interface{}{"id": h.ID})
}

func (cli *ViperCLI) addListCommand() {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.newPrinter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tracker, err := cli.openTracker(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = tracker.Close() }()

			return p.habits(tracker.Habits(), cli.clock())
		},
	}

	cli.rootCmd.AddCommand(listCmd)
}

// resolveHabit looks up the habit a command argument refers to: a full
// id, the habit's name, or a unique id prefix.
func resolveHabit(tracker *habitflow.Tracker, op, ref string) (types.Habit, error) {
	h, err := search.Resolve(tracker, ref)
	if err != nil {
		return types.Habit{}, WrapError(op, err, CommonSuggestions.ListHabits)
	}
	return h, nil
}

func (cli *ViperCLI) addFindCommand() {
	findCmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search habits by name, description or category",
		Long: `Search habits by text. Exact name matches rank first, then name prefixes.

Examples:
  habitflow find read
  habitflow find fitness --field category
  habitflow find Exercise --exact --case-sensitive`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.executeFind(cmd, args[0])
		},
	}
	findCmd.Flags().StringSlice("field", nil, "Fields to search: name, description, category (default all)")
	findCmd.Flags().Bool("exact", false, "Match whole field values only")
	findCmd.Flags().Bool("case-sensitive", false, "Match case")
	findCmd.Flags().IntP("limit", "l", 0, "Maximum number of results (0 for all)")

	cli.rootCmd.AddCommand(findCmd)
}

func (cli *ViperCLI) executeFind(cmd *cobra.Command, query string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	options := search.Options{Query: query}
	options.ExactMatch, _ = flags.GetBool("exact")
	options.CaseSensitive, _ = flags.GetBool("case-sensitive")
	options.MaxResults, _ = flags.GetInt("limit")
	fields, _ := flags.GetStringSlice("field")
	for _, f := range fields {
		switch field := search.Field(f); field {
		case search.FieldName, search.FieldDescription, search.FieldCategory:
			options.Fields = append(options.Fields, field)
		default:
			return NewUsageError("find habits", fmt.Sprintf("unknown field %q", f),
				"Use one of: name, description, category")
		}
	}

	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	return p.found(query, search.NewEngine(tracker).Search(options))
}

func (cli *ViperCLI) addToggleCommand() {
	toggleCmd := &cobra.Command{
		Use:   "toggle <habit>",
		Short: "Flip whether a habit was done on a day",
		Long: `Mark a habit done, or undo the mark, for today or any other day.

Examples:
  habitflow toggle 3f2a...                    # Today
  habitflow toggle 3f2a... --date 2024-06-11  # Fill in a missed day`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			return cli.executeToggle(cmd, args[0], date)
		},
	}
	toggleCmd.Flags().String("date", "", "Day to toggle, YYYY-MM-DD (default today)")

	cli.rootCmd.AddCommand(toggleCmd)
}

func (cli *ViperCLI) executeToggle(cmd *cobra.Command, id, dateArg string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	date := tracker.Today()
	if dateArg != "" {
		if date, err = types.ParseDate(dateArg); err != nil {
			return NewUsageError("toggle habit", err.Error(), CommonSuggestions.DateFormat)
		}
	}

	h, err := resolveHabit(tracker, "toggle habit", id)
	if err != nil {
		return err
	}
	done, err := tracker.Toggle(h.ID, date)
	if err != nil {
		return WrapError("toggle habit", err)
	}
	if err := checkSaved("toggle habit", tracker); err != nil {
		return err
	}
	return p.toggled(h, date, done)
}

func (cli *ViperCLI) addTodayCommand() {
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's habits and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cli.newPrinter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tracker, err := cli.openTracker(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = tracker.Close() }()

			return p.today(tracker.Stats().Summary(tracker.Today(), 0))
		},
	}

	cli.rootCmd.AddCommand(todayCmd)
}

func (cli *ViperCLI) addStatsCommand() {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks, weekly progress and the completion trend",
		Long: `Show overall statistics, a per-habit breakdown and a daily trend.

Examples:
  habitflow stats                      # Last 30 days
  habitflow stats --window 7
  habitflow stats --as-of 2024-06-01 --format json`,

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOf, _ := cmd.Flags().GetString("as-of")
			return cli.executeStats(cmd, asOf)
		},
	}
	statsCmd.Flags().IntP("window", "w", 30, "Days in the trend series")
	statsCmd.Flags().String("as-of", "", "Compute statistics as of this day, YYYY-MM-DD (default today)")

	cli.rootCmd.AddCommand(statsCmd)
}

func (cli *ViperCLI) executeStats(cmd *cobra.Command, asOfArg string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	window := cli.viperInst.GetInt("window")
	if window < 0 || window > stats.MaxWindowDays {
		return NewUsageError("compute statistics", fmt.Sprintf("invalid window %d", window),
			fmt.Sprintf("--window must be between 0 and %d days", stats.MaxWindowDays))
	}

	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	asOf := tracker.Today()
	if asOfArg != "" {
		if asOf, err = types.ParseDate(asOfArg); err != nil {
			return NewUsageError("compute statistics", err.Error(), CommonSuggestions.DateFormat)
		}
	}

	return p.summary(tracker.Stats().Summary(asOf, window))
}

func (cli *ViperCLI) addExportCommand() {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of all habits and completions",
		Long: `Write every habit and the whole completion history to a JSON backup.

Examples:
  habitflow export                        # ./habitflow-backup-<date>.json
  habitflow export --output backups/latest.json
  habitflow export --output -             # Print to stdout`,

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return cli.executeExport(cmd, output)
		},
	}
	exportCmd.Flags().StringP("output", "o", "", "Backup file path, or - for stdout")

	cli.rootCmd.AddCommand(exportCmd)
}

func (cli *ViperCLI) executeExport(cmd *cobra.Command, output string) error {
	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	snap := tracker.ExportSnapshot()
	if output == "-" {
		if err := export.Write(cmd.OutOrStdout(), snap); err != nil {
			return WrapError("export", err)
		}
		return nil
	}

	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if output == "" {
		output = export.BackupFilename(snap.ExportDate)
	}

	size, err := export.WriteFile(output, snap)
	if err != nil {
		return WrapError("export", err, CommonSuggestions.CheckPerms)
	}
	cli.logger.Info("backup written", "path", output, "bytes", size)
	return p.exported(export.Describe(snap), output, size)
}

func (cli *ViperCLI) addImportCommand() {
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a backup",
		Long: `Replace every habit and completion with the contents of a backup file.
Backups written by the browser version are accepted. A file without both
"habits" and "completions" is rejected and nothing changes.`,

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.executeImport(cmd, args[0])
		},
	}

	cli.rootCmd.AddCommand(importCmd)
}

func (cli *ViperCLI) executeImport(cmd *cobra.Command, path string) error {
	p, err := cli.newPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	snap, err := imports.ParseFile(path)
	if err != nil {
		return WrapError("import backup", err,
			"Use a file written by 'habitflow export'",
			"The file must contain both \"habits\" and \"completions\"")
	}

	tracker, err := cli.openTracker(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = tracker.Close() }()

	result, err := tracker.ImportSnapshot(snap)
	if err != nil {
		return WrapError("import backup", err)
	}
	if err := checkSaved("import backup", tracker); err != nil {
		return err
	}
	return p.imported(result, filepath.Base(path))
}

func (cli *ViperCLI) addClearCommand() {
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all habits and completions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return NewUsageError("clear data", "refusing to delete everything without confirmation",
					"Run 'habitflow export' first to keep a backup",
					"Pass --yes to confirm")
			}

			p, err := cli.newPrinter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tracker, err := cli.openTracker(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = tracker.Close() }()

			tracker.Clear()
			if err := checkSaved("clear data", tracker); err != nil {
				return err
			}
			return p.message("All habits and completions deleted", nil)
		},
	}
	clearCmd.Flags().Bool("yes", false, "Confirm deleting everything")

	cli.rootCmd.AddCommand(clearCmd)
}

func (cli *ViperCLI) addConfigCommand() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Long: `Display the effective configuration from all sources (flags, env vars, config file).

Examples:
  habitflow config
  HABITFLOW_WEEK_START=monday habitflow config --format yaml`,

		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := cli.viperInst.AllSettings()
			settings["store"] = cli.storePath()
			if configFile := cli.viperInst.ConfigFileUsed(); configFile != "" {
				settings["_config_file"] = configFile
			}

			p, err := cli.newPrinter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			// settings have no table form
			if p.format == "table" {
				p.format = "yaml"
			}
			_, err = p.structured(settings)
			return err
		},
	}

	cli.rootCmd.AddCommand(configCmd)
}
