package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/harrisonrobin/agenda/pkg/auth"
	"github.com/harrisonrobin/agenda/pkg/colors"
	"github.com/harrisonrobin/agenda/pkg/google"
	"github.com/harrisonrobin/agenda/pkg/logx"
	"github.com/harrisonrobin/agenda/pkg/model"
	"github.com/harrisonrobin/agenda/pkg/orgmode"
	"github.com/harrisonrobin/agenda/pkg/render"
	"github.com/harrisonrobin/agenda/pkg/repeat"
	"github.com/harrisonrobin/agenda/pkg/taskwarrior"
	"github.com/harrisonrobin/agenda/pkg/timeline"
	"github.com/spf13/cobra"
)

type showOptions struct {
	Stdin         bool
	NoTaskwarrior bool
	Org           []string
	OrgTag        string
	NoCalendar    bool
	Calendar      string
	Now           string
	Days          int
	Filter        []string
}

func addShowFlags(cmd *cobra.Command, o *showOptions) {
	cmd.Flags().BoolVar(&o.Stdin, "stdin", false, "Read taskwarrior JSON from stdin instead of running task.")
	cmd.Flags().BoolVar(&o.NoTaskwarrior, "no-taskwarrior", false, "Do not read tasks from taskwarrior.")
	cmd.Flags().StringSliceVar(&o.Org, "org", nil, "Org files to read tasks from.")
	cmd.Flags().StringVar(&o.OrgTag, "org-tag", "", "Only use org tasks carrying this tag.")
	cmd.Flags().BoolVar(&o.NoCalendar, "no-calendar", false, "Skip Google Calendar.")
	cmd.Flags().StringVar(&o.Calendar, "calendar", "", "Google Calendar name (overrides config).")
	cmd.Flags().StringVar(&o.Now, "now", "", `Reference instant, example: --now="2024-03-04T09:00:00+01:00".`)
	cmd.Flags().IntVar(&o.Days, "days", 0, "Show at most this many days.")
	cmd.Flags().StringSliceVar(&o.Filter, "filter", []string{"status:pending"}, "Taskwarrior filter.")
}

func addShow(topLevel *cobra.Command, env Env, g *globalOptions) {
	o := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the timeline (default command).",
		Example: `
agenda show --days 2
task export | agenda show --stdin --no-calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, env, g, o)
		},
	}
	addShowFlags(cmd, o)
	topLevel.AddCommand(cmd)
}

func (o *showOptions) now() (time.Time, error) {
	if o.Now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, o.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return t, nil
}

func runShow(cmd *cobra.Command, env Env, g *globalOptions, o *showOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := g.load(env, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	now, err := o.now()
	if err != nil {
		return err
	}
	loc := now.Location()

	tasks, currentID, err := gatherTasks(ctx, cmd, env, o, loc, log)
	if err != nil {
		return err
	}
	free, scheduled := model.PartitionAt(tasks, now)
	taskwarrior.SortByUrgency(free)

	rules, err := cfg.RepeatRules()
	if err != nil {
		return err
	}
	projections, err := repeat.Expand(rules, now, timeline.LookAheadDays)
	if err != nil {
		return err
	}

	var items []timeline.CalendarItem
	if !o.NoCalendar {
		name := cfg.Calendar
		if o.Calendar != "" {
			name = o.Calendar
		}
		items = calendarItems(ctx, env, name, now, log)
	}

	commitments := slices.Concat(
		timeline.FromScheduledTasks(scheduled),
		timeline.FromProjections(projections),
		timeline.FromCalendarItems(items),
	)
	log.Debug("building timeline",
		logx.Int("free", len(free)),
		logx.Int("commitments", len(commitments)),
		logx.String("current", currentID),
		logx.Time("now", now))

	entries, err := timeline.Build(timeline.Input{
		FreeTasks:     free,
		Commitments:   commitments,
		WorkHours:     cfg.WorkHours,
		LunchBreak:    cfg.LunchBreak,
		CurrentTaskID: currentID,
		CurrentOffset: cfg.Offset(),
		Now:           now,
	})
	if err != nil {
		return err
	}

	cache, err := colors.Open(env.Fs, colors.CachePath(env.Dir))
	if err != nil {
		log.Warn("ignoring color cache", logx.Err(err))
		cache = nil
	}
	render.New(cmd.OutOrStdout(), cache).Days(timeline.Days(entries, now), o.Days)
	if cache != nil {
		if err := cache.Save(); err != nil {
			log.Warn("could not save color cache", logx.Err(err))
		}
	}
	return nil
}

// gatherTasks reads taskwarrior (or stdin) and org files. The current task
// is the started taskwarrior task, else the org task with a running clock.
func gatherTasks(ctx context.Context, cmd *cobra.Command, env Env, o *showOptions, loc *time.Location, log logx.Logger) ([]model.Task, string, error) {
	var tasks []model.Task
	var currentID string

	if !o.NoTaskwarrior || o.Stdin {
		client := &taskwarrior.Client{Binary: env.TaskBinary}
		var raw []taskwarrior.Task
		var err error
		if o.Stdin {
			raw, err = client.ParseTasks(cmd.InOrStdin())
		} else {
			raw, err = client.GetTasks(ctx, o.Filter)
		}
		if err != nil {
			return nil, "", err
		}
		tasks = append(tasks, taskwarrior.ToModels(raw, loc)...)
		currentID = taskwarrior.ActiveID(raw)
		log.Debug("read taskwarrior tasks", logx.Int("count", len(raw)), logx.Bool("stdin", o.Stdin))
	}

	if len(o.Org) > 0 {
		res, err := orgmode.ParseFiles(env.Fs, o.Org, loc)
		if err != nil {
			return nil, "", err
		}
		org := res.Tasks
		if o.OrgTag != "" {
			org = orgmode.FilterTasks(org, o.OrgTag)
		}
		tasks = append(tasks, org...)
		if currentID == "" {
			currentID = res.ActiveID
		}
		log.Debug("read org tasks", logx.Int("count", len(org)))
	}
	return tasks, currentID, nil
}

// calendarItems fetches calendar events. Calendar trouble only costs the
// events, never the timeline.
func calendarItems(ctx context.Context, env Env, name string, now time.Time, log logx.Logger) []timeline.CalendarItem {
	store := auth.Store{Fs: env.Fs, Dir: env.Dir, Log: log}
	if _, err := store.LoadToken(); err != nil {
		log.Warn("not authenticated with Google Calendar, run `agenda auth`", logx.Err(err))
		return nil
	}
	client, err := google.NewClient(ctx, store, name)
	if err != nil {
		log.Warn("calendar unavailable", logx.String("calendar", name), logx.Err(err))
		return nil
	}
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	events, err := client.ListEvents(ctx, from, from.AddDate(0, 0, timeline.LookAheadDays))
	if err != nil {
		log.Warn("could not list events", logx.Err(err))
		return nil
	}
	return google.ToCalendarItems(events, now.Location())
}
