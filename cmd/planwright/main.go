package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/msageha/planwright/internal/interpret"
	"github.com/msageha/planwright/internal/model"
	"github.com/msageha/planwright/internal/schedule"
	"github.com/msageha/planwright/internal/specio"
	"github.com/msageha/planwright/internal/watch"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(os.Args[2:])
	case "schedule":
		runSchedule(os.Args[2:])
	case "critical-path":
		runCriticalPath(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "edit":
		runEdit(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("planwright %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planwright — hierarchical CPM scheduling with natural-language edits

usage: planwright <command> [options]

commands:
  validate <spec.yaml>             check a spec without printing the schedule
  schedule <spec.yaml>             compute and print the full schedule
  critical-path <spec.yaml>        print the critical path
  export <spec.yaml> [-level N]    export the computed schedule as JSON
  edit <spec.yaml> "<command>"     interpret an edit command, show the diff
       [-apply]                    write accepted diffs back to the file
  watch <spec.yaml> [-log-level L] recompute on every file change
  version                          print version`)
}

func readSpec(path string) []byte {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read spec: %v\n", err)
		os.Exit(1)
	}
	return text
}

func loadSchedule(path string) *schedule.Schedule {
	s, err := schedule.Load(readSpec(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return s
}

func formatOpt(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return model.FormatDate(*t)
}

func countLeaves(s *schedule.Schedule) int {
	n := 0
	for _, id := range s.Order {
		if s.Tasks[id].IsLeaf() {
			n++
		}
	}
	return n
}

func runValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: planwright validate <spec.yaml>")
		os.Exit(1)
	}
	s := loadSchedule(args[0])
	fmt.Printf("ok: %d tasks, %d schedule entries\n", countLeaves(s), len(s.Order))
}

func runSchedule(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: planwright schedule <spec.yaml>")
		os.Exit(1)
	}
	s := loadSchedule(args[0])

	start, end, duration := s.ProjectDates()
	fmt.Printf("%s  %s .. %s  (%d working days)\n\n",
		s.Spec.Project.Name, model.FormatDate(start), model.FormatDate(end), duration)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tDUR\tPROG\tSTATUS\tFLOAT\tCRIT")
	for _, id := range s.Order {
		task := s.Tasks[id]
		indent := strings.Repeat("  ", task.Level-1)
		crit := ""
		if task.IsLeaf() && task.IsCritical {
			crit = "*"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%d\t%d%%\t%s\t%d\t%s\n",
			task.ID, indent, task.Name,
			formatOpt(task.StartDate), formatOpt(task.EndDate),
			task.Duration, task.Progress, task.Status, task.FloatDays, crit)
	}
	w.Flush()
}

func runCriticalPath(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: planwright critical-path <spec.yaml>")
		os.Exit(1)
	}
	s := loadSchedule(args[0])
	printCriticalPath(s)
}

func printCriticalPath(s *schedule.Schedule) {
	cp := s.CriticalPath()
	if len(cp) == 0 {
		fmt.Println("no critical tasks")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tDUR")
	for _, task := range cp {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			task.ID, task.Name, formatOpt(task.StartDate), formatOpt(task.EndDate), task.Duration)
	}
	w.Flush()
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	level := fs.Int("level", 3, "deepest hierarchy level to include (1-3)")
	out := fs.String("out", "", "write JSON to file instead of stdout")
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: planwright export <spec.yaml> [-level N] [-out file]")
		os.Exit(1)
	}
	path := args[0]
	_ = fs.Parse(args[1:])

	if *level < 1 || *level > 3 {
		fmt.Fprintf(os.Stderr, "invalid level %d (want 1-3)\n", *level)
		os.Exit(1)
	}

	s := loadSchedule(path)
	raw, err := s.ExportJSON(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		fmt.Println(string(raw))
		return
	}
	if err := os.WriteFile(*out, raw, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func runEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	apply := fs.Bool("apply", false, "write accepted diffs back to the spec file")
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, `usage: planwright edit <spec.yaml> "<command>" [-apply]`)
		os.Exit(1)
	}
	path, command := args[0], args[1]
	_ = fs.Parse(args[2:])

	text := readSpec(path)
	spec, err := model.ParseSpec(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	interp := interpret.New(spec)
	cmd := interp.ParseCommand(command)

	if cmd.Intent == interpret.IntentUnknown {
		fmt.Fprintln(os.Stderr, "could not interpret command")
		os.Exit(1)
	}

	if cmd.IsQuery {
		runQuery(text, cmd)
		return
	}

	diffs := interp.GenerateDiff(cmd)
	if len(diffs) == 0 {
		fmt.Fprintf(os.Stderr, "no change: task not resolved (intent %s, confidence %.2f)\n",
			cmd.Intent, cmd.Confidence)
		os.Exit(1)
	}

	fmt.Printf("intent: %s  task: %s  confidence: %.2f\n", cmd.Intent, cmd.TaskID, cmd.Confidence)
	for _, d := range diffs {
		fmt.Printf("  %s\n", d.Description)
		if d.Impact != "" {
			fmt.Printf("    impact: %s\n", d.Impact)
		}
	}

	if !*apply {
		fmt.Println("\nre-run with -apply to write these changes")
		return
	}

	updated, err := interp.ApplyDiff(diffs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apply: %v\n", err)
		os.Exit(1)
	}
	// The edited spec must still validate before it replaces the file.
	if _, err := schedule.Load(updated); err != nil {
		fmt.Fprintf(os.Stderr, "edited spec rejected: %v\n", err)
		os.Exit(1)
	}
	if err := specio.WriteSpec(path, updated); err != nil {
		fmt.Fprintf(os.Stderr, "write spec: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("applied %d change(s) to %s\n", len(diffs), path)
}

func runQuery(text []byte, cmd interpret.ParsedCommand) {
	s, err := schedule.Load(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch cmd.Intent {
	case interpret.IntentShowCriticalPath:
		printCriticalPath(s)
	case interpret.IntentShowMilestones:
		milestones := s.Milestones()
		if len(milestones) == 0 {
			fmt.Println("no milestones")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDATE\tSTATUS")
		for _, m := range milestones {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, formatOpt(m.EndDate), m.Status)
		}
		w.Flush()
	case interpret.IntentShowVariance:
		printVariance(s)
	case interpret.IntentShowStatus:
		printStatus(s)
	}
}

func printVariance(s *schedule.Schedule) {
	if s.Spec.Baseline == nil {
		fmt.Println("no baseline captured")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBASELINE FINISH\tCURRENT FINISH\tVARIANCE")
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Baseline == nil || task.EndDate == nil {
			continue
		}
		variance := s.Cal.DaysBetween(task.Baseline.Finish, *task.EndDate)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			task.ID, model.FormatDate(task.Baseline.Finish), formatOpt(task.EndDate),
			signedDays(variance))
	}
	w.Flush()
}

func signedDays(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n) + "d"
	}
	return strconv.Itoa(n) + "d"
}

func printStatus(s *schedule.Schedule) {
	start, end, duration := s.ProjectDates()
	fmt.Printf("%s [%s]  %s .. %s  (%d working days)\n",
		s.Spec.Project.Name, s.Spec.Project.Status, model.FormatDate(start), model.FormatDate(end), duration)
	if s.Spec.Project.StatusSummary != "" {
		fmt.Println(s.Spec.Project.StatusSummary)
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Level > model.LevelWorkstream {
			continue
		}
		indent := strings.Repeat("  ", task.Level-1)
		fmt.Fprintf(w, "%s%s\t%d%%\t%s\n", indent, task.Name, task.Progress, task.Status)
	}
	w.Flush()
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	logLevel := fs.String("log-level", "info", "debug|info|warn|error")
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: planwright watch <spec.yaml> [-log-level L]")
		os.Exit(1)
	}
	path := args[0]
	_ = fs.Parse(args[1:])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		cancel()
	}()

	w := watch.New(path, watch.ParseLogLevel(*logLevel), func(s *schedule.Schedule) {
		printCriticalPath(s)
	})
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
}
