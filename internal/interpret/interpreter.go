// Package interpret maps short natural-language commands onto structured
// edit intents and turns them into reviewable diffs against the raw
// specification.
//
// The parser is a flat, ordered table of regex rules, each carrying an
// intent and a base confidence. Every rule is tested against the input
// and the highest final confidence wins; the table itself is the
// specification of the command language, not a grammar.
package interpret

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/msageha/planwright/internal/model"
)

// exactMatchBoost is added (capped at 1.0) when the captured entity is an
// exact task-id match. Fuzzy matches scale confidence multiplicatively
// instead.
const exactMatchBoost = 0.05

type ruleDef struct {
	expr       string
	intent     Intent
	confidence float64
	isQuery    bool
	// build extracts values from the submatches and returns the entity
	// text to resolve (empty for queries). A false return discards the
	// match.
	build func(i *Interpreter, m []string, cmd *ParsedCommand) (entity string, ok bool)
}

type compiledRule struct {
	ruleDef
	pattern *regexp.Regexp
}

// Interpreter parses commands against one raw specification. It needs
// only the raw task list for entity lookup, never the computed schedule.
type Interpreter struct {
	spec  *model.SpecFile
	rules []compiledRule
	now   time.Time
	dates *when.Parser
}

// New builds an interpreter over the given raw spec using wall-clock time
// for relative date phrases.
func New(spec *model.SpecFile) *Interpreter {
	return NewAt(spec, time.Now())
}

// NewAt is New with an injected reference time, for deterministic
// resolution of phrases like "next friday".
func NewAt(spec *model.SpecFile, now time.Time) *Interpreter {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	i := &Interpreter{spec: spec, now: now, dates: w}
	for _, def := range ruleTable {
		i.rules = append(i.rules, compiledRule{
			ruleDef: def,
			pattern: regexp.MustCompile(def.expr),
		})
	}
	return i
}

// ruleTable is ordered by priority: duration changes ahead of bare
// percentages so "extend X by 5 days" is never misread as a progress
// update, and query patterns are anchored tightly so structural commands
// win when ambiguous.
var ruleTable = []ruleDef{
	{
		expr:       `^(?:extend|push|delay)\s+(.+?)\s+by\s+(\d+)\s+(?:working\s+)?days?$`,
		intent:     IntentExtendDuration,
		confidence: 0.9,
		build:      entityAndInt,
	},
	{
		expr:       `^(?:shorten|reduce|cut)\s+(.+?)\s+by\s+(\d+)\s+(?:working\s+)?days?$`,
		intent:     IntentShortenDuration,
		confidence: 0.9,
		build:      entityAndInt,
	},
	{
		expr:       `^(?:set\s+)?(.+?)\s+duration\s+(?:to\s+|=\s*)?(\d+)(?:\s+days?)?$`,
		intent:     IntentSetDuration,
		confidence: 0.85,
		build:      entityAndInt,
	},
	{
		expr:       `^what\s+if\s+(.+?)\s+slips?\s+(?:by\s+)?(\d+)\s+(days?|weeks?)$`,
		intent:     IntentWhatIf,
		confidence: 0.9,
		build:      func(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return "", false
			}
			if strings.HasPrefix(m[3], "week") {
				n *= 5
			}
			cmd.Value = n
			return m[1], true
		},
	},
	{
		expr:       `^(?:set\s+)?(.+?)\s+(?:progress\s+)?(?:is|at|to)\s+(?:now\s+)?(\d{1,3})\s*%(?:\s+(?:complete|done))?$`,
		intent:     IntentSetProgress,
		confidence: 0.9,
		build:      func(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
			n, err := strconv.Atoi(m[2])
			if err != nil || n > 100 {
				return "", false
			}
			cmd.Value = n
			return m[1], true
		},
	},
	{
		expr:       `^(?:mark\s+)?(.+?)\s+(?:as\s+)?(?:is\s+)?(?:complete|completed|done|finished)$`,
		intent:     IntentMarkComplete,
		confidence: 0.85,
		build:      entityOnly,
	},
	{
		expr:       `^(?:flag\s+)?(.+?)\s+(?:is\s+)?at\s+risk(?:\s*[:,-]\s*(.+))?$`,
		intent:     IntentAddRisk,
		confidence: 0.85,
		build:      func(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
			cmd.Value = strings.TrimSpace(m[2])
			return m[1], true
		},
	},
	{
		expr:       `^(.+?)\s+(?:actually\s+)?started\s+(?:on\s+)?(.+)$`,
		intent:     IntentSetActualStart,
		confidence: 0.8,
		build:      entityAndDate,
	},
	{
		expr:       `^(.+?)\s+(?:actually\s+)?finished\s+(?:on\s+)?(.+)$`,
		intent:     IntentSetActualFinish,
		confidence: 0.8,
		build:      entityAndDate,
	},
	{
		expr:       `^(?:make\s+)?(.+?)\s+depends?\s+on\s+(.+)$`,
		intent:     IntentAddDependency,
		confidence: 0.85,
		build:      func(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
			predID, _, score, exact := i.resolveEntity(m[2])
			if !exact && score < fuzzyThreshold {
				return "", false
			}
			cmd.Value = predID
			return m[1], true
		},
	},
	{
		expr:       `^add\s+(\d+)\s+days?\s+(?:of\s+)?lag\s+after\s+(.+?)\s+(?:for|to|on)\s+(.+)$`,
		intent:     IntentAddLag,
		confidence: 0.85,
		build:      func(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return "", false
			}
			predID, _, score, exact := i.resolveEntity(m[2])
			if !exact && score < fuzzyThreshold {
				return "", false
			}
			cmd.Value = n
			cmd.Value2 = predID
			return m[3], true
		},
	},
	{
		expr:       `^(.+?)\s+(?:cannot|can't|must\s+not)\s+start\s+(?:before|until)\s+(.+)$`,
		intent:     IntentAddConstraint,
		confidence: 0.85,
		build:      entityAndDate,
	},
	{
		expr:       `^(?:show\s+(?:the\s+)?)?critical\s+path$`,
		intent:     IntentShowCriticalPath,
		confidence: 1.0,
		isQuery:    true,
		build:      queryOnly,
	},
	{
		expr:       `^(?:show\s+|list\s+)?milestones$`,
		intent:     IntentShowMilestones,
		confidence: 1.0,
		isQuery:    true,
		build:      queryOnly,
	},
	{
		expr:       `^(?:show\s+)?(?:baseline\s+)?variance$`,
		intent:     IntentShowVariance,
		confidence: 1.0,
		isQuery:    true,
		build:      queryOnly,
	},
	{
		expr:       `^(?:show\s+)?(?:project\s+)?status$|^where\s+are\s+we$`,
		intent:     IntentShowStatus,
		confidence: 1.0,
		isQuery:    true,
		build:      queryOnly,
	},
}

func entityOnly(_ *Interpreter, m []string, _ *ParsedCommand) (string, bool) {
	return m[1], true
}

func queryOnly(_ *Interpreter, _ []string, _ *ParsedCommand) (string, bool) {
	return "", true
}

func entityAndInt(_ *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", false
	}
	cmd.Value = n
	return m[1], true
}

func entityAndDate(i *Interpreter, m []string, cmd *ParsedCommand) (string, bool) {
	date, ok := i.resolveDate(m[2])
	if !ok {
		return "", false
	}
	cmd.Value = date
	return m[1], true
}

// ParseCommand maps free text to the best-matching intent. Unrecognized
// input never fails: it yields intent unknown with confidence 0.
func (i *Interpreter) ParseCommand(text string) ParsedCommand {
	input := strings.ToLower(strings.TrimSpace(text))
	best := ParsedCommand{Intent: IntentUnknown, Confidence: 0}

	for _, rule := range i.rules {
		m := rule.pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}

		cmd := ParsedCommand{
			Intent:     rule.intent,
			Confidence: rule.confidence,
			IsQuery:    rule.isQuery,
		}
		entity, ok := rule.build(i, m, &cmd)
		if !ok {
			continue
		}

		if entity != "" {
			id, name, score, exact := i.resolveEntity(entity)
			switch {
			case exact:
				cmd.TaskID, cmd.TaskName = id, name
				cmd.Confidence = math.Min(1.0, cmd.Confidence+exactMatchBoost)
			case score >= fuzzyThreshold:
				cmd.TaskID, cmd.TaskName = id, name
				cmd.Confidence *= score
			}
			// Unresolved entities keep the base confidence and an empty
			// task id; the diff engine treats that as a no-op.
		}

		if cmd.Confidence > best.Confidence {
			best = cmd
		}
	}

	return best
}

// resolveEntity looks up a captured entity against the raw task set:
// exact case-insensitive id match first, then the best fuzzy score across
// both ids and names. The caller applies the acceptance threshold.
func (i *Interpreter) resolveEntity(text string) (id, name string, score float64, exact bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", 0, false
	}

	tasks := i.spec.LeafTasks()
	for _, task := range tasks {
		if strings.EqualFold(task.ID, text) {
			return task.ID, task.Name, 1, true
		}
	}

	var best *model.TaskSpec
	bestScore := 0.0
	for _, task := range tasks {
		s := similarity(text, task.ID)
		if ns := similarity(text, task.Name); ns > s {
			s = ns
		}
		if s > bestScore {
			bestScore, best = s, task
		}
	}
	if best == nil {
		return "", "", 0, false
	}
	return best.ID, best.Name, bestScore, false
}

// resolveDate accepts an exact yyyy-mm-dd date or a natural phrase like
// "next friday", normalized to the spec date format.
func (i *Interpreter) resolveDate(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if d, err := model.ParseDate(text); err == nil {
		return model.FormatDate(d), true
	}
	r, err := i.dates.Parse(text, i.now)
	if err != nil || r == nil {
		return "", false
	}
	return model.FormatDate(r.Time), true
}
