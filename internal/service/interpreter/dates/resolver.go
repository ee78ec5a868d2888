// Package dates turns natural-language date phrases into concrete times,
// with a fallback policy chosen by the caller.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Mode selects how a phrase is resolved and what happens when it cannot be.
type Mode int

const (
	// DueDate prefers the future. An unreadable or past date becomes today,
	// with a warning.
	DueDate Mode = iota
	// EventDateTime prefers the future and keeps the time of day. An
	// unreadable phrase becomes now, with a warning.
	EventDateTime
	// PlainDate has no directional bias. An unreadable phrase becomes today
	// silently.
	PlainDate
)

func (m Mode) String() string {
	switch m {
	case DueDate:
		return "due_date"
	case EventDateTime:
		return "event_datetime"
	case PlainDate:
		return "plain_date"
	default:
		return "unknown"
	}
}

// Result is a resolved moment.
type Result struct {
	Time time.Time
	// Fallback is set when the phrase was not used.
	Fallback bool
	// Warn is set when the caller should tell the user about the fallback.
	Warn bool
}

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

var (
	pastMarkerRe = regexp.MustCompile(`(?i)\b(ago|last|past|yesterday|previous)\b`)
	yearRe       = regexp.MustCompile(`\b\d{4}\b`)
	weekdayRe    = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)\b`)
)

// Resolver resolves phrases relative to a clock in a fixed location.
type Resolver struct {
	parser *when.Parser
	loc    *time.Location
	now    func() time.Time
}

// NewResolver creates a Resolver. A nil loc means UTC, a nil now means time.Now.
func NewResolver(loc *time.Location, now func() time.Time) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)

	return &Resolver{parser: p, loc: loc, now: now}
}

// Now returns the resolver's current moment in its location.
func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

// Today returns midnight of the current day in the resolver's location.
func (r *Resolver) Today() time.Time {
	return startOfDay(r.Now())
}

// Resolve applies mode's parsing and fallback policy to raw.
func (r *Resolver) Resolve(raw string, mode Mode) Result {
	now := r.Now()
	today := startOfDay(now)
	phrase := strings.TrimSpace(raw)

	t, ok := r.parse(phrase, now)

	switch mode {
	case DueDate:
		if ok {
			d := startOfDay(preferFuture(t, phrase, today))
			if !d.Before(today) {
				return Result{Time: d}
			}
		}
		return Result{Time: today, Fallback: true, Warn: true}

	case EventDateTime:
		if ok {
			return Result{Time: preferFuture(t, phrase, today)}
		}
		return Result{Time: now, Fallback: true, Warn: true}

	default:
		if ok {
			return Result{Time: startOfDay(t)}
		}
		return Result{Time: today, Fallback: true}
	}
}

func (r *Resolver) parse(phrase string, now time.Time) (time.Time, bool) {
	if phrase == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, phrase, r.loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, phrase); err == nil {
		return t.In(r.loc), true
	}

	res, err := r.parser.Parse(phrase, now)
	if err != nil || res == nil {
		return time.Time{}, false
	}
	return res.Time.In(r.loc), true
}

// preferFuture moves a moment that fell before today forward, unless the
// phrase pins it to the past or names a year.
func preferFuture(t time.Time, phrase string, today time.Time) time.Time {
	if !t.Before(today) {
		return t
	}
	if pastMarkerRe.MatchString(phrase) || yearRe.MatchString(phrase) {
		return t
	}
	if weekdayRe.MatchString(phrase) {
		return t.AddDate(0, 0, 7)
	}
	return t.AddDate(1, 0, 0)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
