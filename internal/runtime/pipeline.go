package runtime

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
	"github.com/manav03panchal/toggl2slack/internal/model"
	"github.com/manav03panchal/toggl2slack/internal/notify"
	"github.com/manav03panchal/toggl2slack/internal/report"
)

// Artifact names.
const (
	ArtifactSummary = "summary"
	ArtifactTable   = "table"
)

// Fetcher retrieves report data for a period. *toggl.Client implements it.
type Fetcher interface {
	FetchSummary(ctx context.Context, period model.Period) (model.ProjectRecords, error)
	FetchDetails(ctx context.Context, period model.Period) ([]model.Record, error)
}

// BuildOptions selects which artifacts Build produces.
type BuildOptions struct {
	Summary bool
	Table   bool
}

// Artifacts are the rendered report texts for one period.
type Artifacts struct {
	Period model.Period

	Summary    string
	HasSummary bool

	Table    string
	HasTable bool

	// Users counts summary users, or table users when there is no summary.
	Users    int
	Projects int
	Records  int
	Total    model.Duration

	// UserTotals is the tracked time per user in ascending user order.
	UserTotals []UserTotal
}

// UserTotal is the time one user tracked in the period.
type UserTotal struct {
	User     model.User
	Duration model.Duration
}

// Build fetches the data for the selected artifacts concurrently and renders
// them. Rendering only starts once every fetch has completed.
func Build(ctx context.Context, f Fetcher, period model.Period, opts BuildOptions) (*Artifacts, error) {
	log := logging.FromContext(ctx)

	var (
		summary model.ProjectRecords
		records []model.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	if opts.Summary {
		g.Go(func() error {
			s, err := f.FetchSummary(gctx, period)
			if err != nil {
				return errors.Wrap(err, "fetch summary")
			}
			summary = s
			return nil
		})
	}
	if opts.Table {
		g.Go(func() error {
			r, err := f.FetchDetails(gctx, period)
			if err != nil {
				return errors.Wrap(err, "fetch details")
			}
			records = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a := &Artifacts{Period: period}

	if opts.Table {
		t := report.Aggregate(records)
		text, err := report.RenderTable(t, period.Begin, period.End)
		if err != nil {
			return nil, err
		}
		a.Table = text
		a.HasTable = true
		a.Users = len(t.Users())
		a.Projects = len(t.Projects())
		a.Records = len(records)
		a.Total = t.Total()
		a.UserTotals = userTotals(t)
		log.Debug("table rendered", logging.KeyCount, len(records), "keys", len(t))
	}

	if opts.Summary {
		a.Summary = report.RenderSummary(summary, period.Begin, period.End)
		a.HasSummary = true
		a.Users = len(summary)
		if !opts.Table {
			for _, u := range summary.Users() {
				a.UserTotals = append(a.UserTotals, UserTotal{User: u, Duration: summary.Total(u)})
				a.Total = a.Total.Add(summary.Total(u))
			}
		}
		log.Debug("summary rendered", logging.KeyCount, len(summary))
	}

	return a, nil
}

func userTotals(t report.Table) []UserTotal {
	sums := make(map[model.User]model.Duration)
	for key, d := range t {
		sums[key.User] = sums[key.User].Add(d)
	}
	totals := make([]UserTotal, 0, len(sums))
	for _, u := range t.Users() {
		totals = append(totals, UserTotal{User: u, Duration: sums[u]})
	}
	return totals
}

// Messages returns the rendered artifacts in delivery order, summary first.
func (a *Artifacts) Messages(now time.Time) []NamedMessage {
	var msgs []NamedMessage
	if a.HasSummary {
		msgs = append(msgs, NamedMessage{
			Artifact: ArtifactSummary,
			Message:  notify.Message{Title: "Toggl summary " + a.Period.String(), Text: a.Summary, Timestamp: now},
		})
	}
	if a.HasTable {
		msgs = append(msgs, NamedMessage{
			Artifact: ArtifactTable,
			Message:  notify.Message{Title: "Toggl table " + a.Period.String(), Text: a.Table, Timestamp: now},
		})
	}
	return msgs
}

// NamedMessage is a message tagged with the artifact it carries.
type NamedMessage struct {
	Artifact string
	Message  notify.Message
}

// Delivery is the outcome of sending one artifact to every sink.
type Delivery struct {
	Artifact string
	Results  []notify.DispatchResult
}

// Deliver sends the artifacts one after another. A failed artifact stops the
// run so the table is never posted without its summary.
func Deliver(ctx context.Context, d *notify.Dispatcher, a *Artifacts) ([]Delivery, error) {
	var deliveries []Delivery
	for _, m := range a.Messages(time.Now()) {
		results := d.Dispatch(ctx, m.Message)
		deliveries = append(deliveries, Delivery{Artifact: m.Artifact, Results: results})
		if err := notify.ResultsError(results); err != nil {
			return deliveries, errors.Wrapf(err, "deliver %s", m.Artifact)
		}
		logging.LogOperation(ctx, "deliver", "artifact", m.Artifact, logging.KeyCount, len(results))
	}
	return deliveries, nil
}
