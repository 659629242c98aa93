package report

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/toggl2slack/internal/model"
)

func day(d int) model.Date {
	return model.NewDate(2020, time.December, d)
}

func rec(user string, project model.Project, date model.Date, ms uint64) model.Record {
	return model.Record{
		Key:      model.RecordKey{User: model.User(user), Project: project, Date: date},
		Duration: model.Milliseconds(ms),
	}
}

// =============================================================================
// Aggregate Tests
// =============================================================================

func TestAggregateEmpty(t *testing.T) {
	table := Aggregate(nil)
	assert.NotNil(t, table)
	assert.Empty(t, table)
	assert.Empty(t, table.Users())
	assert.Empty(t, table.Projects())
}

func TestAggregateSumsSharedKeys(t *testing.T) {
	a := model.NewProject("A")
	table := Aggregate([]model.Record{
		rec("Alice", a, day(1), 1_000),
		rec("Alice", a, day(1), 2_000),
		rec("Alice", a, day(2), 4_000),
		rec("Bob", a, day(1), 8_000),
		rec("Alice", model.NoProject, day(1), 16_000),
	})

	require.Len(t, table, 4)
	assert.Equal(t, model.Milliseconds(3_000), table.Get(model.RecordKey{User: "Alice", Project: a, Date: day(1)}))
	assert.Equal(t, model.Milliseconds(4_000), table.Get(model.RecordKey{User: "Alice", Project: a, Date: day(2)}))
	assert.Equal(t, model.Milliseconds(8_000), table.Get(model.RecordKey{User: "Bob", Project: a, Date: day(1)}))
	assert.Equal(t, model.Milliseconds(16_000), table.Get(model.RecordKey{User: "Alice", Project: model.NoProject, Date: day(1)}))
	assert.Equal(t, model.Milliseconds(31_000), table.Total())
}

func TestAggregateAbsentKeyIsZero(t *testing.T) {
	table := Aggregate([]model.Record{rec("Alice", model.NewProject("A"), day(1), 1_000)})

	key := model.RecordKey{User: "Alice", Project: model.NewProject("A"), Date: day(2)}
	assert.Equal(t, model.Milliseconds(0), table.Get(key))
	_, ok := table[key]
	assert.False(t, ok)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	records := []model.Record{
		rec("Alice", model.NewProject("A"), day(1), 600_000),
		rec("Bob", model.NewProject("A"), day(1), 1_200_000),
		rec("Alice", model.NewProject("A"), day(1), 60_000),
		rec("Alice", model.NoProject, day(3), 3_600_000),
		rec("Carol", model.NewProject("B"), day(2), 1_800_000),
		rec("Bob", model.NewProject("A"), day(1), 7),
	}
	expected := Aggregate(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, expected, Aggregate(shuffled))
	}
}

func TestTableUsersAndProjectsSorted(t *testing.T) {
	table := Aggregate([]model.Record{
		rec("Carol", model.NewProject("Beta"), day(1), 1),
		rec("Alice", model.NewProject("Alpha"), day(1), 1),
		rec("Bob", model.NoProject, day(1), 1),
		rec("Alice", model.NewProject("Beta"), day(2), 1),
	})

	assert.Equal(t, []model.User{"Alice", "Bob", "Carol"}, table.Users())
	assert.Equal(t, []model.Project{model.NoProject, model.NewProject("Alpha"), model.NewProject("Beta")}, table.Projects())

	keys := table.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, model.NoProject, keys[0].Project)
	assert.Equal(t, model.User("Carol"), keys[3].User)
}

// =============================================================================
// ExpandPeriod Tests
// =============================================================================

func TestExpandPeriod(t *testing.T) {
	tests := []struct {
		name  string
		begin model.Date
		end   model.Date
		count int
	}{
		{"single_day", day(1), day(1), 1},
		{"month", day(1), day(31), 31},
		{"year_boundary", day(30), model.NewDate(2021, time.January, 2), 4},
		{"leap_february", model.NewDate(2020, time.February, 27), model.NewDate(2020, time.March, 1), 4},
		{"full_year", model.NewDate(2021, time.January, 1), model.NewDate(2021, time.December, 31), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := ExpandPeriod(tt.begin, tt.end)
			require.NoError(t, err)
			require.Len(t, days, tt.count)
			assert.Equal(t, tt.begin.DaysUntil(tt.end)+1, len(days))
			assert.Equal(t, tt.begin, days[0])
			assert.Equal(t, tt.end, days[len(days)-1])
			for i := 1; i < len(days); i++ {
				assert.True(t, days[i-1].Before(days[i]))
				assert.Equal(t, days[i-1].AddDays(1), days[i])
			}
		})
	}
}

func TestExpandPeriodInvalidRange(t *testing.T) {
	days, err := ExpandPeriod(day(2), day(1))
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	assert.Nil(t, days)
}

// =============================================================================
// FormatHours Tests
// =============================================================================

func TestFormatHours(t *testing.T) {
	tests := []struct {
		ms       uint64
		expected string
	}{
		{0, "0"},
		{59_999, "0"},
		{1_000_000, "0"},
		{1_799_999, "0"},
		{1_800_000, "0.5"},
		{3_599_999, "0.5"},
		{3_600_000, "1"},
		{3_601_000, "1"},
		{5_340_000, "1"},
		{5_400_000, "1.5"},
		{7_200_000, "2"},
		{36_000_000 + 45*60_000, "10.5"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatHours(model.Milliseconds(tt.ms)))
		})
	}
}

// =============================================================================
// RenderTable Tests
// =============================================================================

func TestRenderTableZeroFill(t *testing.T) {
	table := Aggregate([]model.Record{
		rec("UserA", model.NewProject("ProjectA"), day(1), 5_400_000),
	})

	out, err := RenderTable(table, day(1), day(2))
	require.NoError(t, err)
	assert.Equal(t,
		"Project,User,2020-12-01,2020-12-02\n"+
			"ProjectA,UserA,1.5,0\n",
		out)
}

func TestRenderTableEmpty(t *testing.T) {
	out, err := RenderTable(Table{}, day(1), day(3))
	require.NoError(t, err)
	assert.Equal(t, "Project,User,2020-12-01,2020-12-02,2020-12-03\n", out)
}

func TestRenderTableRowsAreCartesianAndSorted(t *testing.T) {
	table := Aggregate([]model.Record{
		rec("Bob", model.NewProject("Beta"), day(2), 3_600_000),
		rec("Alice", model.NewProject("Alpha"), day(1), 1_800_000),
		rec("Alice", model.NoProject, day(1), 7_200_000),
	})

	out, err := RenderTable(table, day(1), day(2))
	require.NoError(t, err)
	assert.Equal(t,
		"Project,User,2020-12-01,2020-12-02\n"+
			"EmptyProject,Alice,2,0\n"+
			"EmptyProject,Bob,0,0\n"+
			"Alpha,Alice,0.5,0\n"+
			"Alpha,Bob,0,0\n"+
			"Beta,Alice,0,0\n"+
			"Beta,Bob,0,1\n",
		out)
}

func TestRenderTableNamedEmptyProjectIsSeparateRow(t *testing.T) {
	table := Aggregate([]model.Record{
		rec("Alice", model.NewProject("EmptyProject"), day(1), 1_800_000),
		rec("Alice", model.NoProject, day(1), 3_600_000),
	})

	assert.Len(t, table.Projects(), 2)

	out, err := RenderTable(table, day(1), day(1))
	require.NoError(t, err)
	assert.Equal(t,
		"Project,User,2020-12-01\n"+
			"EmptyProject,Alice,1\n"+
			"EmptyProject,Alice,0.5\n",
		out)
}

func TestRenderTableIsDeterministic(t *testing.T) {
	records := []model.Record{
		rec("Carol", model.NewProject("P2"), day(1), 3_600_000),
		rec("Alice", model.NewProject("P1"), day(2), 1_800_000),
		rec("Bob", model.NoProject, day(3), 900_000),
		rec("Alice", model.NewProject("P1"), day(2), 1_800_000),
		rec("Dave", model.NewProject("P3"), day(1), 60_000),
	}
	reversed := make([]model.Record, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	first, err := RenderTable(Aggregate(records), day(1), day(3))
	require.NoError(t, err)
	second, err := RenderTable(Aggregate(reversed), day(1), day(3))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	rows, err := csv.NewReader(strings.NewReader(first)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+4*4)
	for _, row := range rows {
		assert.Len(t, row, 5)
	}
	assert.Equal(t, []string{"EmptyProject", "Alice", "0", "0", "0"}, rows[1])
	assert.Equal(t, []string{"P1", "Alice", "0", "1", "0"}, rows[5])
}

func TestRenderTableQuotesFields(t *testing.T) {
	table := Aggregate([]model.Record{
		rec(`Doe, "JD" John`, model.NewProject("Ops, Infra"), day(1), 3_600_000),
	})

	out, err := RenderTable(table, day(1), day(1))
	require.NoError(t, err)
	assert.Equal(t,
		"Project,User,2020-12-01\n"+
			`"Ops, Infra","Doe, ""JD"" John",1`+"\n",
		out)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ops, Infra", `Doe, "JD" John`, "1"}, rows[1])
}

func TestRenderTableIgnoresDaysOutsidePeriod(t *testing.T) {
	table := Aggregate([]model.Record{
		rec("Alice", model.NewProject("A"), day(5), 3_600_000),
	})

	out, err := RenderTable(table, day(1), day(2))
	require.NoError(t, err)
	assert.Equal(t, "Project,User,2020-12-01,2020-12-02\nA,Alice,0,0\n", out)
}

func TestRenderTableInvalidRange(t *testing.T) {
	_, err := RenderTable(Table{}, day(3), day(1))
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	table := Aggregate([]model.Record{rec("Alice", model.NewProject("A"), day(1), 3_600_000)})

	require.NoError(t, WriteTable(&buf, table, day(1), day(1)))
	assert.Equal(t, "Project,User,2020-12-01\nA,Alice,1\n", buf.String())
}

// =============================================================================
// RenderSummary Tests
// =============================================================================

func TestRenderSummary(t *testing.T) {
	records := model.ProjectRecords{
		"Alice": {
			{Project: model.NewProject("ProjectA"), Duration: 3_600_000},
			{Project: model.NewProject("ProjectB"), Duration: 7_200_000},
		},
	}

	out := RenderSummary(records, day(1), day(31))

	assert.True(t, strings.HasPrefix(out, "*Toggl summary report* [2020/12/01-2020/12/31]\n"))
	assert.Equal(t,
		"*Toggl summary report* [2020/12/01-2020/12/31]\n"+
			"\n*Alice*\n\n```ProjectA: 1h\nProjectB: 2h\n```",
		out)
}

func TestRenderSummaryOrdering(t *testing.T) {
	records := model.ProjectRecords{
		"Bob": {
			{Project: model.NewProject("Zeta"), Duration: 1_800_000},
			{Project: model.NoProject, Duration: 5_400_000},
			{Project: model.NewProject("Alpha"), Duration: 0},
		},
		"Alice": {
			{Project: model.NewProject("Alpha"), Duration: 3_600_000},
		},
	}

	out := RenderSummary(records, day(1), day(7))

	assert.Equal(t,
		"*Toggl summary report* [2020/12/01-2020/12/07]\n"+
			"\n*Alice*\n\n```Alpha: 1h\n```"+
			"\n*Bob*\n\n```Zeta: 0.5h\nEmptyProject: 1.5h\nAlpha: 0h\n```",
		out)
}

func TestRenderSummaryDoesNotMergeProjects(t *testing.T) {
	records := model.ProjectRecords{
		"Alice": {
			{Project: model.NewProject("A"), Duration: 3_600_000},
			{Project: model.NewProject("A"), Duration: 3_600_000},
		},
	}

	out := RenderSummary(records, day(1), day(1))
	assert.Equal(t, 2, strings.Count(out, "A: 1h\n"))
}

func TestRenderSummaryEmpty(t *testing.T) {
	out := RenderSummary(model.ProjectRecords{}, day(1), day(1))
	assert.Equal(t, "*Toggl summary report* [2020/12/01-2020/12/01]\n", out)
}
