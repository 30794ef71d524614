package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (*domain.CalculationResult, *domain.Project) {
	p := &domain.Project{
		ID:         "proj-1",
		ShortID:    "APP01",
		Name:       "Shop App 3.2",
		TableNames: map[domain.TableID]string{domain.Table1: "Dev"},
	}
	r := &domain.CalculationResult{
		AnchorDate:      domain.NewDate(2026, time.February, 10),
		HeadsUpDate:     domain.NewDate(2026, time.January, 20),
		IOSReviewDate:   mo.Some(domain.NewDate(2026, time.February, 2)),
		PaidProductDate: mo.None[domain.Date](),
		Tables: map[domain.TableID][]domain.ScheduleEntry{
			domain.Table1: {{
				ID: "e1", Index: 1, StageID: "qa", StageName: "QA",
				Start: time.Date(2026, time.January, 22, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2026, time.January, 27, 18, 0, 0, 0, time.UTC),
				Children: []domain.ScheduleEntry{{
					ID: "e2", Index: 1, StageID: "qa.smoke", StageName: "Smoke test",
					Start: time.Date(2026, time.January, 26, 9, 0, 0, 0, time.UTC),
					End:   time.Date(2026, time.January, 23, 18, 0, 0, 0, time.UTC),
				}},
			}},
			domain.Table3: {{
				ID: "e3", Index: 1, StageID: "store", StageName: "Store submission",
				Start: time.Date(2026, time.February, 3, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2026, time.February, 4, 18, 0, 0, 0, time.UTC),
			}},
		},
	}
	return r, p
}

var stamp = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func TestICS_EntriesAndMilestones(t *testing.T) {
	result, project := fixture()
	data, err := ICS(result, project, ICSOptions{Stamp: stamp})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "SUMMARY:[Dev] 1 QA")
	assert.Contains(t, out, "SUMMARY:[Dev] 1-1 Smoke test")
	assert.Contains(t, out, "SUMMARY:[table3] 1 Store submission")
	assert.Contains(t, out, "DTSTART:20260122T090000Z")
	assert.Contains(t, out, "DTEND:20260127T180000Z")
	assert.Contains(t, out, "DTSTAMP:20260101T000000Z")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260120")
	assert.NotContains(t, out, "Paid product")

	cal := decode(t, data)
	events := cal.Events()
	// 3 entries + heads-up, iOS review and update milestones.
	assert.Len(t, events, 6)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "e1", uid)
}

func TestICS_InvertedEntryCollapses(t *testing.T) {
	result, project := fixture()
	data, err := ICS(result, project, ICSOptions{Stamp: stamp, SkipMilestones: true})
	require.NoError(t, err)

	for _, ev := range decode(t, data).Events() {
		uid, _ := ev.Props.Text(ical.PropUID)
		if uid != "e2" {
			continue
		}
		start, err := ev.DateTimeStart(time.UTC)
		require.NoError(t, err)
		end, err := ev.DateTimeEnd(time.UTC)
		require.NoError(t, err)
		assert.Equal(t, start, end)
		return
	}
	t.Fatal("smoke test event missing")
}

func TestICS_TableFilter(t *testing.T) {
	result, project := fixture()
	data, err := ICS(result, project, ICSOptions{Stamp: stamp, Tables: []domain.TableID{domain.Table3}, SkipMilestones: true})
	require.NoError(t, err)

	events := decode(t, data).Events()
	require.Len(t, events, 1)
	summary, _ := events[0].Props.Text(ical.PropSummary)
	assert.Equal(t, "[table3] 1 Store submission", summary)
}

func TestICS_EmptySelectionWithoutMilestones(t *testing.T) {
	result, project := fixture()

	_, err := ICS(result, project, ICSOptions{Stamp: stamp, Tables: []domain.TableID{domain.Table2}, SkipMilestones: true})
	require.ErrorIs(t, err, ErrNoEvents)

	// Milestones alone still make a valid feed.
	data, err := ICS(result, project, ICSOptions{Stamp: stamp, Tables: []domain.TableID{domain.Table2}})
	require.NoError(t, err)
	assert.NotEmpty(t, decode(t, data).Events())
}

func TestMilestones_SortedWithOptionalDates(t *testing.T) {
	result, _ := fixture()
	ms := Milestones(result)

	var keys []string
	for _, m := range ms {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"heads-up", "ios-review", "update"}, keys)

	result.PaidProductDate = mo.Some(domain.NewDate(2026, time.February, 5))
	assert.Len(t, Milestones(result), 4)
}
