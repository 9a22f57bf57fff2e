package score

import (
	"math"
	"sort"
	"time"

	"github.com/ppiankov/slangwatch/internal/model"
)

// DefaultWindow is the number of trailing days momentum is measured against
const DefaultWindow = 7

// DayLayout formats rollup dates, matching SQLite's DATE()
const DayLayout = "2006-01-02"

// DayCount is one term's mention activity on one day
type DayCount struct {
	TermID     uint
	Day        string // YYYY-MM-DD
	Mentions   int
	Engagement int
}

// Scorer computes daily rollups and momentum
type Scorer struct {
	window int
}

// NewScorer creates a scorer with the given trailing window in days
func NewScorer(window int) *Scorer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Scorer{window: window}
}

// Window returns the trailing window in days
func (s *Scorer) Window() int { return s.window }

// Momentum compares today's mentions with the average of the trailing days.
// 1.0 means steady, above 1.0 means rising. A term with no history scores
// its raw count.
func (s *Scorer) Momentum(today int, history []int) float64 {
	if len(history) == 0 {
		return float64(today)
	}

	total := 0
	for _, n := range history {
		total += n
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return float64(today)
	}
	return math.Round(float64(today)/avg*100) / 100
}

// Rollup builds the trend rows for day from per-day counts covering day and
// the trailing window. Only terms mentioned on day get a row.
func (s *Scorer) Rollup(day time.Time, counts []DayCount) []model.DailyTrend {
	dayKey := day.UTC().Format(DayLayout)

	byTerm := make(map[uint]map[string]DayCount)
	for _, c := range counts {
		if byTerm[c.TermID] == nil {
			byTerm[c.TermID] = make(map[string]DayCount)
		}
		byTerm[c.TermID][c.Day] = c
	}

	var trends []model.DailyTrend
	for termID, days := range byTerm {
		today, ok := days[dayKey]
		if !ok || today.Mentions == 0 {
			continue
		}

		history := make([]int, s.window)
		for i := 1; i <= s.window; i++ {
			history[i-1] = days[day.UTC().AddDate(0, 0, -i).Format(DayLayout)].Mentions
		}

		trends = append(trends, model.DailyTrend{
			TermID:          termID,
			Date:            dayKey,
			MentionCount:    today.Mentions,
			TotalEngagement: today.Engagement,
			MomentumScore:   s.Momentum(today.Mentions, history),
		})
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].TermID < trends[j].TermID })
	return trends
}
