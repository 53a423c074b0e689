/* montecarlo.go
 * Plays many quick tournaments over one roster and counts how far each team gets
 */

package main

import (
	"context"
	"fmt"
	"major-sim/api/shared"
	"major-sim/api/tournament"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// Outcome is what one simulated tournament contributes to the totals
type Outcome struct {
	Champion   string
	Finalists  []string
	Qualifiers []string
	Series     int
	Maps       int
}

// Totals are the aggregated outcomes of every run
type Totals struct {
	Runs     int
	Titles   map[string]int
	Finals   map[string]int
	Playoffs map[string]int
	Series   int
	Maps     int
}

func newTotals() *Totals {
	return &Totals{Titles: map[string]int{}, Finals: map[string]int{}, Playoffs: map[string]int{}}
}

func (t *Totals) add(o Outcome) {
	t.Runs++
	t.Titles[o.Champion]++
	for _, name := range o.Finalists {
		t.Finals[name]++
	}
	for _, name := range o.Qualifiers {
		t.Playoffs[name]++
	}
	t.Series += o.Series
	t.Maps += o.Maps
}

// AverageMaps is the mean number of maps per best of three
func (t *Totals) AverageMaps() float64 {
	if t.Series == 0 {
		return 0
	}
	return float64(t.Maps) / float64(t.Series)
}

// runOnce plays a full tournament. Teams are only read so they can be shared between workers
func runOnce(teams []*shared.Team, rng *rand.Rand) (Outcome, error) {
	tour, err := tournament.New(tournament.BlastAustin2025, teams)
	if err != nil {
		return Outcome{}, err
	}
	if err := tour.SimulateRemaining(rng); err != nil {
		return Outcome{}, err
	}
	champion := tour.Champion()
	if champion == nil {
		return Outcome{}, fmt.Errorf("tournament finished without a champion")
	}

	o := Outcome{Champion: champion.Name}
	for _, g := range tour.Groups {
		for _, m := range g.Matches {
			o.Series++
			o.Maps += len(m.MapResults)
		}
	}
	for _, m := range tour.Bracket.Matches() {
		o.Series++
		o.Maps += len(m.MapResults)
	}
	for _, m := range tour.Bracket.QuarterFinals {
		o.Qualifiers = append(o.Qualifiers, m.Team1.String(), m.Team2.String())
	}
	if f := tour.Bracket.Final; f != nil {
		o.Finalists = []string{f.Team1.String(), f.Team2.String()}
	}
	return o, nil
}

// Simulate plays runs tournaments on a pool of workers. Run i is seeded with seed+i so the totals only depend on
// the seed. progress is called once per finished run
func Simulate(ctx context.Context, teams []*shared.Team, runs, workers int, seed int64, progress func()) (*Totals, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", runs)
	}
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	results := make(chan Outcome)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				o, err := runOnce(teams, rand.New(rand.NewSource(seed+int64(i))))
				if err != nil {
					errs <- fmt.Errorf("run %d: %w", i, err)
					cancel()
					return
				}
				select {
				case results <- o:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < runs; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	totals := newTotals()
	for o := range results {
		totals.add(o)
		if progress != nil {
			progress()
		}
	}

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil && totals.Runs < runs {
		return nil, err
	}
	return totals, nil
}

type teamOdds struct {
	name     string
	titles   int
	finals   int
	playoffs int
}

// Report prints one line per team that reached the playoffs at least once, most titles first
func (t *Totals) Report(top int) string {
	var odds []teamOdds
	for name, n := range t.Playoffs {
		odds = append(odds, teamOdds{name: name, titles: t.Titles[name], finals: t.Finals[name], playoffs: n})
	}
	sort.Slice(odds, func(i, j int) bool {
		if odds[i].titles != odds[j].titles {
			return odds[i].titles > odds[j].titles
		}
		if odds[i].playoffs != odds[j].playoffs {
			return odds[i].playoffs > odds[j].playoffs
		}
		return odds[i].name < odds[j].name
	})
	if top > 0 && len(odds) > top {
		odds = odds[:top]
	}

	pct := func(n int) float64 { return 100 * float64(n) / float64(t.Runs) }
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d tournaments, %.2f maps per series\n", t.Runs, t.AverageMaps()))
	b.WriteString(fmt.Sprintf("%-24s %8s %8s %8s\n", "Team", "Title", "Final", "Playoffs"))
	for _, o := range odds {
		b.WriteString(fmt.Sprintf("%-24s %7.1f%% %7.1f%% %7.1f%%\n", o.name, pct(o.titles), pct(o.finals), pct(o.playoffs)))
	}
	return b.String()
}
