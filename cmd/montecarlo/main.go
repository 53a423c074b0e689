/* main.go
 * Runs many simulated tournaments and prints how often each team wins, reaches the final and makes the playoffs
 * Usage: go run ./cmd/montecarlo -n 1000 -w 8 -s 42 -r teams.yaml
 */

package main

import (
	"context"
	"fmt"
	"log"
	"major-sim/api/roster"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	flag "github.com/spf13/pflag"
)

func main() {
	runs := flag.IntP("runs", "n", 1000, "Number of tournaments to simulate.")
	workers := flag.IntP("workers", "w", runtime.NumCPU(), "Number of tournaments simulated in parallel.")
	seed := flag.Int64P("seed", "s", 0, "Seed of the first run, 0 picks one from the clock.")
	rosterPath := flag.StringP("roster", "r", "", "Path to a roster YAML file. If omitted the built in roster is used.")
	top := flag.IntP("top", "t", 0, "Only print the first N teams, 0 prints every playoff team.")
	quiet := flag.BoolP("quiet", "q", false, "Do not draw a progress bar.")
	flag.CommandLine.SortFlags = false
	flag.Parse()

	teams, err := roster.Load(*rosterPath)
	if err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var progress func()
	var bar *pb.ProgressBar
	if !*quiet {
		tmpl := `{{ green "Simulating:" }} {{ bar . "[" "#" "#" "." "]"}} {{counters .}} {{percent .}}`
		bar = pb.ProgressBarTemplate(tmpl).Start(*runs)
		progress = func() { bar.Increment() }
	}

	totals, err := Simulate(ctx, teams, *runs, *workers, *seed, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	fmt.Printf("Seed %d\n", *seed)
	fmt.Print(totals.Report(*top))
}
