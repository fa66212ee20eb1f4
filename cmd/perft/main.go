// Command perft counts the leaf nodes of the legal move tree of a position.
// It can run the standard verification suite, print a per-move divide and
// keep results in the local perft store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	fen        = flag.String("fen", board.StartFEN, "FEN string (defaults to the initial position)")
	depth      = flag.Int("depth", 0, "perft depth")
	divide     = flag.Bool("divide", false, "print per-move node counts at the root")
	suite      = flag.Bool("suite", false, "run the verification suite")
	quick      = flag.Bool("quick", false, "with -suite, skip the slowest depth of each position")
	workers    = flag.Int("workers", 0, "goroutines for the root moves (0 = one per CPU)")
	hashMB     = flag.Int("hash", 0, "in-memory subtree table size in MB (0 = off)")
	cache      = flag.String("cache", "", "perft store directory (\"default\" for the per-user data dir)")
	verbose    = flag.Bool("v", false, "debug logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	os.Exit(mainCode())
}

func mainCode() int {
	flag.Parse()
	log.SetHandler(cli.New(os.Stderr))
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.WithError(err).Fatal("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.WithField("path", profilePath).Info("CPU profiling enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Error("perft failed")
		return 1
	}
	return 0
}

func run(ctx context.Context) error {
	if *suite {
		return runSuite(ctx)
	}
	if *depth <= 0 {
		return errors.New("-depth must be > 0")
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	var table *perft.Table
	if *hashMB > 0 {
		table = perft.NewTable(*hashMB)
	}

	if *divide {
		if *cache != "" {
			return errors.New("-divide does not use the perft store; drop -cache")
		}
		return printDivide(ctx, pos, *depth, table)
	}

	var store *storage.Storage
	if *cache != "" {
		dir := *cache
		if dir == "default" {
			dir = ""
		}
		if store, err = storage.Open(dir); err != nil {
			return err
		}
		defer store.Close()
	}

	start := time.Now()
	var nodes uint64
	hit := false
	if store != nil {
		nodes, hit, err = store.Get(pos.Hash(), *depth)
	}
	if err != nil {
		return err
	}
	if !hit {
		if nodes, err = perft.ParallelHashed(ctx, pos, *depth, *workers, table); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	if table != nil {
		log.WithField("hit_rate", fmt.Sprintf("%.1f%%", 100*table.HitRate())).Debug("subtree table")
	}

	if store != nil && !hit {
		e := storage.PerftEntry{
			Hash:    pos.Hash(),
			Depth:   *depth,
			Nodes:   nodes,
			FEN:     pos.ToFEN(),
			Elapsed: elapsed,
		}
		if err := store.SavePerft(e); err != nil {
			log.WithError(err).Warn("could not record perft result")
		}
	}

	log.WithFields(log.Fields{
		"depth":   *depth,
		"nodes":   humanize.Comma(int64(nodes)),
		"elapsed": elapsed.Round(time.Millisecond),
		"nps":     humanize.Comma(int64(nps(nodes, elapsed))),
		"cached":  hit,
	}).Info("perft")
	fmt.Println(nodes)
	return nil
}

func printDivide(ctx context.Context, pos *board.Position, depth int, table *perft.Table) error {
	div, err := perft.DivideParallel(ctx, pos, depth, *workers, table)
	if err != nil {
		return err
	}
	var total uint64
	for _, e := range perft.SortedDivide(div) {
		fmt.Printf("%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	fmt.Printf("\nNodes searched: %d\n", total)
	return nil
}

func runSuite(ctx context.Context) error {
	failed := 0
	for _, c := range perft.Suite {
		pos, err := board.ParseFEN(c.FEN)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		for d := 1; d <= c.MaxDepth(*quick); d++ {
			start := time.Now()
			got, err := perft.Parallel(ctx, pos, d, *workers)
			if err != nil {
				return err
			}
			ctxLog := log.WithFields(log.Fields{
				"case":    c.Name,
				"depth":   d,
				"nodes":   humanize.Comma(int64(got)),
				"elapsed": time.Since(start).Round(time.Millisecond),
			})
			if want := c.Nodes[d-1]; got != want {
				ctxLog.WithField("want", humanize.Comma(int64(want))).Error("mismatch")
				failed++
				continue
			}
			ctxLog.Info("ok")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d suite depths failed", failed)
	}
	return nil
}

func nps(nodes uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(nodes) / d.Seconds()
}
