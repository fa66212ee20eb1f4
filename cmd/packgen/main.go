// Command packgen plays random games and writes the visited positions as a
// zstd-compressed stream of board packs or policy packs. The output is
// meant for exercising training pipelines, not for training strong nets:
// scores come from a material count.
package main

import (
	"context"
	"flag"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/binpack"
	"github.com/hailam/chesscore/internal/board"
)

var (
	out     = flag.String("out", "packs.zst", "output file")
	games   = flag.Int("games", 100, "number of games to play")
	workers = flag.Int("workers", 4, "games played concurrently")
	seed    = flag.Uint64("seed", 1, "random seed")
	maxPly  = flag.Int("maxply", 300, "adjudicate a draw after this many plies")
	skip    = flag.Int("skip", 8, "opening plies not written")
	policy  = flag.Bool("policy", false, "write policy packs instead of board packs")
	fen     = flag.String("fen", board.StartFEN, "starting position")
)

// pieceValues are in pawns, indexed by board.PieceType.
var pieceValues = [6]float64{1, 3, 3, 5, 9, 0}

func main() {
	flag.Parse()
	log.SetHandler(cli.New(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Error("packgen failed")
		stop()
		os.Exit(1)
	}
}

// game is the packs of one finished game.
type game struct {
	boards   []binpack.BoardPack
	policies []*binpack.PolicyPack
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := binpack.NewWriter(f)
	if err != nil {
		return err
	}

	began := time.Now()
	results := make(chan game)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers + 1)

	g.Go(func() error {
		for i := 0; i < *games; i++ {
			rng := rand.New(rand.NewPCG(*seed, uint64(i)))
			g.Go(func() error {
				res := play(start, rng)
				select {
				case results <- res:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			if gctx.Err() != nil {
				break
			}
		}
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(results)
	}()

	for res := range results {
		for i := range res.boards {
			if err := w.WriteBoard(&res.boards[i]); err != nil {
				return err
			}
		}
		for _, p := range res.policies {
			if err := w.WritePolicy(p); err != nil {
				return err
			}
		}
	}
	if err := <-done; err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"file":    *out,
		"games":   *games,
		"packs":   humanize.Comma(int64(w.Count())),
		"elapsed": time.Since(began).Round(time.Millisecond),
	}).Info("done")
	return nil
}

// play runs one random game from start and packs every position past the
// opening plies.
func play(start *board.Position, rng *rand.Rand) game {
	g := board.NewGame(start)
	var res game
	for ply := 0; ply < *maxPly; ply++ {
		pos := &g.Position
		if g.IsDraw() || pos.IsCheckmate() {
			break
		}
		moves := pos.GenerateLegalMoves().Slice()
		if ply >= *skip {
			if *policy {
				res.policies = append(res.policies, policyPack(pos, moves))
			} else {
				res.boards = append(res.boards, binpack.NewBoardPack(pos, materialScore(pos)))
			}
		}
		g.MakeMove(moves[rng.IntN(len(moves))])
	}

	winner := board.NoColor
	if g.Position.IsCheckmate() {
		winner = g.Position.SideToMove().Other()
	}
	for i := range res.boards {
		res.boards[i].ApplyResult(winner)
	}
	log.WithFields(log.Fields{
		"moves":  g.Position.FullMoveNumber(),
		"winner": winner,
	}).Debug("game over")
	return res
}

// materialScore maps the side-to-move material lead to a win expectation.
func materialScore(pos *board.Position) float32 {
	us := pos.SideToMove()
	var diff float64
	for pt := board.Pawn; pt < board.King; pt++ {
		n := pos.PieceMaskOf(pt, us).PopCount() - pos.PieceMaskOf(pt, us.Other()).PopCount()
		diff += float64(n) * pieceValues[pt]
	}
	return float32(1 / (1 + math.Exp(-diff/4)))
}

// policyPack weights captures by the value of the captured piece.
func policyPack(pos *board.Position, moves []board.Move) *binpack.PolicyPack {
	p := binpack.NewPolicyPack(pos)
	for _, m := range moves {
		visits := uint16(1)
		if m.IsCapture() {
			victim := board.Pawn
			if !m.IsEnPassant() {
				victim = pos.TypeAt(m.To())
			}
			visits += uint16(pieceValues[victim])
		}
		if err := p.PushMove(m, visits); err != nil {
			log.WithFields(log.Fields{
				"fen":     pos.ToFEN(),
				"dropped": len(moves) - p.Len(),
			}).Warn("policy pack full")
			break
		}
	}
	return p
}
