package poker

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// equityResult holds the tallies from one Monte Carlo worker.
type equityResult struct {
	wins    int
	ties    int
	samples int
}

// Equity estimates the probability that hole wins at showdown against the
// given number of opponents holding random cards, counting ties as half a
// win. The board may be empty or partially dealt; missing streets are
// sampled. Samples are split across one worker per CPU, each with an
// independent RNG derived from rng.
func Equity(hole []Card, board []Card, opponents, samples int, rng *rand.Rand) (float64, error) {
	if len(hole) != 2 {
		return 0, fmt.Errorf("need exactly 2 hole cards, got %d", len(hole))
	}
	if len(board) > 5 {
		return 0, fmt.Errorf("board cannot exceed 5 cards, got %d", len(board))
	}
	if opponents < 1 || opponents > 9 {
		return 0, fmt.Errorf("opponents must be between 1 and 9, got %d", opponents)
	}
	if samples < 1 {
		return 0, fmt.Errorf("samples must be positive, got %d", samples)
	}

	used := make(map[Card]bool, len(hole)+len(board))
	for _, c := range hole {
		used[c] = true
	}
	for _, c := range board {
		if used[c] {
			return 0, fmt.Errorf("duplicate card: %s", c)
		}
		used[c] = true
	}
	if len(used) != len(hole)+len(board) {
		return 0, fmt.Errorf("duplicate hole card")
	}

	available := make([]Card, 0, 52-len(used))
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := Card{Rank: rank, Suit: suit}
			if !used[c] {
				available = append(available, c)
			}
		}
	}

	workers := runtime.NumCPU()
	if workers > samples {
		workers = samples
	}
	perWorker := samples / workers
	remainder := samples % workers

	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan equityResult, workers)

	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}

		// Independent RNG per worker to avoid contention
		workerSeed := rng.Int63()

		g.Go(func() error {
			result := runEquityWorker(hole, board, available, opponents, n, rand.New(rand.NewSource(workerSeed)))
			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(results)

	var wins, ties, total int
	for r := range results {
		wins += r.wins
		ties += r.ties
		total += r.samples
	}
	return (float64(wins) + float64(ties)/2) / float64(total), nil
}

func runEquityWorker(hole, board, available []Card, opponents, samples int, rng *rand.Rand) equityResult {
	pool := make([]Card, len(available))
	copy(pool, available)

	need := opponents*2 + 5 - len(board)
	fullBoard := make([]Card, 0, 5)
	hero := make([]Card, 0, 7)
	villain := make([]Card, 0, 7)

	var result equityResult
	for s := 0; s < samples; s++ {
		// Partial Fisher-Yates: only the cards we draw need shuffling.
		for i := 0; i < need; i++ {
			j := i + rng.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		drawn := pool[:need]

		fullBoard = append(fullBoard[:0], board...)
		fullBoard = append(fullBoard, drawn[:5-len(board)]...)

		hero = append(hero[:0], hole...)
		hero = append(hero, fullBoard...)
		heroEval, err := Evaluate(hero)
		if err != nil {
			continue
		}

		bestOpp := -1
		oppCards := drawn[5-len(board):]
		for o := 0; o < opponents; o++ {
			villain = append(villain[:0], oppCards[o*2], oppCards[o*2+1])
			villain = append(villain, fullBoard...)
			oppEval, err := Evaluate(villain)
			if err != nil {
				continue
			}
			if oppEval.Score > bestOpp {
				bestOpp = oppEval.Score
			}
		}

		result.samples++
		switch {
		case heroEval.Score > bestOpp:
			result.wins++
		case heroEval.Score == bestOpp:
			result.ties++
		}
	}
	return result
}
