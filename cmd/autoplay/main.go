package main

import (
	"flag"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-agent/internal/agent"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var log = logrus.New()

var (
	height   int
	width    int
	mineCnt  int
	games    int
	seed     uint64
	logPath  string
	verbose  bool
	maxMoves int
)

func init() {
	flag.IntVar(&height, "height", 9, "board height")
	flag.IntVar(&width, "width", 9, "board width")
	flag.IntVar(&mineCnt, "mines", 10, "mine count")
	flag.IntVar(&games, "games", 100, "number of games to play")
	flag.Uint64Var(&seed, "seed", 0, "rng seed (0 picks a random one)")
	flag.StringVar(&logPath, "log", "", "also log to a rotating file at this path")
	flag.BoolVar(&verbose, "v", false, "log every game")
	flag.IntVar(&maxMoves, "max-moves", 0, "move limit per game (0 = twice the cell count)")
}

func setupLogging() {
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if logPath == "" {
		return
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logrus.DebugLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Fatal("unable to create rotating log file: ", err)
	}
	log.AddHook(hook)
}

func main() {
	flag.Parse()
	setupLogging()

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	r := rand.New(rand.NewPCG(seed, seed))

	if maxMoves == 0 {
		maxMoves = height * width * 2
	}

	log.WithFields(logrus.Fields{
		"board": logrus.Fields{"height": height, "width": width, "mines": mineCnt},
		"games": games,
		"seed":  seed,
	}).Info("starting autoplay")

	var won, exploded, stalled, totalSafe, totalRandom int
	for i := range games {
		board, err := mines.NewBoard(height, width, mineCnt, r)
		if err != nil {
			log.Fatal("unable to build board: ", err)
		}

		a := agent.New(height, width, r)
		transcript, err := a.Play(board, maxMoves)
		if err != nil {
			log.Fatal("agent failed: ", err)
		}

		switch transcript.Outcome {
		case agent.Won:
			won++
		case agent.Exploded:
			exploded++
		case agent.Stalled:
			stalled++
		}
		totalSafe += a.SafeMoves
		totalRandom += a.RandomMoves

		log.WithFields(logrus.Fields{
			"game":         i + 1,
			"outcome":      transcript.Outcome.String(),
			"moves":        len(transcript.Steps),
			"safe_moves":   a.SafeMoves,
			"random_moves": a.RandomMoves,
		}).Debug("game over")
	}

	log.WithFields(logrus.Fields{
		"won":          won,
		"exploded":     exploded,
		"stalled":      stalled,
		"safe_moves":   totalSafe,
		"random_moves": totalRandom,
	}).Info("done")

	if exploded == games {
		os.Exit(1)
	}
}
