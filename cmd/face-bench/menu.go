package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drakos74/face-bench/client/faces"
	"github.com/drakos74/face-bench/internal/bench"
	"github.com/drakos74/face-bench/internal/math/ml"
	"github.com/rs/zerolog/log"
)

// Action tells the menu loop whether to go on.
type Action int

const (
	Continue Action = iota
	Quit
)

type runner interface {
	Run(ctx context.Context, ds *ml.Dataset, p bench.Pipeline) (bench.Report, error)
}

// Menu lets the user pick a pipeline and benchmarks it on the loaded dataset.
type Menu struct {
	loader    faces.Loader
	validator runner
	pipelines []bench.Pipeline
	in        *bufio.Scanner
	out       io.Writer
}

// NewMenu creates a menu offering the given pipelines as choices 1..n.
func NewMenu(loader faces.Loader, validator runner, in io.Reader, out io.Writer, pipelines ...bench.Pipeline) *Menu {
	return &Menu{
		loader:    loader,
		validator: validator,
		pipelines: pipelines,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Loop runs menu steps until the user quits.
func (m *Menu) Loop(ctx context.Context) {
	for m.Step(ctx) == Continue {
	}
}

// Step shows the choices, reads one line and acts on it.
func (m *Menu) Step(ctx context.Context) Action {
	if ctx.Err() != nil {
		return Quit
	}
	fmt.Fprintln(m.out)
	for i, p := range m.pipelines {
		fmt.Fprintf(m.out, "%d: %s\n", i+1, p.Name())
	}
	fmt.Fprintln(m.out, "0: quit")
	fmt.Fprint(m.out, "> ")

	if !m.in.Scan() {
		return Quit
	}
	input := strings.TrimSpace(m.in.Text())
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 0 || choice > len(m.pipelines) {
		fmt.Fprintf(m.out, "invalid choice '%s'\n", input)
		return Continue
	}
	if choice == 0 {
		return Quit
	}

	p := m.pipelines[choice-1]
	ds, err := m.loader.Load()
	if err != nil {
		log.Error().Err(err).Msg("could not load dataset")
		fmt.Fprintf(m.out, "could not load dataset: %v\n", err)
		return Continue
	}
	report, err := m.validator.Run(ctx, ds, p)
	if err != nil {
		log.Error().Err(err).Str("pipeline", p.Name()).Msg("benchmark failed")
		fmt.Fprintf(m.out, "%s failed: %v\n", p.Name(), err)
	}
	if len(report.Folds) > 0 {
		fmt.Fprintln(m.out, report.String())
		report.Table(m.out)
	}
	return Continue
}
