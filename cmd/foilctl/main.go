/*
Command foilctl generates, resamples and fits airfoils.

Usage:

	foilctl [-config file.yaml] <command> [options]

Commands:

	naca        compute a NACA 4-digit airfoil
	conformal   compute an airfoil by conformal mapping
	resample    resample an airfoil with the double-cosine distribution
	calibrate   fit a parametric airfoil to a coordinate file
	discretize  convert a parametric airfoil to a coordinate file
	optimize    minimize the area deviation of a parametric airfoil from a target
	study       list stored parameter study results

Coordinate files use the '.dat' format, parametric airfoils are stored as JSON.
Call a command with -h for its options.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/npillmayer/airfoil/config"
	"github.com/npillmayer/airfoil/conformal"
	"github.com/npillmayer/airfoil/parafoil"
	"github.com/npillmayer/airfoil/profile"
	"github.com/npillmayer/airfoil/study"
	"github.com/npillmayer/schuko/tracing"
)

var traceKeys = []string{
	"airfoil", "airfoil.profile", "airfoil.polygon", "airfoil.nurbs", "airfoil.lsq",
	"airfoil.parafoil", "airfoil.aero", "airfoil.study", "airfoil.conformal", "airfoil.polyn",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "foilctl: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error
}

var commands = []command{
	{"naca", "compute a NACA 4-digit airfoil", runNACA},
	{"conformal", "compute an airfoil by conformal mapping", runConformal},
	{"resample", "resample an airfoil", runResample},
	{"calibrate", "fit a parametric airfoil to a coordinate file", runCalibrate},
	{"discretize", "convert a parametric airfoil to a coordinate file", runDiscretize},
	{"optimize", "minimize the area deviation from a target airfoil", runOptimize},
	{"study", "list stored parameter study results", runStudy},
}

var errUsage = errors.New("usage: foilctl [-config file.yaml] <naca|conformal|resample|calibrate|discretize|optimize|study> [options]")

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("foilctl", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(cfg.TraceLevel())
	}
	if fs.NArg() == 0 {
		return errUsage
	}
	for _, cmd := range commands {
		if cmd.name == fs.Arg(0) {
			return cmd.run(ctx, cfg, fs.Args()[1:], out)
		}
	}
	return fmt.Errorf("unknown command %q\n%w", fs.Arg(0), errUsage)
}

func summary(out io.Writer, s *profile.Shape, path string) {
	lo, hi := s.BoundingBox()
	fmt.Fprintf(out, "%s: %s points, nose at #%d, thickness %.4f, area %.5f -> %s\n",
		s.Name, humanize.Comma(int64(s.Len())), s.NoseIndex(), hi.Y()-lo.Y(), s.Area(), path)
}

func runNACA(_ context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("naca", flag.ContinueOnError)
	digits := fs.String("digits", "2412", "NACA 4-digit code")
	n := fs.Int("n", cfg.Profile.NumPoints, "points per surface")
	o := fs.String("o", "", "output file (default NACA_<digits>.dat)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := profile.NACA4(*digits, *n)
	if err != nil {
		return err
	}
	return export(out, s, *o)
}

func runConformal(_ context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("conformal", flag.ContinueOnError)
	kind := fs.String("kind", "joukowsky", "mapping: joukowsky, trefftz or vandevooren")
	mx := fs.Float64("mx", -0.1, "real part of the circle's midpoint")
	my := fs.Float64("my", 0.1, "imaginary part of the circle's midpoint")
	tau := fs.Float64("tau", 0.05, "trailing edge angle in radians")
	eps := fs.Float64("eps", 0.05, "thickness parameter (Van de Vooren)")
	n := fs.Int("n", cfg.Profile.NumPoints, "number of points, rounded to even")
	o := fs.String("o", "", "output file (default <name>.dat)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var m profile.Mapping
	switch *kind {
	case "joukowsky":
		m = conformal.Joukowsky{Midpoint: complex(*mx, *my)}
	case "trefftz":
		m = conformal.TrefftzKutta{Midpoint: complex(*mx, *my), Tau: *tau}
	case "vandevooren":
		m = conformal.VanDeVooren{Tau: *tau, Epsilon: *eps}
	default:
		return fmt.Errorf("unknown mapping %q", *kind)
	}
	s, err := profile.FromMapping(m, *n)
	if err != nil {
		return err
	}
	return export(out, s, *o)
}

func runResample(_ context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resample", flag.ContinueOnError)
	in := fs.String("in", "", "input coordinate file")
	n := fs.Int("n", cfg.Profile.NumPoints, "number of points, rounded to even")
	o := fs.String("o", "", "output file (default <name>.dat)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := importDat(*in)
	if err != nil {
		return err
	}
	if err = s.SetNumPoints(*n); err != nil {
		return err
	}
	return export(out, s, *o)
}

func runCalibrate(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	in := fs.String("in", "", "input coordinate file")
	start := fs.String("start", "", "parametric airfoil to start from (default built-in)")
	o := fs.String("o", "", "output file (default <name>.json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	target, err := importDat(*in)
	if err != nil {
		return err
	}
	p := parafoil.Default()
	if *start != "" {
		if p, err = loadParafoil(*start); err != nil {
			return err
		}
	}
	p.Name = target.Name
	cal, err := p.Calibrate(ctx, target, parafoil.CalibrationOptions{
		Selection: cfg.Selection(),
		Solver:    cfg.SolverSettings(),
	})
	if err != nil {
		return err
	}
	path := *o
	if path == "" {
		path = p.Name + ".json"
	}
	if err = saveParafoil(p, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: squared error %.3g after %s evaluations (upper: %s, lower: %s) -> %s\n",
		p.Name, cal.SquaredError(),
		humanize.Comma(int64(cal.Upper.Evaluations+cal.Lower.Evaluations)),
		cal.Upper.Status, cal.Lower.Status, path)
	return nil
}

func runDiscretize(_ context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("discretize", flag.ContinueOnError)
	in := fs.String("in", "", "parametric airfoil (JSON)")
	n := fs.Int("n", cfg.Discretize.NumPoints, "points per surface")
	f := fs.Float64("f", cfg.Discretize.CurvatureFactor, "curvature factor in [0,1]")
	o := fs.String("o", "", "output file (default <name>.dat)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := loadParafoil(*in)
	if err != nil {
		return err
	}
	s, err := p.Discretize(*n, *f)
	if err != nil {
		return err
	}
	return export(out, s, *o)
}

func runOptimize(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	in := fs.String("in", "", "parametric airfoil (JSON)")
	target := fs.String("target", "", "target coordinate file")
	o := fs.String("o", "", "output file (default <name>.json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := loadParafoil(*in)
	if err != nil {
		return err
	}
	if *target == "" {
		return errors.New("missing target file, use -target")
	}
	t, err := profile.ImportDat(*target)
	if err != nil {
		return err
	}
	opt, err := p.Optimize(ctx, parafoil.AreaDeviation(t), cfg.OptimizeOptions())
	if err != nil {
		return err
	}
	path := *o
	if path == "" {
		path = p.Name + ".json"
	}
	if err = saveParafoil(p, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: area deviation %.3g after %s evaluations (%s failures), %s -> %s\n",
		p.Name, math.Sqrt(opt.Result.SquaredError()), humanize.Comma(int64(opt.Evaluations)),
		humanize.Comma(int64(opt.Failures)), opt.Result.Status, path)
	return nil
}

func runStudy(_ context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("study", flag.ContinueOnError)
	db := fs.String("db", cfg.Study.Database, "study database")
	name := fs.String("profile", "", "print the records of this profile (default: list profiles)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := os.Stat(*db); err != nil {
		return fmt.Errorf("study database: %w", err)
	}
	store, err := study.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()
	if *name != "" {
		recs, err := store.Load(*name)
		if err != nil {
			return err
		}
		for _, r := range recs {
			k := r.Coefficients
			fmt.Fprintf(out, "%v: alpha %.2f, cl %.4f, cd %.5f, cm %.4f", r.Conditions, k.Alpha, k.Lift, k.Drag, k.Moment)
			if !r.OK() {
				fmt.Fprintf(out, " (failed: %s)", r.Failure)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s: %s records\n", *name, humanize.Comma(int64(len(recs))))
		return nil
	}
	names, err := store.Profiles()
	if err != nil {
		return err
	}
	for _, n := range names {
		recs, err := store.Load(n)
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range recs {
			if !r.OK() {
				failed++
			}
		}
		fmt.Fprintf(out, "%s: %s records, %s failed\n", n,
			humanize.Comma(int64(len(recs))), humanize.Comma(int64(failed)))
	}
	return nil
}

func importDat(path string) (*profile.Shape, error) {
	if path == "" {
		return nil, errors.New("missing input file, use -in")
	}
	return profile.ImportDat(path)
}

func export(out io.Writer, s *profile.Shape, path string) error {
	if path == "" {
		path = s.Name + ".dat"
	}
	if err := s.ExportDat(path); err != nil {
		return err
	}
	summary(out, s, path)
	return nil
}

func loadParafoil(path string) (*parafoil.Parafoil, error) {
	if path == "" {
		return nil, errors.New("missing input file, use -in")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parafoil.Load(f)
}

func saveParafoil(p *parafoil.Parafoil, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = p.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
