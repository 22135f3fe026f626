package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/airfoil/aero"
	"github.com/npillmayer/airfoil/parafoil"
	"github.com/npillmayer/airfoil/profile"
	"github.com/npillmayer/airfoil/study"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNACACalibrateDiscretize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dir := t.TempDir()
	dat := filepath.Join(dir, "naca.dat")
	json := filepath.Join(dir, "naca.json")
	out := filepath.Join(dir, "fitted.dat")
	var buf bytes.Buffer
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"naca", "-digits", "2412", "-n", "40", "-o", dat}, &buf))
	assert.Contains(t, buf.String(), "NACA_2412: 79 points")
	require.NoError(t, run(ctx, []string{"calibrate", "-in", dat, "-o", json}, &buf))
	assert.Contains(t, buf.String(), "squared error")
	require.NoError(t, run(ctx, []string{"discretize", "-in", json, "-n", "30", "-f", "0.5", "-o", out}, &buf))

	f, err := os.Open(json)
	require.NoError(t, err)
	defer f.Close()
	p, err := parafoil.Load(f)
	require.NoError(t, err)
	assert.Equal(t, "NACA_2412", p.Name)
	s, err := profile.ImportDat(out)
	require.NoError(t, err)
	assert.Equal(t, 59, s.Len())
	lo, hi := s.BoundingBox()
	assert.InDelta(t, 0.078, hi.Y(), 0.01)
	assert.InDelta(t, -0.041, lo.Y(), 0.01)
}

func TestResampleAndConformal(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dir := t.TempDir()
	jouk := filepath.Join(dir, "jouk.dat")
	res := filepath.Join(dir, "resampled.dat")
	var buf bytes.Buffer
	ctx := context.Background()
	require.NoError(t, run(ctx, []string{"conformal", "-kind", "joukowsky", "-n", "60", "-o", jouk}, &buf))
	require.NoError(t, run(ctx, []string{"resample", "-in", jouk, "-n", "40", "-o", res}, &buf))
	s, err := profile.ImportDat(res)
	require.NoError(t, err)
	assert.Equal(t, 41, s.Len())
	assert.Error(t, run(ctx, []string{"conformal", "-kind", "circle"}, &buf))
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "foilctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestOptimize(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	dir := t.TempDir()
	dat := filepath.Join(dir, "naca.dat")
	start := filepath.Join(dir, "start.json")
	json := filepath.Join(dir, "optimized.json")
	cfg := writeConfig(t, "discretize:\n  numpoints: 20\nsolver:\n  max_evaluations: 40\n")
	var buf bytes.Buffer
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"naca", "-digits", "0012", "-n", "30", "-o", dat}, &buf))
	require.NoError(t, saveParafoil(parafoil.Default(), start))
	buf.Reset()
	require.NoError(t, run(ctx, []string{"-config", cfg, "optimize", "-in", start, "-target", dat, "-o", json}, &buf))
	assert.Contains(t, buf.String(), "area deviation")
	assert.Contains(t, buf.String(), json)
	p, err := loadParafoil(json)
	require.NoError(t, err)
	assert.Equal(t, parafoil.Default().Name, p.Name)
	assert.Error(t, run(ctx, []string{"optimize", "-in", start}, &buf))
}

func TestStudy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	db := filepath.Join(t.TempDir(), "study.db")
	store, err := study.Open(db)
	require.NoError(t, err)
	c := aero.DefaultConditions()
	require.NoError(t, store.Save("NACA_2412", []study.Record{
		{Conditions: c, Coefficients: aero.Coefficients{Alpha: 2, Lift: 0.5, Drag: 0.008, Converged: true}},
		{Conditions: c, Failure: "no convergence"},
	}))
	require.NoError(t, store.Close())
	cfg := writeConfig(t, "study:\n  database: "+db+"\n")
	var buf bytes.Buffer
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"-config", cfg, "study"}, &buf))
	assert.Equal(t, "NACA_2412: 2 records, 1 failed\n", buf.String())
	buf.Reset()
	require.NoError(t, run(ctx, []string{"study", "-db", db, "-profile", "NACA_2412"}, &buf))
	assert.Contains(t, buf.String(), "cl 0.5000, cd 0.00800")
	assert.Contains(t, buf.String(), "(failed: no convergence)")
	assert.Contains(t, buf.String(), "NACA_2412: 2 records")
	assert.Error(t, run(ctx, []string{"study", "-db", filepath.Join(t.TempDir(), "missing.db")}, &buf))
}

func TestUsage(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var buf bytes.Buffer
	ctx := context.Background()
	assert.ErrorIs(t, run(ctx, nil, &buf), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"fly"}, &buf), errUsage)
	assert.Error(t, run(ctx, []string{"resample"}, &buf))
	cfg := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("discretize:\n  curvature_factor: 2\n"), 0o644))
	assert.Error(t, run(ctx, []string{"-config", cfg, "naca"}, &buf))
}
