package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/volumetric/config"
	"go.viam.com/volumetric/shape"
	"go.viam.com/volumetric/trimesh"
)

type pointResult struct {
	Point    [3]float64 `json:"point"`
	Distance float64    `json:"distance"`
}

type queryResult struct {
	Name   string       `json:"name"`
	Type   shape.Kind   `json:"type"`
	Hollow bool         `json:"hollow"`
	Inside bool         `json:"inside"`
	Outer  *pointResult `json:"outer,omitempty"`
	Inner  *pointResult `json:"inner,omitempty"`
	Final  *pointResult `json:"final,omitempty"`
}

func newPointResult(pt r3.Vector, dist float64, ok bool) *pointResult {
	if !ok {
		return nil
	}
	return &pointResult{Point: [3]float64{pt.X, pt.Y, pt.Z}, Distance: dist}
}

// QueryAction loads a scene, runs it for the requested ticks and prints every shape's results.
func QueryAction(c *cli.Context) error {
	logger, done := newLogger(c)
	defer done()

	path := c.Path(flagScene)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	listener, ok := cfg.ListenerPoint()
	if s := c.String(flagListener); s != "" {
		if listener, err = parseVector(s); err != nil {
			return errors.Wrapf(err, "invalid --%s", flagListener)
		}
		ok = true
	}
	if !ok {
		return errors.Errorf("scene %q has no listener, pass --%s", path, flagListener)
	}

	scene, err := config.Build(cfg, logger, filepath.Dir(path))
	if err != nil {
		return err
	}

	tick := shape.ListenerAt(listener, c.Duration(flagElapsed))
	ticks := c.Int(flagTicks)
	if ticks < 1 {
		ticks = 1
	}
	for i := 0; i < ticks; i++ {
		if err := scene.Step(tick); err != nil {
			warningf(c.App.ErrWriter, "tick %d: %v", i, err)
		}
	}

	results := make([]queryResult, 0, len(scene.Instances()))
	for _, in := range scene.Instances() {
		res := queryResult{Name: in.Name, Hollow: in.Hollow, Inside: in.Result.InnerPointSet && in.Result.InnerPointInside}
		if in.Geometry != nil {
			res.Type = in.Geometry.Kind()
		}
		res.Outer = newPointResult(in.Result.OuterPoint, in.Result.OuterPointDistance, in.Result.OuterPointSet)
		res.Inner = newPointResult(in.Result.InnerPoint, in.Result.InnerPointDistance, in.Result.InnerPointSet)
		res.Final = newPointResult(in.FinalPoint())
		results = append(results, res)
	}

	if c.Bool(flagJSON) {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%s", data)
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Type", "Hollow", "Inside", "Point", "Distance"})
	for i, res := range results {
		point, dist := "none", ""
		if res.Final != nil {
			point = formatVector(r3.Vector{X: res.Final.Point[0], Y: res.Final.Point[1], Z: res.Final.Point[2]})
			dist = fmt.Sprintf("%.4f", res.Final.Distance)
		}
		t.AppendRow(table.Row{i + 1, res.Name, res.Type, res.Hollow, res.Inside, point, dist})
	}
	printf(c.App.Writer, "listener %s", formatVector(listener))
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

func readOBJ(path string) (*trimesh.IndexedMesh, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()
	src, err := trimesh.LoadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q", path)
	}
	return src, nil
}

// BakeAction builds a tree from an OBJ file and writes it where a scene's mesh.baked can read it.
func BakeAction(c *cli.Context) error {
	logger, done := newLogger(c)
	defer done()

	src, err := readOBJ(c.Path(flagOBJ))
	if err != nil {
		return err
	}
	start := time.Now()
	tree := trimesh.NewTree()
	if err := tree.Update(src); err != nil {
		return err
	}
	if !tree.IsBaked() {
		return errors.Errorf("%q has no triangles", c.Path(flagOBJ))
	}
	logger.Debugw("built tree", "triangles", tree.Len(), "nodes", len(tree.Nodes), "took", time.Since(start))

	out := c.Path(flagOut)
	//nolint:gosec
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := tree.Save(f); err != nil {
		//nolint:errcheck
		f.Close()
		return errors.Wrapf(err, "cannot write %q", out)
	}
	if err := f.Close(); err != nil {
		return err
	}
	infof(c.App.Writer, "baked %d triangles into %d nodes in %q", tree.Len(), len(tree.Nodes), out)
	return nil
}

// BenchAction times closest point queries on the tree and on a linear scan of the same mesh, and
// reports any query where the two disagree.
func BenchAction(c *cli.Context) error {
	logger, done := newLogger(c)
	defer done()

	src, err := readOBJ(c.Path(flagOBJ))
	if err != nil {
		return err
	}
	start := time.Now()
	tree := trimesh.NewTree()
	if err := tree.Update(src); err != nil {
		return err
	}
	buildTime := time.Since(start)
	logger = logger.With("mesh", c.Path(flagOBJ))
	bound, ok := tree.Bounds()
	if !ok {
		return errors.Errorf("%q has no triangles", c.Path(flagOBJ))
	}
	linear := trimesh.NewLinear()
	if err := linear.Update(src); err != nil {
		return err
	}

	n := c.Int(flagQueries)
	if n < 1 {
		return errors.Errorf("--%s must be positive", flagQueries)
	}
	//nolint:gosec
	rng := rand.New(rand.NewSource(c.Int64(flagSeed)))
	span := bound.Size().Mul(1.5)
	lo := bound.Center().Sub(span.Mul(0.5))
	points := make([]r3.Vector, n)
	for i := range points {
		points[i] = r3.Vector{
			X: lo.X + rng.Float64()*span.X,
			Y: lo.Y + rng.Float64()*span.Y,
			Z: lo.Z + rng.Float64()*span.Z,
		}
	}

	compare := !c.Bool(flagNoCompare)
	treeTimes := make([]float64, n)
	linearTimes := make([]float64, n)
	var mismatches atomic.Int64

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(max(c.Int(flagParallel), 1))
	for i := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pt := points[i]
			start := time.Now()
			fromTree := tree.FindClosestPoint(pt)
			treeTimes[i] = float64(time.Since(start).Microseconds())
			if !compare {
				return nil
			}
			start = time.Now()
			fromLinear := linear.FindClosestPoint(pt)
			linearTimes[i] = float64(time.Since(start).Microseconds())
			if math.Abs(fromTree.Distance(pt)-fromLinear.Distance(pt)) > 1e-9 {
				mismatches.Add(1)
				logger.Debugw("tree and linear scan disagree", "query", pt, "tree", fromTree, "linear", fromLinear)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printf(c.App.Writer, "%d triangles, %d nodes, built in %s", tree.Len(), len(tree.Nodes), buildTime)
	printTimings(c, "tree", treeTimes)
	if compare {
		printTimings(c, "linear", linearTimes)
		if m := mismatches.Load(); m > 0 {
			warningf(c.App.ErrWriter, "%d of %d queries disagree", m, n)
			return errors.New("tree results do not match the linear scan")
		}
	}
	return nil
}

func printTimings(c *cli.Context, label string, micros []float64) {
	sorted := append([]float64(nil), micros...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	printf(c.App.Writer, "%-6s mean %.1fµs stddev %.1fµs p50 %.1fµs p99 %.1fµs",
		label, mean, std,
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.99, stat.Empirical, sorted, nil))
}

// VersionAction prints the module version and the Go version it was built with.
func VersionAction(c *cli.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("error reading build info")
	}
	printf(c.App.Writer, "Version: %s Go Version: %s", info.Main.Version, info.GoVersion)
	return nil
}
