package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/export"
	"github.com/korylee/diagen/pathfinding"
	"github.com/korylee/diagen/routecache"
	"github.com/korylee/diagen/scene"
	"github.com/korylee/diagen/viewer"
)

const cacheSize = 256

type options struct {
	ascii   bool
	json    bool
	geojson string
	algo    string
	scale   float64
	verbose bool
	file    string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("routeview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.ascii, "ascii", false, "Print the routed scene as text and exit")
	fs.BoolVar(&opts.json, "json", false, "Print the routing results as JSON and exit")
	fs.StringVar(&opts.geojson, "geojson", "", "Write elements and routes as GeoJSON to this file")
	fs.StringVar(&opts.algo, "algo", "", "Route every connector with this algorithm: hybrid, astar or orthogonal")
	fs.Float64Var(&opts.scale, "scale", export.DefaultScale, "Canvas units per character for -ascii")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: routeview [options] scene.json\n\n")
		fmt.Fprintf(stderr, "Routes the connectors of a scene around its elements.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  routeview scene.json                       # Interactive viewer\n")
		fmt.Fprintf(stderr, "  routeview -ascii -algo astar scene.json    # Print routes found by grid search\n")
		fmt.Fprintf(stderr, "  routeview -geojson routes.geojson scene.json\n")
		fmt.Fprintf(stderr, "\nViewer keys:\n")
		fmt.Fprintf(stderr, "  tab/shift-tab   select connector\n")
		fmt.Fprintf(stderr, "  arrows          move the selected connector's target\n")
		fmt.Fprintf(stderr, "  a               cycle the routing algorithm\n")
		fmt.Fprintf(stderr, "  q/esc           quit\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("exactly one scene file is required")
	}
	opts.file = fs.Arg(0)
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func run(opts options, stdout io.Writer) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	s, err := scene.LoadFile(opts.file)
	if err != nil {
		return err
	}
	logger.Info("scene loaded",
		zap.String("file", opts.file),
		zap.Int("elements", len(s.Elements)),
		zap.Int("connectors", len(s.Connectors)))

	if opts.algo != "" {
		algo, err := core.ParseAlgorithm(opts.algo)
		if err != nil {
			return err
		}
		for i := range s.Connectors {
			if err := s.SetAlgorithm(i, algo); err != nil {
				return err
			}
		}
	}

	router := pathfinding.NewRouter(s.Config, logger)
	cache, err := routecache.New(router, cacheSize)
	if err != nil {
		return err
	}

	batch := opts.ascii || opts.json || opts.geojson != ""
	if !batch {
		err := runViewer(s, cache)
		logger.Info("viewer closed", zap.Stringer("cache", cache.Stats()))
		return err
	}

	routes := s.RouteAll(cache)
	logRoutes(logger, routes)

	if opts.geojson != "" {
		if err := writeExport(export.NewGeoJSONExporter(), s, routes, opts.geojson); err != nil {
			return err
		}
		logger.Info("geojson written", zap.String("file", opts.geojson))
	}
	if opts.json {
		if err := printExport(export.NewJSONExporter(), s, routes, stdout); err != nil {
			return err
		}
	}
	if opts.ascii {
		if err := printExport(export.NewASCIIExporter(opts.scale), s, routes, stdout); err != nil {
			return err
		}
	}
	return nil
}

func logRoutes(logger *zap.Logger, routes []scene.Routed) {
	failed := 0
	for _, r := range routes {
		if !r.Result.Success {
			failed++
		}
		logger.Info("connector routed",
			zap.String("id", r.ID),
			zap.Bool("success", r.Result.Success),
			zap.Int("points", len(r.Result.Points)),
			zap.Float64("cost", r.Result.Cost))
	}
	logger.Info("routing finished", zap.Int("routes", len(routes)), zap.Int("failed", failed))
}

func printExport(e export.Exporter, s *scene.Scene, routes []scene.Routed, w io.Writer) error {
	out, err := e.Export(s, routes)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", e.GetFormatName(), err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeExport(e export.Exporter, s *scene.Scene, routes []scene.Routed, path string) error {
	out, err := e.Export(s, routes)
	if err != nil {
		return fmt.Errorf("exporting %s: %w", e.GetFormatName(), err)
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func runViewer(s *scene.Scene, router scene.Router) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	v, err := viewer.New(screen, s, router)
	if err != nil {
		return err
	}
	return v.Run()
}
