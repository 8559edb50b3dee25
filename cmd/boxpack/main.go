package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/boxpack/internal/logging"
	"github.com/eugenenazirov/boxpack/internal/packer"
	"github.com/eugenenazirov/boxpack/internal/render"
	"github.com/eugenenazirov/boxpack/internal/scenario"
)

const (
	exitOK          = 0
	exitNotPacked   = 2
	exitInvalidArgs = 64
)

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boxpack: %v\n", err)
	}
	os.Exit(code)
}

type packOptions struct {
	scenario string
	box      string
	strategy string
	png      string
	scale    int
	format   string
	strict   bool
	logLevel string
}

func run(args []string, stdout io.Writer) (int, error) {
	app := kingpin.New("boxpack", "Places rectangular items into a box with a first-fit scan and reports the covered area")
	app.Terminate(nil)
	app.Writer(stdout)

	var opts packOptions
	packCmd := app.Command("pack", "Pack a scenario and print the result").Default()
	packCmd.Flag("scenario", "YAML/XLSX file or directory of scenario files (default: built-in sample)").Short('s').StringVar(&opts.scenario)
	packCmd.Flag("box", "Override the box as WIDTHxHEIGHT[xWEIGHT]").StringVar(&opts.box)
	packCmd.Flag("strategy", "Placement strategy").Default(packer.StrategyFirstFit).EnumVar(&opts.strategy, packer.Strategies()...)
	packCmd.Flag("png", "Write a rendering of the result to this path").StringVar(&opts.png)
	packCmd.Flag("scale", "Pixels per box unit in the rendering").Default("1").IntVar(&opts.scale)
	packCmd.Flag("format", "Output format").Default("text").EnumVar(&opts.format, "text", "json")
	packCmd.Flag("strict", "Exit with status 2 when not every item was placed").BoolVar(&opts.strict)
	packCmd.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").StringVar(&opts.logLevel)

	var sampleOut string
	sampleCmd := app.Command("sample", "Print the built-in sample scenario as YAML")
	sampleCmd.Flag("out", "Write to this file instead of stdout").Short('o').StringVar(&sampleOut)

	cmd, err := app.Parse(args)
	if err != nil {
		return exitInvalidArgs, err
	}

	switch cmd {
	case sampleCmd.FullCommand():
		return writeSample(stdout, sampleOut)
	default:
		return pack(stdout, opts)
	}
}

func writeSample(stdout io.Writer, path string) (int, error) {
	data, err := scenario.MarshalYAML(scenario.Default())
	if err != nil {
		return 1, fmt.Errorf("encode sample: %w", err)
	}
	if path == "" {
		_, err = stdout.Write(data)
		return exitOK, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 1, fmt.Errorf("write sample: %w", err)
	}
	return exitOK, nil
}

func pack(stdout io.Writer, opts packOptions) (int, error) {
	logger, err := logging.New(opts.logLevel)
	if err != nil {
		return exitInvalidArgs, err
	}
	defer func() {
		_ = logger.Sync()
	}()

	sc := scenario.Default()
	if opts.scenario != "" {
		if sc, err = scenario.Load(opts.scenario); err != nil {
			return 1, fmt.Errorf("load scenario: %w", err)
		}
	}
	if opts.box != "" {
		box, err := parseBox(opts.box)
		if err != nil {
			return exitInvalidArgs, err
		}
		sc.Box = box
	}
	if err := sc.Validate(); err != nil {
		return exitInvalidArgs, err
	}

	finder, err := packer.FinderByName(opts.strategy)
	if err != nil {
		return exitInvalidArgs, err
	}

	logger.Debug("packing scenario",
		zap.Int("box_width", sc.Box.Width),
		zap.Int("box_height", sc.Box.Height),
		zap.Int("items", len(sc.Items)),
		zap.Int64("grid_cells", packer.GridCells(sc.Box, sc.Items)),
		zap.String("strategy", opts.strategy),
	)

	start := time.Now()
	res := packer.New(packer.WithFinder(finder)).Solve(sc.Box, sc.Items)
	elapsed := time.Since(start)

	if !res.Succeeded {
		logger.Warn("not every item could be placed", zap.Int("requested", res.Requested))
	}

	if opts.png != "" {
		if err := render.Save(opts.png, sc.Box, res, opts.scale); err != nil {
			return 1, fmt.Errorf("render: %w", err)
		}
		logger.Info("rendering written", zap.String("path", opts.png))
	}

	if err := writeResult(stdout, opts.format, sc.Box, res, elapsed); err != nil {
		return 1, err
	}

	if opts.strict && !res.Succeeded {
		return exitNotPacked, nil
	}
	return exitOK, nil
}

type placementOutput struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Weight int `json:"weight"`
}

type resultOutput struct {
	Succeeded   bool              `json:"succeeded"`
	Requested   int               `json:"requested"`
	Box         packer.Box        `json:"box"`
	Fitness     float64           `json:"fitness"`
	TotalWeight int               `json:"totalWeight"`
	Placements  []placementOutput `json:"placements"`
	ElapsedMs   int64             `json:"elapsedMs"`
}

func writeResult(w io.Writer, format string, box packer.Box, res packer.Result, elapsed time.Duration) error {
	out := resultOutput{
		Succeeded:   res.Succeeded,
		Requested:   res.Requested,
		Box:         box,
		Fitness:     res.Fitness,
		TotalWeight: res.TotalWeight,
		Placements:  make([]placementOutput, 0, len(res.Placements)),
		ElapsedMs:   elapsed.Milliseconds(),
	}
	for i, p := range res.Placements {
		out.Placements = append(out.Placements, placementOutput{
			Index: i, X: p.X, Y: p.Y,
			Width: p.Item.Width, Height: p.Item.Height, Weight: p.Item.Weight,
		})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	status := "packed"
	if !res.Succeeded {
		status = "not packed"
	}
	if _, err := fmt.Fprintf(w, "box %dx%d: %s, %d/%d items, fitness %.4f, total weight %d\n",
		box.Width, box.Height, status, len(res.Placements), res.Requested, res.Fitness, res.TotalWeight); err != nil {
		return err
	}
	for _, p := range out.Placements {
		if _, err := fmt.Fprintf(w, "  #%d %dx%d at (%d,%d)\n", p.Index, p.Width, p.Height, p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

// parseBox reads WIDTHxHEIGHT or WIDTHxHEIGHTxWEIGHT.
func parseBox(raw string) (packer.Box, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "x")
	if len(parts) != 2 && len(parts) != 3 {
		return packer.Box{}, fmt.Errorf("invalid box %q: expected WIDTHxHEIGHT[xWEIGHT]", raw)
	}
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return packer.Box{}, fmt.Errorf("invalid box %q: %w", raw, err)
		}
		values[i] = v
	}
	box := packer.Box{Width: values[0], Height: values[1]}
	if len(values) == 3 {
		box.Weight = values[2]
	}
	if err := packer.ValidateBox(box); err != nil {
		return packer.Box{}, err
	}
	return box, nil
}
