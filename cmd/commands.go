package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/output"
	"github.com/dargueta/tilecrunch/planner"
	"github.com/dargueta/tilecrunch/tiled"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

func compressMap(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("compress takes exactly one SOURCE", 1)
	}
	source := c.Args().First()
	logger := newLogger(c).Named("compress")

	mode, err := planner.ParseMode(c.String("mode"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := tiled.Load(source)
	if err != nil {
		return cli.Exit(err, 1)
	}
	roomWidth, roomHeight, err := roomSize(c, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	base := c.String("output")
	if base == "" {
		base = strings.TrimSuffix(source, filepath.Ext(source))
	}

	layers, err := selectLayers(m, c.StringSlice("layer"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	p := planner.New(planner.Options{
		Ceiling: c.Int("ceiling"),
		Logger:  logger,
	})

	var merr *multierror.Error
	for _, layer := range layers {
		layerLogger := logger.With("layer", layer.Name)

		artifact, err := p.Plan(layer.Grid, mode, roomWidth, roomHeight)
		if err != nil {
			layerLogger.Error("compression failed", "error", err)
			merr = multierror.Append(merr, fmt.Errorf("layer %q: %w", layer.Name, err))
			continue
		}

		path := bankPath(base, layer.Name)
		written, err := writeBankFile(path, artifact)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("layer %q: %w", layer.Name, err))
			continue
		}
		layerLogger.Info(
			"wrote bank image",
			"path", path,
			"bytes", written,
			"size", artifact.TotalSize,
			"ceiling", p.Ceiling(),
		)
		if written > tilecrunch.BankSize {
			// 16-bit stream elements count as one unit each.
			layerLogger.Warn("bank image is larger than a bank", "bytes", written)
		}
		fmt.Fprintf(
			c.App.Writer,
			"%s: %s, %d/%d units (%.2fx)\n",
			path,
			mode,
			artifact.TotalSize,
			p.Ceiling(),
			artifact.Ratio(),
		)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return cli.Exit(err, 2)
	}
	return nil
}

func reportMap(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("report takes exactly one SOURCE", 1)
	}
	logger := newLogger(c).Named("report")

	m, err := tiled.Load(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	roomWidth, roomHeight, err := roomSize(c, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	p := planner.New(planner.Options{
		Ceiling: c.Int("ceiling"),
		Logger:  logger,
	})

	rows := []output.ReportRow{}
	for _, layer := range m.Layers {
		rows = append(rows, output.ReportRows(layer.Name, p.Compare(layer.Grid, roomWidth, roomHeight))...)
	}
	if err := output.WriteReport(c.App.Writer, rows); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func verifyBank(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("verify takes a BANK and a SOURCE", 1)
	}
	bankFile := c.Args().Get(0)
	logger := newLogger(c).Named("verify")

	m, err := tiled.Load(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err, 1)
	}
	layer, ok := m.Layer(c.String("layer"))
	if !ok {
		return cli.Exit(fmt.Sprintf("map has no tile layer named %q", c.String("layer")), 1)
	}

	f, err := os.Open(bankFile)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	image, err := output.ReadBank(f)
	if err != nil {
		return cli.Exit(fmt.Errorf("%s: %w", bankFile, err), 1)
	}

	artifact, err := image.Artifact(layer.Grid.Width(), layer.Grid.Height())
	if err != nil {
		return cli.Exit(fmt.Errorf("%s: %w", bankFile, err), 1)
	}

	p := planner.New(planner.Options{Logger: logger})
	decoded, err := p.Decode(artifact)
	if err != nil {
		return cli.Exit(fmt.Errorf("%s: %w", bankFile, err), 2)
	}
	if !decoded.Equal(layer.Grid) {
		return cli.Exit(fmt.Sprintf("%s does not decode to layer %q", bankFile, layer.Name), 2)
	}

	logger.Debug("bank image verified", "path", bankFile, "mode", image.Mode, "regions", len(image.Regions))
	fmt.Fprintf(c.App.Writer, "%s: ok (%s, %d regions)\n", bankFile, image.Mode, len(image.Regions))
	return nil
}

// roomSize takes the room size from --room if given, otherwise from the map.
// Either may be 0x0 when the map has no rooms; room modes then fail.
func roomSize(c *cli.Context, m *tiled.Map) (int, int, error) {
	value := c.String("room")
	if value == "" {
		return m.RoomWidth, m.RoomHeight, nil
	}

	parts := strings.Split(strings.ToLower(value), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("room size must look like 16x11, got %q", value)
	}
	width, errW := strconv.Atoi(parts[0])
	height, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("room size must look like 16x11, got %q", value)
	}
	return width, height, nil
}

func selectLayers(m *tiled.Map, names []string) ([]tiled.Layer, error) {
	if len(names) == 0 {
		return m.Layers, nil
	}

	layers := make([]tiled.Layer, 0, len(names))
	for _, name := range names {
		layer, ok := m.Layer(name)
		if !ok {
			return nil, fmt.Errorf("map has no tile layer named %q", name)
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// bankPath gives the file a layer's bank image is written to.
func bankPath(base, layer string) string {
	return fmt.Sprintf("%s_layer_%s.bin", base, layer)
}

func writeBankFile(path string, artifact planner.Artifact) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := output.WriteBank(f, artifact)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, fmt.Errorf("write %s: %w", path, err)
	}
	return written, nil
}
