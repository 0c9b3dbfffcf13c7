// Command densmd precomputes per-species density fields from a
// molecular-dynamics trajectory and either serves them over HTTP or
// writes a single pass of display artifacts to a JSON file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	densmd "github.com/densmd/densmd"
	"github.com/densmd/densmd/server"
	"github.com/densmd/densmd/traj/bfa"
	"github.com/densmd/densmd/traj/xyz"
)

func main() {
	configPath := flag.String("config", "densmd.yaml", "path to the YAML configuration")
	serve := flag.Bool("serve", false, "serve the dataset over HTTP")
	out := flag.String("out", "artifacts.json", "output file for a single pass (ignored with -serve)")
	flag.Parse()

	if err := run(*configPath, *serve, *out); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string, serve bool, out string) error {
	cfg, err := densmd.LoadConfig(configPath)
	if err != nil {
		return err
	}
	t, closer, err := openTraj(cfg)
	if err != nil {
		return err
	}
	defer closer()

	start := time.Now()
	ds, err := densmd.Precompute(cfg, t)
	if err != nil {
		return err
	}
	log.Printf("densmd: precompute finished in %v, %d species on a %d^3 grid",
		time.Since(start).Round(time.Millisecond), ds.Species.NSpecies(), ds.Resolution)

	if serve {
		srv := server.New(ds, time.Duration(cfg.Server.UpdateDelayMS)*time.Millisecond)
		log.Printf("densmd: listening on %s", cfg.Server.Addr)
		return http.ListenAndServe(cfg.Server.Addr, srv.Router())
	}
	return writePass(ds, out)
}

func openTraj(cfg *densmd.Config) (densmd.Traj, func(), error) {
	switch cfg.Input.Format {
	case densmd.FormatBFA:
		r, _, err := bfa.New(cfg.Input.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case densmd.FormatXYZ:
		r, err := xyz.New(cfg.Input.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported input format %q", cfg.Input.Format)
}

// writePass runs one pass with every species at its default settings
// over the full grid and writes the artifacts as JSON.
func writePass(ds *densmd.Dataset, out string) error {
	species := make(map[string]densmd.SpeciesSettings, ds.Species.NSpecies())
	for _, name := range ds.Species.Names {
		defs, err := ds.DefaultSettings(name)
		if err != nil {
			return err
		}
		species[name] = defs
	}
	res := ds.BuildArtifacts(densmd.PassParams{
		ROI: densmd.ROIIndices{
			XMax: ds.Resolution - 1,
			YMax: ds.Resolution - 1,
			ZMax: ds.Resolution - 1,
		},
		Species: species,
	})
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(res); err != nil {
		return err
	}
	log.Printf("densmd: wrote %d volumes and %d point clouds to %s",
		len(res.Volumes), len(res.Points), out)
	return nil
}
