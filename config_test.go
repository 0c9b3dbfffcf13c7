package densmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(Te *testing.T, body string) string {
	path := filepath.Join(Te.TempDir(), "densmd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestLoadConfig(Te *testing.T) {
	path := writeConfig(Te, `
input:
  path: /data/run1.bfa
  format: bfa
  slice: "::10"
grid:
  resolution: 150
rename:
  O1: O
  O2: O
roi:
  type: fractional
  bounds:
    - [0.0, 1.0]
    - [0.0, 1.0]
    - [0.4, 0.6]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.Grid.Resolution != 150 {
		Te.Errorf("Resolution not read: %d", cfg.Grid.Resolution)
	}
	//defaults survive a partial file
	if cfg.Smoothing.Sigma != 1.5 {
		Te.Errorf("Default sigma lost: %v", cfg.Smoothing.Sigma)
	}
	if cfg.Server.UpdateDelayMS != 200 {
		Te.Errorf("Default update delay lost: %d", cfg.Server.UpdateDelayMS)
	}
	if cfg.Rename["O2"] != "O" {
		Te.Errorf("Rename table not read: %v", cfg.Rename)
	}
	if cfg.ROI == nil || cfg.ROI.Bounds[2][0] != 0.4 {
		Te.Errorf("ROI not read: %+v", cfg.ROI)
	}
}

func TestConfigValidation(Te *testing.T) {
	bad := []string{
		"input:\n  format: bfa\n", //no path
		"input:\n  path: a.bfa\n", //no format
		"input:\n  path: a.bfa\n  format: dcd\n",
		"input:\n  path: a.bfa\n  format: bfa\n  slice: \"::0\"\n",
		"input:\n  path: a.bfa\n  format: bfa\ngrid:\n  resolution: 1\n",
		"input:\n  path: a.bfa\n  format: bfa\nsmoothing:\n  sigma: -1\n",
		"input:\n  path: a.bfa\n  format: bfa\nroi:\n  type: voxels\n  bounds: [[0,1],[0,1],[0,1]]\n",
		"input:\n  path: a.bfa\n  format: bfa\nroi:\n  type: absolute\n  bounds: [[0,1]]\n",
	}
	for i, body := range bad {
		path := writeConfig(Te, body)
		if _, err := LoadConfig(path); err == nil {
			Te.Errorf("Config %d should have been rejected", i)
		}
	}
}
