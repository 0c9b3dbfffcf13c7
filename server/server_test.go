package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	densmd "github.com/densmd/densmd"
	v3 "github.com/densmd/densmd/v3"
)

//memTraj is a minimal in-memory trajectory for the handler tests.
type memTraj struct {
	frames  []*v3.Matrix
	symbols []string
	pos     int
}

func (m *memTraj) Readable() bool { return true }

func (m *memTraj) Next(c *v3.Matrix, cell ...[]float64) error {
	if m.pos >= len(m.frames) {
		return memEOF{}
	}
	fr := m.frames[m.pos]
	m.pos++
	if c != nil {
		c.Copy(fr)
	}
	if len(cell) > 0 && len(cell[0]) >= 9 {
		copy(cell[0], []float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	}
	return nil
}

func (m *memTraj) Len() int { return len(m.symbols) }
func (m *memTraj) Symbols() []string { return m.symbols }

type memEOF struct{}

func (memEOF) Error() string { return "EOF" }
func (memEOF) Decorate(string) []string { return nil }
func (memEOF) Critical() bool { return false }
func (memEOF) FileName() string { return "" }
func (memEOF) Format() string { return "mem" }
func (memEOF) NormalLastFrameTermination() {}

func testServer(Te *testing.T) *Server {
	traj := &memTraj{symbols: []string{"A", "B"}}
	for f := 0; f < 5; f++ {
		c := v3.Zeros(2)
		c.Set(0, 0, 2)
		c.Set(0, 1, 2)
		c.Set(0, 2, 2)
		c.Set(1, 0, 7)
		c.Set(1, 1, 7)
		c.Set(1, 2, 7)
		traj.frames = append(traj.frames, c)
	}
	cfg := densmd.DefaultConfig()
	cfg.Input.Path = "mem"
	cfg.Input.Format = densmd.FormatBFA
	cfg.Grid.Resolution = 4
	cfg.Smoothing.Sigma = 0
	ds, err := densmd.Precompute(cfg, traj)
	if err != nil {
		Te.Fatal(err)
	}
	return New(ds, 10*time.Millisecond)
}

func passBody(Te *testing.T) *bytes.Buffer {
	p := densmd.PassParams{
		ROI: densmd.ROIIndices{XMax: 3, YMax: 3, ZMax: 3},
		Species: map[string]densmd.SpeciesSettings{
			"A": {Mode: densmd.ModeHistogram, Colormap: "coolwarm", Upper: 255, Opacity: 100, Gamma: 1},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		Te.Fatal(err)
	}
	return &buf
}

func TestDatasetEndpoint(Te *testing.T) {
	ts := httptest.NewServer(testServer(Te).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/dataset")
	if err != nil {
		Te.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		Te.Fatalf("Status %d", resp.StatusCode)
	}
	var body struct {
		Resolution int `json:"resolution"`
		Species    []struct {
			Name string `json:"name"`
			Raw  int    `json:"rawPositions"`
		} `json:"species"`
		Colormaps []string `json:"colormaps"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		Te.Fatal(err)
	}
	if body.Resolution != 4 {
		Te.Errorf("Wrong resolution: %d", body.Resolution)
	}
	if len(body.Species) != 2 || body.Species[0].Name != "A" || body.Species[0].Raw != 5 {
		Te.Errorf("Wrong species block: %+v", body.Species)
	}
	if len(body.Colormaps) == 0 {
		Te.Error("Colormap list missing")
	}
}

func TestPassEndpoint(Te *testing.T) {
	ts := httptest.NewServer(testServer(Te).Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/pass", "application/json", passBody(Te))
	if err != nil {
		Te.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		Te.Fatalf("Status %d", resp.StatusCode)
	}
	var res densmd.PassResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		Te.Fatal(err)
	}
	if len(res.Volumes) != 1 || res.Volumes[0].Species != "A" {
		Te.Errorf("Expected one volume for A, got %d", len(res.Volumes))
	}

	resp2, err := http.Post(ts.URL+"/api/pass", "application/json", bytes.NewBufferString("{broken"))
	if err != nil {
		Te.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		Te.Errorf("Broken body should give 400, got %d", resp2.StatusCode)
	}
}

func TestDebouncedParams(Te *testing.T) {
	ts := httptest.NewServer(testServer(Te).Router())
	defer ts.Close()

	//nothing computed yet
	resp, err := http.Get(ts.URL + "/api/artifacts")
	if err != nil {
		Te.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		Te.Fatalf("Expected 204 before any pass, got %d", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/params", "application/json", passBody(Te))
	if err != nil {
		Te.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		Te.Fatalf("Expected 202, got %d", resp.StatusCode)
	}

	time.Sleep(100 * time.Millisecond)
	resp, err = http.Get(ts.URL + "/api/artifacts")
	if err != nil {
		Te.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		Te.Fatalf("Expected artifacts after the debounce window, got %d", resp.StatusCode)
	}
	var res densmd.PassResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		Te.Fatal(err)
	}
	if len(res.Volumes) != 1 {
		Te.Errorf("Expected one volume, got %d", len(res.Volumes))
	}
}

func TestPreviewEndpoint(Te *testing.T) {
	ts := httptest.NewServer(testServer(Te).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/preview/A?scale=2")
	if err != nil {
		Te.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		Te.Fatalf("Status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		Te.Errorf("Wrong content type: %s", ct)
	}

	resp2, err := http.Get(ts.URL + "/api/preview/nope")
	if err != nil {
		Te.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		Te.Errorf("Unknown species should give 404, got %d", resp2.StatusCode)
	}
}
