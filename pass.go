package densmd

import (
	"log"

	"github.com/densmd/densmd/grid"
	"github.com/densmd/densmd/miller"
	"github.com/densmd/densmd/render"
)

//Mode selects how one species is shown in a pass.
type Mode string

const (
	ModeHidden    Mode = "hidden"
	ModeHistogram Mode = "histogram" //smoothed density volume
	ModeAveraged  Mode = "averaged"  //time-averaged point cloud
)

//Threshold and opacity slider scales. Thresholds travel as integer
//slider positions and are normalized before they reach the transfer
//function.
const (
	thresholdScale = 255
	opacityScale   = 100
)

//SpeciesSettings is the per-species display request of one pass.
//Lower and Upper are threshold slider positions in [0,255] against
//the normalized density; Opacity is in [0,100]. SphereSize scales the
//averaged-mode point radius and Color paints those points.
type SpeciesSettings struct {
	Mode       Mode     `json:"mode"`
	Colormap   string   `json:"colormap"`
	Lower      int      `json:"lower"`
	Upper      int      `json:"upper"`
	Opacity    int      `json:"opacity"`
	Gamma      float64  `json:"gamma"`
	SphereSize float64  `json:"sphereSize"`
	Color      [3]uint8 `json:"color"`
}

//PassParams is a full display request: the voxel selection, the slab,
//and the settings of every species to draw. Species absent from the
//map are not drawn.
type PassParams struct {
	ROI     ROIIndices                 `json:"roi"`
	Miller  miller.Params              `json:"miller"`
	Species map[string]SpeciesSettings `json:"species"`
}

//VolumeArtifact is one species' density volume mapped to RGBA, placed
//in space by the voxel-center origin and the grid spacing.
type VolumeArtifact struct {
	Species string     `json:"species"`
	Label   string     `json:"label"`
	Dims    [3]int     `json:"dims"`
	Origin  [3]float64 `json:"origin"`
	Spacing [3]float64 `json:"spacing"`
	RGBA    []uint8    `json:"rgba"`
}

//PointsArtifact is one species' averaged point cloud.
type PointsArtifact struct {
	Species string       `json:"species"`
	Points  [][3]float64 `json:"points"`
	Radius  float64      `json:"radius"`
	Color   [3]uint8     `json:"color"`
}

//PassResult is everything a renderer needs to draw one pass.
type PassResult struct {
	Volumes    []*VolumeArtifact `json:"volumes"`
	Points     []*PointsArtifact `json:"points"`
	FocalPoint [3]float64        `json:"focalPoint"`
}

//sphereRadiusFactor converts the slider-facing sphere size into a
//point radius in cartesian units.
const sphereRadiusFactor = 0.1

//DefaultSettings returns display settings for a species with the
//threshold window preset from the density distribution: the lower
//slider at the 30th percentile and the upper at the 70th, so the
//initial view shows the mid-density structure rather than vacuum or
//saturated peaks.
func (d *Dataset) DefaultSettings(name string) (SpeciesSettings, error) {
	f, err := d.SmoothedField(name)
	if err != nil {
		return SpeciesSettings{}, err
	}
	s := SpeciesSettings{
		Mode:       ModeHistogram,
		Colormap:   "coolwarm",
		Opacity:    opacityScale,
		Gamma:      1,
		SphereSize: 1,
		Color:      [3]uint8{200, 200, 200},
	}
	span := f.Max - f.Min
	if span > 0 {
		s.Lower = int((f.Percentile(0.30)-f.Min)/span*thresholdScale + 0.5)
		s.Upper = int((f.Percentile(0.70)-f.Min)/span*thresholdScale + 0.5)
	}
	if s.Upper <= s.Lower {
		s.Upper = thresholdScale
	}
	return s, nil
}

//BuildArtifacts runs one display pass against the dataset. Species
//are processed independently: a failure in one (an unknown colormap,
//usually) is logged and skipped without poisoning the others, so a
//bad slider state never blanks the whole scene. The walk follows the
//sorted species order, making the output deterministic.
func (d *Dataset) BuildArtifacts(p PassParams) *PassResult {
	rd := d.RegionData(p.ROI, p.Miller)
	res := &PassResult{FocalPoint: rd.Focal}
	for _, name := range d.Species.Names {
		set, ok := p.Species[name]
		if !ok || set.Mode == ModeHidden || set.Mode == "" {
			continue
		}
		switch set.Mode {
		case ModeHistogram:
			v, err := d.volumeArtifact(name, rd, set)
			if err != nil {
				log.Printf("densmd: species %s: %v", name, err)
				continue
			}
			res.Volumes = append(res.Volumes, v)
		case ModeAveraged:
			pa := d.pointsArtifact(name, rd, p.Miller, set)
			if pa != nil {
				res.Points = append(res.Points, pa)
			}
		default:
			log.Printf("densmd: species %s: unknown mode %q", name, set.Mode)
		}
	}
	return res
}

func (d *Dataset) volumeArtifact(name string, rd *RegionData, set SpeciesSettings) (*VolumeArtifact, error) {
	f, err := d.SmoothedField(name)
	if err != nil {
		return nil, err
	}
	sub := f.Sub(rd.ROI)
	rgba, err := render.MapVolume(sub, rd.Mask, render.TFParams{
		Lower:    float64(set.Lower) / thresholdScale,
		Upper:    float64(set.Upper) / thresholdScale,
		Opacity:  float64(set.Opacity) / opacityScale,
		Gamma:    set.Gamma,
		Colormap: set.Colormap,
	})
	if err != nil {
		return nil, err
	}
	return &VolumeArtifact{
		Species: name,
		Label:   "Density: " + name,
		Dims:    sub.Dims,
		Origin:  [3]float64{rd.Centers.X[0], rd.Centers.Y[0], rd.Centers.Z[0]},
		Spacing: d.Spacing,
		RGBA:    rgba,
	}, nil
}

func (d *Dataset) pointsArtifact(name string, rd *RegionData, mp miller.Params, set SpeciesSettings) *PointsArtifact {
	st := d.Stats[name]
	box := grid.Bounds{Min: rd.PhysMin, Max: rd.PhysMax}
	pts := miller.FilterPoints(box.Filter(st.AvgPositions), d.CellCenter, mp)
	n := pts.NVecs()
	if n == 0 {
		return nil
	}
	pa := &PointsArtifact{
		Species: name,
		Points:  make([][3]float64, n),
		Radius:  sphereRadiusFactor * set.SphereSize,
		Color:   set.Color,
	}
	for i := 0; i < n; i++ {
		pa.Points[i] = [3]float64{pts.At(i, 0), pts.At(i, 1), pts.At(i, 2)}
	}
	return pa
}
