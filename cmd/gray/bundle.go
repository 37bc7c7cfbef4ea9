package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dfreese/Gray-sub002/geom"
	"github.com/dfreese/Gray-sub002/isotope"
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/sceneio"
	"github.com/dfreese/Gray-sub002/scene"
	"github.com/dfreese/Gray-sub002/source"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// sceneBundle is the JSON stand-in for Gray's custom scene-description
// language: a materials file, an isotopes file, a flat primitive list,
// and a source list, all referencing each other by name.
type sceneBundle struct {
	MaterialsFile string             `json:"materials_file"`
	IsotopesFile  string             `json:"isotopes_file"`
	Primitives    []bundlePrimitive  `json:"primitives"`
	Sources       []bundleSource     `json:"sources"`
}

type bundlePrimitive struct {
	Type          string    `json:"type"`
	Center        []float64 `json:"center"`
	Radius        float64   `json:"radius"`
	MaterialFront string    `json:"material_front"`
	MaterialBack  string    `json:"material_back"`
	DetectorID    int       `json:"detector_id"`
	SourceID      int       `json:"source_id"`
}

type bundleSource struct {
	Type       string    `json:"type"`
	Center     []float64 `json:"center"`
	Radius     float64   `json:"radius"`
	Size       []float64 `json:"size"`
	Isotope    string    `json:"isotope"`
	ActivityBq float64   `json:"activity_bq"`
	Negative   bool      `json:"negative"`
}

func vec3(v []float64) vecmath.Vector3 {
	if len(v) != 3 {
		return vecmath.Vector3{}
	}
	return vecmath.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// loadedScene bundles a built Scene with the metadata the pipeline and
// source scheduler need but that scene.Scene itself doesn't carry.
type loadedScene struct {
	Scene        *scene.Scene
	Positive     []*source.Source
	Negative     []*source.Source
	NumDetectors int
}

// loadScene reads the bundle file at path, loads the materials and
// isotopes it references, and builds the Scene and Source list.
func loadScene(path string, opts sceneBuildOptions) (*loadedScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene bundle: %w", err)
	}
	var bundle sceneBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing scene bundle: %w", err)
	}

	mats, defaultMatName, err := loadMaterialsFile(bundle.MaterialsFile)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*material.Material, len(mats))
	for _, m := range mats {
		byName[m.Name] = m
	}
	defaultMat, ok := byName[defaultMatName]
	if !ok {
		return nil, fmt.Errorf("default material %q not found", defaultMatName)
	}

	isotopes, err := loadIsotopesFile(bundle.IsotopesFile)
	if err != nil {
		return nil, err
	}

	builder := scene.NewBuilder()
	for _, m := range mats {
		builder.AddMaterial(m)
	}
	builder.SetDefaultMaterial(defaultMat)

	matRef := func(name string) (geom.MaterialRef, error) {
		if name == "" {
			return geom.NoMaterial, nil
		}
		m, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("material %q not found", name)
		}
		return geom.MaterialRef(m.Index), nil
	}

	numDetectors := 0
	for i, p := range bundle.Primitives {
		switch p.Type {
		case "sphere":
			matF, err := matRef(p.MaterialFront)
			if err != nil {
				return nil, fmt.Errorf("primitive %d: %w", i, err)
			}
			matB, err := matRef(p.MaterialBack)
			if err != nil {
				return nil, fmt.Errorf("primitive %d: %w", i, err)
			}
			builder.AddPrimitive(geom.NewSphere(vec3(p.Center), p.Radius, matF, matB, p.DetectorID, p.SourceID))
			if p.DetectorID >= numDetectors {
				numDetectors = p.DetectorID + 1
			}
		default:
			return nil, fmt.Errorf("primitive %d: unsupported type %q", i, p.Type)
		}
	}

	sc, err := builder.Build(opts.kdtree)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	var positive, negative []*source.Source
	for i, bs := range bundle.Sources {
		iso, ok := isotopes[bs.Isotope]
		if !ok {
			return nil, fmt.Errorf("source %d: isotope %q not found", i, bs.Isotope)
		}
		region, err := buildRegion(bs)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		s := &source.Source{
			ID: i, Region: region, Isotope: iso, Activity0: bs.ActivityBq,
			Negative: bs.Negative, SimulateHalfLife: opts.simulateHalfLife,
			Stack: []*material.Material{defaultMat},
		}
		if bs.Negative {
			negative = append(negative, s)
		} else {
			positive = append(positive, s)
		}
	}

	return &loadedScene{Scene: sc, Positive: positive, Negative: negative, NumDetectors: numDetectors}, nil
}

func buildRegion(bs bundleSource) (source.Region, error) {
	switch bs.Type {
	case "point":
		return source.PointRegion{Pos: vec3(bs.Center)}, nil
	case "sphere":
		return source.SphereRegion{Center: vec3(bs.Center), Radius: bs.Radius}, nil
	case "box":
		return source.BoxRegion{Center: vec3(bs.Center), Size: vec3(bs.Size)}, nil
	default:
		return nil, fmt.Errorf("unsupported source region type %q", bs.Type)
	}
}

func loadMaterialsFile(path string) ([]*material.Material, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening materials file: %w", err)
	}
	defer f.Close()
	return sceneio.LoadMaterials(f)
}

func loadIsotopesFile(path string) (map[string]isotope.Isotope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening isotopes file: %w", err)
	}
	defer f.Close()
	return sceneio.LoadIsotopes(f)
}
