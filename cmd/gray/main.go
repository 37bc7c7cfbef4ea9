// Command gray runs a Monte-Carlo PET photon-transport simulation:
// it builds a scene and source set, schedules and traces decays, pushes
// the resulting interactions through a configurable DAQ pipeline, and
// writes hits/singles/coincidence streams plus run statistics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dfreese/Gray-sub002/config"
	"github.com/dfreese/Gray-sub002/kdtree"
	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/sceneio"
	"github.com/dfreese/Gray-sub002/source"
	"github.com/dfreese/Gray-sub002/telemetry"
)

var (
	sceneFile     = flag.String("f", "", "scene bundle JSON (materials + isotopes + geometry + sources)")
	pipelineFile  = flag.String("p", "", "process pipeline JSON (empty = sort stage only)")
	mappingFile   = flag.String("m", "", "detector mapping JSON, required by anger-logic merge stages")
	configFile    = flag.String("config", "", "YAML config overriding the embedded defaults")
	simTime       = flag.Float64("t", 0, "simulation duration in seconds (0 = use config default)")
	startTime     = flag.Float64("start", 0, "simulation start time in seconds")
	seed          = flag.Uint64("seed", 0, "random seed (0 = use config default)")
	hitsPath      = flag.String("hits", "", "hits output path (empty = not written)")
	singlesPath   = flag.String("singles", "", "singles output path (empty = not written)")
	coincPath     = flag.String("coinc", "", "coincidence output path (empty = not written)")
	hitsFormat    = flag.String("hits_format", "var_ascii", "var_ascii or var_binary")
	singlesFormat = flag.String("singles_format", "var_ascii", "var_ascii or var_binary")
	coincFormat   = flag.String("coinc_format", "var_ascii", "var_ascii or var_binary")
	hitsMask      = flag.Uint("hits_mask", 0, "field mask for all three output streams (0 = use config default)")
	statsDir      = flag.String("stats_dir", "", "directory for run.csv/stages.csv (empty = not written)")
	testOverlap   = flag.Bool("test_overlap", false, "check the scene for overlapping/inverted geometry and exit")
)

func main() {
	flag.Parse()

	if err := config.Init(*configFile); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg := config.Cfg()

	if *sceneFile == "" {
		log.Fatal("-f scene bundle is required")
	}

	kdOpts := kdtree.BuildOptions{
		ObjectCost:             cfg.Physics.ObjectCost,
		TraversalCost:          cfg.Physics.TraversalCost,
		MinLeafSize:            cfg.Physics.MinLeafSize,
		MaxDepth:               48,
		DoubleRecurseSplitting: cfg.Physics.DoubleRecurseSplitting,
	}
	loaded, err := loadScene(*sceneFile, sceneBuildOptions{kdtree: kdOpts, simulateHalfLife: cfg.Sources.SimulateHalfLife})
	if err != nil {
		log.Fatalf("loading scene: %v", err)
	}

	if *testOverlap {
		steps := cfg.Physics.OverlapSteps
		if steps == 0 {
			steps = 400
		}
		result := loaded.Scene.TestOverlap(steps)
		slog.Info("overlap test",
			"failed_rays", result.FailedRays, "total_rays", result.TotalRays,
			"failure_rate", result.FailureRate())
		if result.Failed(cfg.Physics.OverlapFailureThreshold) {
			os.Exit(1)
		}
		return
	}

	mapping, err := loadDetectorMapping(*mappingFile)
	if err != nil {
		log.Fatalf("loading detector mapping: %v", err)
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = cfg.Simulation.Seed
	}
	sampler := mc.New(runSeed)

	duration := *simTime
	if duration == 0 {
		duration = cfg.Simulation.Duration
	}
	start := *startTime
	if start == 0 {
		start = cfg.Simulation.StartTime
	}

	sched := source.NewScheduler(sampler, loaded.Positive, loaded.Negative, start, duration)

	pipeline, err := loadPipeline(*pipelineFile, loaded.Scene.Diameter(), loaded.NumDetectors, cfg, sampler, mapping)
	if err != nil {
		log.Fatalf("loading process pipeline: %v", err)
	}

	mask := sceneio.FieldMask(*hitsMask)
	if mask == 0 {
		mask = sceneio.FieldMask(cfg.Output.HitsMask)
	}

	hitsWriter, hitsClose, err := openStream(*hitsPath, *hitsFormat, mask)
	if err != nil {
		log.Fatalf("opening hits stream: %v", err)
	}
	defer hitsClose()
	singlesWriter, singlesClose, err := openStream(*singlesPath, *singlesFormat, mask)
	if err != nil {
		log.Fatalf("opening singles stream: %v", err)
	}
	defer singlesClose()
	coincWriter, coincClose, err := openStream(*coincPath, *coincFormat, mask)
	if err != nil {
		log.Fatalf("opening coincidence stream: %v", err)
	}
	defer coincClose()

	engine := &photon.Engine{
		World: loaded.Scene, Rand: sampler,
		MaxTraceDepth: cfg.Physics.MaxTraceDepth,
	}

	var deposits []float64
	emit := func(events []photon.Interaction) {
		for _, e := range events {
			if hitsWriter != nil {
				if err := hitsWriter.Write(e); err != nil {
					log.Fatalf("writing hits record: %v", err)
				}
			}
			if e.Dropped {
				continue
			}
			deposits = append(deposits, e.Deposit)
			if e.CoincGroup >= 0 {
				if coincWriter != nil {
					if err := coincWriter.Write(e); err != nil {
						log.Fatalf("writing coincidence record: %v", err)
					}
				}
			} else if singlesWriter != nil {
				if err := singlesWriter.Write(e); err != nil {
					log.Fatalf("writing singles record: %v", err)
				}
			}
		}
	}

	var buf []photon.Interaction
	const batchSize = 4096
	next := func() (*photon.Decay, bool) { return sched.Next() }
	for {
		buf = engine.TraceSources(next, cfg.Sources.SoftMaxInteractions, buf[:0])
		if len(buf) == 0 {
			break
		}
		emit(pipeline.Add(buf))
	}
	emit(pipeline.Stop())

	if err := flushStream(hitsWriter); err != nil {
		log.Fatalf("flushing hits stream: %v", err)
	}
	if err := flushStream(singlesWriter); err != nil {
		log.Fatalf("flushing singles stream: %v", err)
	}
	if err := flushStream(coincWriter); err != nil {
		log.Fatalf("flushing coincidence stream: %v", err)
	}

	runStats := telemetry.FromTraceStats(engine.Stats())
	runStats.LogStats()
	stageRows := telemetry.FromPipeline(stageNames(*pipelineFile), pipeline.Stats())
	telemetry.LogStages(stageRows)
	spec := telemetry.ComputeEnergySpectrum(deposits)
	slog.Info("energy spectrum", "spectrum", spec)

	if *statsDir != "" {
		om, err := telemetry.NewOutputManager(*statsDir)
		if err != nil {
			log.Fatalf("opening stats directory: %v", err)
		}
		defer om.Close()
		if err := om.WriteRunStats(runStats); err != nil {
			log.Fatalf("writing run stats: %v", err)
		}
		if err := om.WriteStageStats(stageRows); err != nil {
			log.Fatalf("writing stage stats: %v", err)
		}
	}
}

// sceneBuildOptions threads config-derived knobs into loadScene.
type sceneBuildOptions struct {
	kdtree           kdtree.BuildOptions
	simulateHalfLife bool
}

// stageNames reports the label list for a pipeline's stats: "sort"
// first, then the pipeline spec file's stage types in order. If the file
// can't be read or parsed it returns just "sort". The sort stage that
// loadPipeline inserts after each blur_time stage gets no label of its
// own, so the list is one short of the stats per blur_time stage.
func stageNames(path string) []string {
	names := []string{"sort"}
	if path == "" {
		return names
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return names
	}
	var specs []pipelineStage
	if err := json.Unmarshal(data, &specs); err != nil {
		return names
	}
	for _, s := range specs {
		names = append(names, s.Type)
	}
	return names
}

func openStream(path, format string, mask sceneio.FieldMask) (streamWriter, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	switch format {
	case "var_ascii":
		w, err := sceneio.NewASCIIWriter(f, mask)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return w, f.Close, nil
	case "var_binary":
		w, err := sceneio.NewBinaryWriter(f, mask)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return w, f.Close, nil
	default:
		f.Close()
		return nil, nil, fmt.Errorf("unknown output format %q", format)
	}
}

// streamWriter unifies ASCIIWriter/BinaryWriter's per-record Write call.
type streamWriter interface {
	Write(rec photon.Interaction) error
}

// flushStream flushes the ASCII writer's buffer; BinaryWriter writes
// straight through and needs no flush.
func flushStream(w streamWriter) error {
	if ascii, ok := w.(*sceneio.ASCIIWriter); ok {
		return ascii.Flush()
	}
	return nil
}
