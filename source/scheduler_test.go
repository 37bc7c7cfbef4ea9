package source

import (
	"testing"

	"github.com/dfreese/Gray-sub002/isotope"
	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/vecmath"
)

func makeSource(id int, activity float64) *Source {
	return &Source{
		ID:       id,
		Region:   PointRegion{Pos: vecmath.Vector3{X: float64(id)}},
		Isotope:  &isotope.PositronIsotope{PositronEmissionProb: 1.0},
		Activity0: activity,
	}
}

func TestSchedulerDecayTimesMonotonic(t *testing.T) {
	sampler := mc.New(7)
	sources := []*Source{makeSource(0, 1000), makeSource(1, 500)}
	sch := NewScheduler(sampler, sources, nil, 0, 10.0)

	var prev float64
	count := 0
	for {
		decay, ok := sch.Next()
		if !ok {
			break
		}
		if decay.Time < prev {
			t.Fatalf("decay time went backwards: %v after %v", decay.Time, prev)
		}
		prev = decay.Time
		count++
		if count > 100000 {
			t.Fatal("scheduler did not terminate within expected decay count")
		}
	}
	if count == 0 {
		t.Fatal("expected at least one decay")
	}
}

func TestSchedulerRespectsEndTime(t *testing.T) {
	sampler := mc.New(8)
	sources := []*Source{makeSource(0, 1e6)}
	sch := NewScheduler(sampler, sources, nil, 0, 1.0)
	for {
		decay, ok := sch.Next()
		if !ok {
			break
		}
		if decay.Time >= 1.0 {
			t.Fatalf("decay at time %v occurred past end time 1.0", decay.Time)
		}
	}
}

func TestNegativeSourceRejectsInsideRegion(t *testing.T) {
	sampler := mc.New(9)
	pos := &Source{
		ID: 0, Region: BoxRegion{Center: vecmath.Vector3{}, Size: vecmath.Vector3{X: 10, Y: 10, Z: 10}},
		Isotope: &isotope.PositronIsotope{PositronEmissionProb: 1.0}, Activity0: 1000,
	}
	neg := &Source{
		ID: -1, Region: SphereRegion{Center: vecmath.Vector3{}, Radius: 100},
		Isotope: &isotope.PositronIsotope{}, Activity0: -1.0, Negative: true,
	}
	sch := NewScheduler(sampler, []*Source{pos}, []*Source{neg}, 0, 0.01)
	// Every candidate position falls inside the negative sphere (radius
	// 100 encloses the 10x10x10 box), so with ratio 1.0 every decay must
	// be rejected and the schedule must produce nothing before end time.
	_, ok := sch.Next()
	if ok {
		t.Fatal("expected all decays to be rejected by the all-enclosing negative source")
	}
}

func TestBoxRegionContainsOwnSamples(t *testing.T) {
	s := mc.New(5)
	r := BoxRegion{Center: vecmath.Vector3{X: 1, Y: 2, Z: 3}, Size: vecmath.Vector3{X: 4, Y: 4, Z: 4}}
	for i := 0; i < 200; i++ {
		p := r.SamplePoint(s)
		if !r.Contains(p) {
			t.Fatalf("sampled point %v not contained in its own region", p)
		}
	}
}

func TestSphereRegionContainsOwnSamples(t *testing.T) {
	s := mc.New(6)
	r := SphereRegion{Center: vecmath.Vector3{}, Radius: 5}
	for i := 0; i < 200; i++ {
		p := r.SamplePoint(s)
		if !r.Contains(p) {
			t.Fatalf("sampled point %v not contained in its own region", p)
		}
	}
}
