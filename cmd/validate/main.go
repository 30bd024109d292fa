// Command validate checks an Overpass JSON document against the response
// schema the finder accepts, then runs content checks on the decoded nodes.
//
// Usage:
//
//	go run ./cmd/validate -in data/mock/overpass_austin.json
//	go run ./cmd/validate -in response.json -lat 30.2672 -lon -97.7431
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/restroom-finder/internal/adapter/overpass"
	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	in := flag.String("in", "", "path to an Overpass JSON document")
	lat := flag.Float64("lat", 0, "optional search origin latitude for the radius check")
	lon := flag.Float64("lon", 0, "optional search origin longitude for the radius check")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	var origin *domain.Coordinates
	if isFlagSet("lat") || isFlagSet("lon") {
		origin = &domain.Coordinates{Lat: *lat, Lon: *lon}
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", *in, err)
		os.Exit(1)
	}

	if code := run(bytes.NewReader(data), origin, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(in io.Reader, origin *domain.Coordinates, out io.Writer) int {
	fmt.Fprintln(out, "=== Overpass Response Validation ===")
	fmt.Fprintln(out)

	resp, err := overpass.Decode(in)
	schema := &phase{name: "Phase 1: Schema (finder decoder)"}
	if err != nil {
		schema.errorf("%v", err)
	}

	phases := []*phase{schema}
	if schema.passed() {
		phases = append(phases, validateNodes(resp.POIs))
		if origin != nil {
			phases = append(phases, validateRadius(resp.POIs, *origin))
		}
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	if schema.passed() {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Nodes: %d\n", len(resp.POIs))
		if resp.Attribution.Generator != "" {
			fmt.Fprintf(out, "Generator: %s (OSM base %s)\n", resp.Attribution.Generator, resp.Attribution.TimestampOSMBase)
		}
		for _, p := range resp.POIs {
			fmt.Fprintf(out, "  %d  %s  %s\n", p.ID, p.OSMURL(), p.DirectionsURL())
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// validateNodes checks what the decoder tolerates but a real toilets query
// never returns.
func validateNodes(pois []domain.PointOfInterest) *phase {
	p := &phase{name: "Phase 2: Nodes (ids, coordinates, tags)"}

	seen := make(map[int64]int, len(pois))
	for i, poi := range pois {
		if first, ok := seen[poi.ID]; ok {
			p.errorf("element %d: duplicate id %d (first at element %d)", i, poi.ID, first)
		} else {
			seen[poi.ID] = i
		}
		if poi.ID <= 0 {
			p.errorf("element %d: id %d is not positive", i, poi.ID)
		}
		if poi.Type != "" && poi.Type != "node" {
			p.errorf("element %d (id %d): type %q, expected node", i, poi.ID, poi.Type)
		}
		if err := poi.Coordinates().Validate(); err != nil {
			p.errorf("element %d (id %d): %v", i, poi.ID, err)
		}
		if v := poi.Tag(overpass.FilterKey); v != overpass.FilterValue {
			p.errorf("element %d (id %d): %s=%q, expected %q", i, poi.ID, overpass.FilterKey, v, overpass.FilterValue)
		}
	}
	return p
}

func validateRadius(pois []domain.PointOfInterest, origin domain.Coordinates) *phase {
	p := &phase{name: "Phase 3: Radius (around origin)"}
	if err := origin.Validate(); err != nil {
		p.errorf("origin: %v", err)
		return p
	}
	// Overpass measures around() on its own sphere; allow a little slack.
	limit := float64(overpass.RadiusMeters) * 1.01
	for i, poi := range pois {
		if d := origin.DistanceTo(poi.Coordinates()); d > limit {
			p.errorf("element %d (id %d): %.0f m from %s, beyond %d m", i, poi.ID, d, origin, overpass.RadiusMeters)
		}
	}
	return p
}
