// Command regioncheck validates a boundary dataset before it is handed to
// the field daemon: decode, geometry soundness, name uniqueness, and
// facility-ID code coverage. It can also classify a single coordinate pair
// against the dataset, which is the quickest way to sanity-check a
// questionable field submission.
//
// Usage:
//
//	go run ./cmd/regioncheck -file data/kabkota_sumut.json
//	go run ./cmd/regioncheck -url https://example.org/kabkota.json \
//	  -lat 3.19500 -lon 98.51300
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/moderation"
	"github.com/Naminiges/USU-Peduli/internal/regions"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to a boundary GeoJSON file")
	url := flag.String("url", "", "URL of a boundary GeoJSON document (overrides -file)")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP fetch timeout")
	lat := flag.Float64("lat", 0, "latitude to classify (requires -lon)")
	lon := flag.Float64("lon", 0, "longitude to classify (requires -lat)")
	flag.Parse()

	if *file == "" && *url == "" {
		flag.Usage()
		os.Exit(1)
	}

	var latSet, lonSet bool
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lon":
			lonSet = true
		}
	})
	if latSet != lonSet {
		fmt.Fprintln(os.Stderr, "FATAL: -lat and -lon must be provided together")
		os.Exit(1)
	}

	var source regions.BoundarySource
	if *url != "" {
		source = regions.NewHTTPSource(*url, *timeout)
	} else {
		source = regions.NewFileSource(*file)
	}

	var point *domain.Point
	if latSet {
		point = &domain.Point{Lat: *lat, Lon: *lon}
	}

	if code := run(source, point); code != 0 {
		os.Exit(code)
	}
}

func run(source regions.BoundarySource, point *domain.Point) int {
	fmt.Println("=== Region Boundary Validation ===")
	fmt.Println()
	fmt.Printf("Source: %s\n\n", source.Name())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	decode := &phase{name: "decode boundary dataset"}
	set, err := source.Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if len(set) == 0 {
		decode.errorf("dataset contains no regions")
	}

	phases := []*phase{
		decode,
		checkGeometry(set),
		checkNames(set),
		checkCodes(set),
	}
	if point != nil {
		phases = append(phases, checkPoint(set, *point))
	}

	failed := 0
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}
	fmt.Println()
	fmt.Printf("Regions: %d\n", len(set))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Printf("  Note: %s\n", n)
		}
	}

	if failed == 0 {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// checkGeometry flags regions whose rings would make ClassifyPoint return
// the detection-failure sentinel, plus vertices outside the valid
// coordinate range.
func checkGeometry(set []domain.Region) *phase {
	p := &phase{name: "boundary geometry"}
	for _, region := range set {
		if len(region.Boundary) == 0 {
			p.errorf("%s: no boundary rings", region.Name)
			continue
		}
		for i, ring := range region.Boundary {
			if len(ring) < 3 {
				p.errorf("%s: ring %d has %d vertices, need at least 3", region.Name, i, len(ring))
			}
			for _, v := range ring {
				if v.Lat < -90 || v.Lat > 90 || v.Lon < -180 || v.Lon > 180 {
					p.errorf("%s: ring %d vertex out of range (%.4f, %.4f)", region.Name, i, v.Lat, v.Lon)
					break
				}
			}
		}
	}
	return p
}

// checkNames flags empty and duplicate region names. Classification
// returns the first containing region, so a duplicate name silently
// shadows its twin.
func checkNames(set []domain.Region) *phase {
	p := &phase{name: "region names"}
	seen := make(map[string]string, len(set))
	for i, region := range set {
		if strings.TrimSpace(region.Name) == "" {
			p.errorf("region %d has an empty name", i)
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(region.Name))
		if first, ok := seen[key]; ok {
			p.errorf("duplicate region name %q (first seen as %q)", region.Name, first)
			continue
		}
		seen[key] = region.Name
	}
	return p
}

// checkCodes resolves every region name to its facility-ID code. Two
// regions sharing a code would interleave their ID sequences, so shared
// codes fail; names served by the derivation fallback are worth knowing
// about but legitimate.
func checkCodes(set []domain.Region) *phase {
	p := &phase{name: "facility ID code coverage"}

	byCode := make(map[string][]string)
	for _, region := range set {
		code := moderation.RegionCode(region.Name)
		byCode[code] = append(byCode[code], region.Name)
		if !moderation.RegionCodeKnown(region.Name) {
			p.notef("%s resolves to derived code %s (not in the lookup table)", region.Name, code)
		}
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if names := byCode[code]; len(names) > 1 {
			p.errorf("code %s is shared by %s", code, strings.Join(names, ", "))
		}
	}
	return p
}

func checkPoint(set []domain.Region, pt domain.Point) *phase {
	p := &phase{name: "point classification"}
	switch result := domain.ClassifyPoint(set, pt); result {
	case domain.RegionDetectionFailed:
		p.errorf("classification failed for (%.5f, %.5f): dataset rejected", pt.Lat, pt.Lon)
	case domain.RegionOutside:
		p.notef("(%.5f, %.5f) falls outside every region", pt.Lat, pt.Lon)
	default:
		p.notef("(%.5f, %.5f) classifies as %s", pt.Lat, pt.Lon, result)
	}
	return p
}
