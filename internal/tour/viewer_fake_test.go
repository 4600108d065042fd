package tour

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// fakeViewer is a scripted stand-in for the external viewer runtime. It
// stores properties in a flat path map, tracks executed scripts, and
// emulates the two pieces of runtime behavior the engine relies on:
// index-addressed region names and addhotspot() creating a new region.
type fakeViewer struct {
	mu       sync.Mutex
	props    map[string]string
	regions  []string
	scripts  []string
	failGets map[string]error
	failSets map[string]error
}

func newFakeViewer(regions ...string) *fakeViewer {
	f := &fakeViewer{
		props:    make(map[string]string),
		failGets: make(map[string]error),
		failSets: make(map[string]error),
	}
	for _, name := range regions {
		f.addRegion(name)
	}
	return f
}

func (f *fakeViewer) addRegion(name string) {
	f.regions = append(f.regions, name)
	f.props["hotspot["+name+"].name"] = name
}

// setPoints gives a region polygon geometry.
func (f *fakeViewer) setPoints(name string, points [][2]float64) {
	f.props["hotspot["+name+"].point.count"] = strconv.Itoa(len(points))
	for i, p := range points {
		f.props[fmt.Sprintf("hotspot[%s].point[%d].ath", name, i)] = strconv.FormatFloat(p[0], 'g', -1, 64)
		f.props[fmt.Sprintf("hotspot[%s].point[%d].atv", name, i)] = strconv.FormatFloat(p[1], 'g', -1, 64)
	}
}

func (f *fakeViewer) Get(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failGets[path]; err != nil {
		return "", err
	}

	switch path {
	case "version":
		return "1.21.2", nil
	case "hotspot.count":
		return strconv.Itoa(len(f.regions)), nil
	}

	// Translate index addressing to name addressing.
	if name, prop, ok := splitRegionTestPath(path); ok {
		if idx, err := strconv.Atoi(name); err == nil {
			if idx < 0 || idx >= len(f.regions) {
				return "", nil
			}
			return f.props["hotspot["+f.regions[idx]+"]."+prop], nil
		}
	}

	return f.props[path], nil
}

func (f *fakeViewer) Set(path, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failSets[path]; err != nil {
		return err
	}
	f.props[path] = value
	return nil
}

func (f *fakeViewer) Call(script string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scripts = append(f.scripts, script)

	// Emulate region creation, the one script side effect the engine
	// observes through later Gets.
	if strings.HasPrefix(script, "addhotspot(") {
		name := strings.TrimSuffix(strings.TrimPrefix(script, "addhotspot("), ");")
		f.addRegion(name)
	}
	return nil
}

// regionNames returns a copy of the current region list.
func (f *fakeViewer) regionNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.regions...)
}

// prop reads a stored property directly.
func (f *fakeViewer) prop(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[path]
}

// countScripts counts executed scripts containing the given fragment.
func (f *fakeViewer) countScripts(fragment string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.scripts {
		if strings.Contains(s, fragment) {
			n++
		}
	}
	return n
}

// splitRegionTestPath splits "hotspot[x].rest" into ("x", "rest").
func splitRegionTestPath(path string) (name, prop string, ok bool) {
	if !strings.HasPrefix(path, "hotspot[") {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, "hotspot[")
	end := strings.Index(rest, "]")
	if end < 0 || len(rest) < end+2 || rest[end+1] != '.' {
		return "", "", false
	}
	return rest[:end], rest[end+2:], true
}
