package correlation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ucgmsim/nzgd-map/pkg/common/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Axis names used in error messages and event payloads.
const (
	AxisVsToVs30   = "vs_to_vs30_correlation"
	AxisCPTToVs    = "cpt_to_vs_correlation"
	AxisSPTToVs    = "spt_to_vs_correlation"
	AxisHammerType = "hammer_type"
)

// UnknownCorrelationError reports a correlation name the catalog cannot
// resolve. Resolution never falls back to a default: serving estimates
// computed under a different correlation than requested would be silent
// data corruption.
type UnknownCorrelationError struct {
	Axis string
	Name string
}

func (e *UnknownCorrelationError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Axis, e.Name)
}

// Catalog holds the four correlation reference sets, loaded once at startup
// and immutable afterwards. Concurrent requests share it without locking.
type Catalog struct {
	vsToVs30    map[string]int64
	cptToVs     map[string]int64
	sptToVs     map[string]int64
	hammerTypes map[string]int64

	// minimum deployable depth (m) per velocity-to-Vs30 correlation
	minimumDepths map[string]float64
}

// ResolvedSelection is a fully resolved correlation 4-tuple; the integer ids
// are the only values that ever enter a WHERE predicate.
type ResolvedSelection struct {
	Names        models.CorrelationSelection
	VsToVs30ID   int64
	CPTToVsID    int64
	SPTToVsID    int64
	HammerTypeID int64
}

type catalogRow struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

// depthConfig is the optional yaml override for the per-correlation minimum
// depth thresholds.
type depthConfig struct {
	MinimumDepths map[string]float64 `yaml:"minimum_depths"`
}

func defaultMinimumDepths() map[string]float64 {
	// Boore et al. (2011) extrapolates from 5 m; Boore et al. (2004)
	// requires a 10 m profile.
	return map[string]float64{
		"boore_2011": 5,
		"boore_2004": 10,
	}
}

// Load reads the four reference tables into an immutable Catalog. The
// configPath is optional; when set it points at a yaml file overriding the
// minimum-depth thresholds.
func Load(db *gorm.DB, configPath string) (*Catalog, error) {
	cat := &Catalog{minimumDepths: defaultMinimumDepths()}

	tables := []struct {
		table    string
		idColumn string
		dest     *map[string]int64
	}{
		{"vstovs30correlation", "vs_to_vs30_correlation_id", &cat.vsToVs30},
		{"cpttovscorrelation", "cpt_to_vs_correlation_id", &cat.cptToVs},
		{"spttovscorrelation", "correlation_id", &cat.sptToVs},
		{"spttovs30hammertype", "hammer_id", &cat.hammerTypes},
	}
	for _, t := range tables {
		var rows []catalogRow
		query := fmt.Sprintf("SELECT %s AS id, name FROM %s", t.idColumn, t.table)
		if err := db.Raw(query).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("loading %s: %w", t.table, err)
		}
		set := make(map[string]int64, len(rows))
		for _, row := range rows {
			set[row.Name] = row.ID
		}
		*t.dest = set
	}

	if configPath != "" {
		content, err := os.ReadFile(filepath.Clean(configPath))
		if err != nil {
			return nil, fmt.Errorf("reading correlation config: %w", err)
		}
		var cfg depthConfig
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing correlation config: %w", err)
		}
		for name, depth := range cfg.MinimumDepths {
			cat.minimumDepths[name] = depth
		}
	}

	return cat, nil
}

func resolve(axis string, set map[string]int64, name string) (int64, error) {
	if id, ok := set[name]; ok {
		return id, nil
	}
	return 0, &UnknownCorrelationError{Axis: axis, Name: name}
}

func (c *Catalog) ResolveVsToVs30(name string) (int64, error) {
	return resolve(AxisVsToVs30, c.vsToVs30, name)
}

func (c *Catalog) ResolveCPTToVs(name string) (int64, error) {
	return resolve(AxisCPTToVs, c.cptToVs, name)
}

func (c *Catalog) ResolveSPTToVs(name string) (int64, error) {
	return resolve(AxisSPTToVs, c.sptToVs, name)
}

func (c *Catalog) ResolveHammerType(name string) (int64, error) {
	return resolve(AxisHammerType, c.hammerTypes, name)
}

// ResolveSelection resolves all four axes before any extraction query runs.
// The hammer type only enters the SPT predicate, but a bad name must abort
// the whole request before the expensive CPT query executes.
func (c *Catalog) ResolveSelection(sel models.CorrelationSelection) (ResolvedSelection, error) {
	resolved := ResolvedSelection{Names: sel}

	var err error
	if resolved.VsToVs30ID, err = c.ResolveVsToVs30(sel.VsToVs30Correlation); err != nil {
		return ResolvedSelection{}, err
	}
	if resolved.CPTToVsID, err = c.ResolveCPTToVs(sel.CPTToVsCorrelation); err != nil {
		return ResolvedSelection{}, err
	}
	if resolved.SPTToVsID, err = c.ResolveSPTToVs(sel.SPTToVsCorrelation); err != nil {
		return ResolvedSelection{}, err
	}
	if resolved.HammerTypeID, err = c.ResolveHammerType(sel.HammerType); err != nil {
		return ResolvedSelection{}, err
	}
	return resolved, nil
}

// MinimumDepth returns the minimum record depth (m) at which the given
// velocity-to-Vs30 correlation applies. Correlations without a configured
// threshold fall back to the most conservative known one.
func (c *Catalog) MinimumDepth(vsToVs30Name string) float64 {
	if depth, ok := c.minimumDepths[vsToVs30Name]; ok {
		return depth
	}
	max := 0.0
	for _, depth := range c.minimumDepths {
		if depth > max {
			max = depth
		}
	}
	return max
}

func names(set map[string]int64) []string {
	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func (c *Catalog) VsToVs30Names() []string   { return names(c.vsToVs30) }
func (c *Catalog) CPTToVsNames() []string    { return names(c.cptToVs) }
func (c *Catalog) SPTToVsNames() []string    { return names(c.sptToVs) }
func (c *Catalog) HammerTypeNames() []string { return names(c.hammerTypes) }

// NewCatalog builds a catalog directly from name-to-id sets. Extraction
// tests use it to avoid a database fixture.
func NewCatalog(vsToVs30, cptToVs, sptToVs, hammerTypes map[string]int64) *Catalog {
	copySet := func(src map[string]int64) map[string]int64 {
		dst := make(map[string]int64, len(src))
		for k, v := range src {
			dst[strings.TrimSpace(k)] = v
		}
		return dst
	}
	return &Catalog{
		vsToVs30:      copySet(vsToVs30),
		cptToVs:       copySet(cptToVs),
		sptToVs:       copySet(sptToVs),
		hammerTypes:   copySet(hammerTypes),
		minimumDepths: defaultMinimumDepths(),
	}
}
