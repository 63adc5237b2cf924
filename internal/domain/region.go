package domain

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegionTable []byte

var regionCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// RegionIdentity is the canonical identity of a state or union territory.
type RegionIdentity struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// IsZero reports whether the identity is unset.
func (r RegionIdentity) IsZero() bool { return r.Code == "" }

// RegionKind classifies entries of the region table.
type RegionKind string

const (
	KindState      RegionKind = "state"
	KindAggregate  RegionKind = "aggregate"
	KindUnassigned RegionKind = "unassigned"
	KindHistorical RegionKind = "historical"
)

// MatchKind records how a name was matched to a region.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchCanonical
	MatchAlias
	MatchMerged
)

func (m MatchKind) String() string {
	switch m {
	case MatchCanonical:
		return "canonical"
	case MatchAlias:
		return "alias"
	case MatchMerged:
		return "merged"
	default:
		return "none"
	}
}

type regionEntry struct {
	identity   RegionIdentity
	kind       RegionKind
	mergedInto string
}

// Registry resolves provider region names to canonical identities. It is
// built once from the region table and never modified, so it is safe for
// concurrent use.
type Registry struct {
	entries []regionEntry
	byCode  map[string]int
	byName  map[string]int
	byAlias map[string]int
	parts   map[string][]int
}

type regionTable struct {
	Regions []regionSpec `yaml:"regions"`
}

type regionSpec struct {
	Code       string   `yaml:"code"`
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	MergedInto string   `yaml:"merged_into"`
	Aliases    []string `yaml:"aliases"`
}

// LoadRegistry reads the region table at path, or the built-in table when
// path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return ParseRegistry(defaultRegionTable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region table: %w", err)
	}
	return ParseRegistry(data)
}

// DefaultRegistry returns a registry built from the embedded region table.
func DefaultRegistry() (*Registry, error) {
	return ParseRegistry(defaultRegionTable)
}

// ParseRegistry decodes and validates a YAML region table.
func ParseRegistry(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var table regionTable
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty", ErrInvalidRegistry)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	if len(table.Regions) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrInvalidRegistry)
	}

	r := &Registry{
		entries: make([]regionEntry, 0, len(table.Regions)),
		byCode:  make(map[string]int, len(table.Regions)),
		byName:  make(map[string]int, len(table.Regions)),
		byAlias: make(map[string]int),
		parts:   make(map[string][]int),
	}

	// seen tracks every folded name and alias so that no spelling can point
	// at two regions.
	seen := make(map[string]string)
	claim := func(spelling, code string) error {
		key := foldName(spelling)
		if key == "" {
			return fmt.Errorf("%w: region %s has an empty name or alias", ErrInvalidRegistry, code)
		}
		if owner, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q is used by both %s and %s", ErrInvalidRegistry, spelling, owner, code)
		}
		seen[key] = code
		return nil
	}

	for _, spec := range table.Regions {
		code := strings.TrimSpace(spec.Code)
		if !regionCodeRe.MatchString(code) {
			return nil, fmt.Errorf("%w: code %q must be two uppercase letters", ErrInvalidRegistry, spec.Code)
		}
		if _, dup := r.byCode[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrInvalidRegistry, code)
		}
		kind, err := parseRegionKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: region %s: %v", ErrInvalidRegistry, code, err)
		}
		if spec.MergedInto != "" && kind != KindHistorical {
			return nil, fmt.Errorf("%w: region %s sets merged_into but is not historical", ErrInvalidRegistry, code)
		}

		name := collapseSpaces(spec.Name)
		if err := claim(name, code); err != nil {
			return nil, err
		}

		idx := len(r.entries)
		r.entries = append(r.entries, regionEntry{
			identity:   RegionIdentity{Code: code, Name: name},
			kind:       kind,
			mergedInto: strings.TrimSpace(spec.MergedInto),
		})
		r.byCode[code] = idx
		r.byName[foldName(name)] = idx

		for _, alias := range spec.Aliases {
			if err := claim(alias, code); err != nil {
				return nil, err
			}
			r.byAlias[foldName(alias)] = idx
		}
	}

	for idx, e := range r.entries {
		if e.mergedInto == "" {
			continue
		}
		target, ok := r.byCode[e.mergedInto]
		if !ok {
			return nil, fmt.Errorf("%w: %s is merged into unknown region %s", ErrInvalidRegistry, e.identity.Code, e.mergedInto)
		}
		if r.entries[target].kind == KindHistorical {
			return nil, fmt.Errorf("%w: %s is merged into historical region %s", ErrInvalidRegistry, e.identity.Code, e.mergedInto)
		}
		r.parts[e.mergedInto] = append(r.parts[e.mergedInto], idx)
	}

	return r, nil
}

func parseRegionKind(s string) (RegionKind, error) {
	switch RegionKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindState:
		return KindState, nil
	case KindAggregate:
		return KindAggregate, nil
	case KindUnassigned:
		return KindUnassigned, nil
	case KindHistorical:
		return KindHistorical, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// Resolve maps a provider's region name to its identity, consulting
// canonical names first and aliases second. The error wraps ErrNotFound.
func (r *Registry) Resolve(name string) (RegionIdentity, error) {
	id, _, ok := r.Lookup(name)
	if !ok {
		return RegionIdentity{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return id, nil
}

// Lookup is Resolve with the matched table reported instead of an error.
func (r *Registry) Lookup(name string) (RegionIdentity, MatchKind, bool) {
	key := foldName(name)
	if key == "" {
		return RegionIdentity{}, MatchNone, false
	}
	if idx, ok := r.byName[key]; ok {
		return r.entries[idx].identity, MatchCanonical, true
	}
	if idx, ok := r.byAlias[key]; ok {
		return r.entries[idx].identity, MatchAlias, true
	}
	return RegionIdentity{}, MatchNone, false
}

// ByCode looks a region up by its two-letter code, ignoring case.
func (r *Registry) ByCode(code string) (RegionIdentity, bool) {
	idx, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return RegionIdentity{}, false
	}
	return r.entries[idx].identity, true
}

// ResolveCodeOrName accepts either form, as users type them in chat.
func (r *Registry) ResolveCodeOrName(s string) (RegionIdentity, error) {
	if id, ok := r.ByCode(s); ok {
		return id, nil
	}
	return r.Resolve(s)
}

// Kind returns the table kind of a region, or "" for unknown identities.
func (r *Registry) Kind(id RegionIdentity) RegionKind {
	idx, ok := r.byCode[id.Code]
	if !ok {
		return ""
	}
	return r.entries[idx].kind
}

// IsAggregate reports whether id is the national "Total" pseudo-region.
func (r *Registry) IsAggregate(id RegionIdentity) bool { return r.Kind(id) == KindAggregate }

// IsUnassigned reports whether id is the bucket for cases not yet attributed
// to any region.
func (r *Registry) IsUnassigned(id RegionIdentity) bool { return r.Kind(id) == KindUnassigned }

// Parts returns the historical regions merged into code, in table order.
func (r *Registry) Parts(code string) []RegionIdentity {
	idxs := r.parts[code]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]RegionIdentity, len(idxs))
	for i, idx := range idxs {
		out[i] = r.entries[idx].identity
	}
	return out
}

// Listed returns the regions users can ask for: states and the unassigned
// bucket, in table order.
func (r *Registry) Listed() []RegionIdentity {
	out := make([]RegionIdentity, 0, len(r.entries))
	for _, e := range r.entries {
		if e.kind == KindState || e.kind == KindUnassigned {
			out = append(out, e.identity)
		}
	}
	return out
}

// Len returns the number of regions in the table.
func (r *Registry) Len() int { return len(r.entries) }

// foldName produces the lookup key for a region name: whitespace collapsed,
// accents removed, Unicode case folded.
func foldName(s string) string {
	s = collapseSpaces(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return cases.Fold().String(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
