package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
)

// Key types reported to observability hooks.
const (
	KeyTypeIdentify = "identify"
	KeyTypeAnalysis = "analysis"
)

// IdentifyKeyOpts holds everything besides the graph that changes an
// identification result.
type IdentifyKeyOpts struct {
	Algorithm  string
	Outcomes   []string
	Treatments []string
	I          []string
	J          []string
	Z          []string
	Domains    [][]string
}

// Keyer builds cache keys.
type Keyer interface {
	// IdentifyKey keys an identification result by graph hash and query.
	IdentifyKey(graphHash string, opts IdentifyKeyOpts) string

	// AnalysisKey keys a structural analysis (districts, apt-order) of a
	// graph.
	AnalysisKey(graphHash, kind string) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// IdentifyKey implements Keyer. Variable sets are sorted first, so the key
// does not depend on the order the caller listed them in. Domain order is
// kept because z2 considers domains in list order.
func (DefaultKeyer) IdentifyKey(graphHash string, opts IdentifyKeyOpts) string {
	domains := make([][]string, len(opts.Domains))
	for i, d := range opts.Domains {
		domains[i] = sorted(d)
	}
	return hashKey("identify:"+opts.Algorithm, graphHash,
		sorted(opts.Outcomes), sorted(opts.Treatments),
		sorted(opts.I), sorted(opts.J), sorted(opts.Z), domains)
}

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(graphHash, kind string) string {
	return "analysis:" + strings.ToLower(kind) + ":" + graphHash
}

func sorted(vs []string) []string {
	out := slices.Clone(vs)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}

func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. Graph hashes and identify
// keys are built from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
