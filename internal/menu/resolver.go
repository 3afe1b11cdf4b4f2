// Menu tree resolver.
//
// The catalog stores an arbitrarily deep group hierarchy as flat rows with
// semicolon-joined paths, because the backing store is a flat table. The
// resolver reconstructs tree traversal by re-filtering rows and re-joining
// prefixes at each step: O(rows) per menu render, no persistent tree index.
//
// All functions here are pure over the snapshot they are given. A fingerprint
// that matches nothing in the snapshot (the catalog changed between render
// and tap) yields an empty result, never an error.
package menu

import (
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/fingerprint"
)

// Option is one selectable menu entry: a display label and the wire-form
// token (without callback prefix) that advances the flow when tapped.
type Option struct {
	Label string
	Token string
}

// sortLabels orders labels with Russian collation, so Cyrillic catalog
// entries sort naturally; for ASCII this coincides with byte order.
func sortLabels(labels []string) {
	collate.New(language.Russian).SortStrings(labels)
}

// ListModels returns the selectable model names: deduplicated, with the
// metadata marker row excluded, sorted.
func ListModels(snap domain.CatalogSnapshot) []string {
	seen := make(map[string]struct{}, len(snap.Models))
	out := make([]string, 0, len(snap.Models))
	for _, m := range snap.Models {
		if m.Name == "" || m.Sentinel() {
			continue
		}
		if _, dup := seen[m.Name]; dup {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m.Name)
	}
	sortLabels(out)
	return out
}

// ListNextLevel computes the group options one level below the token's
// position. It returns nil when no deeper group segment exists for the
// current prefix — the signal to fall through to leaf operations.
//
// A question row survives when its model matches, it is deep enough for the
// requested depth, and the fingerprint of its joined prefix above the
// requested depth matches the token's group. At depth 1 the group
// fingerprint is the model's own, since there is no prefix yet.
func ListNextLevel(snap domain.CatalogSnapshot, tok Token) []Option {
	depth := tok.Depth
	seen := make(map[string]struct{})
	for _, q := range snap.Quest {
		if !fingerprint.Matches(q.Model, tok.Model) {
			continue
		}
		if len(q.Groups) < depth {
			continue
		}
		parent := q.Model
		if depth > 1 {
			parent = q.GroupPrefix(depth - 1)
		}
		if !fingerprint.Matches(parent, tok.Group) {
			continue
		}
		seen[q.GroupPrefix(depth)] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}

	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sortLabels(prefixes)

	out := make([]Option, 0, len(prefixes))
	for _, p := range prefixes {
		segs := strings.Split(p, domain.GroupSeparator)
		out = append(out, Option{
			Label: segs[len(segs)-1],
			Token: tok.Model + "_" + fingerprint.Of(p) + "_" + strconv.Itoa(depth+1),
		})
	}
	return out
}

// ListLeafOperations returns the operations selectable under the token's
// (model, group) pair, in store order, deduplicated by operation fingerprint.
// Hidden rows are excluded. Each option's token is "{model}_{operationFP}".
func ListLeafOperations(snap domain.CatalogSnapshot, tok Token) []Option {
	seen := make(map[string]struct{})
	var out []Option
	for _, d := range snap.Details {
		if d.Hidden {
			continue
		}
		if !fingerprint.Matches(d.Model, tok.Model) || !fingerprint.Matches(d.Group, tok.Group) {
			continue
		}
		fp := fingerprint.Of(d.Operation)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, Option{
			Label: d.Operation,
			Token: tok.Model + "_" + fp,
		})
	}
	return out
}

// ModelByToken resolves a model fingerprint back to its display name by
// re-hashing every candidate. The metadata marker never resolves.
func ModelByToken(snap domain.CatalogSnapshot, fp string) (string, bool) {
	for _, m := range snap.Models {
		if m.Name == "" || m.Sentinel() {
			continue
		}
		if fingerprint.Matches(m.Name, fp) {
			return m.Name, true
		}
	}
	return "", false
}

// OperationByToken resolves an operation fingerprint back to its text.
func OperationByToken(snap domain.CatalogSnapshot, fp string) (string, bool) {
	for _, d := range snap.Details {
		if fingerprint.Matches(d.Operation, fp) {
			return d.Operation, true
		}
	}
	return "", false
}
