package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/muesli/termenv"

	"github.com/ajxudir/pacwatch/pkg/classify"
	"github.com/ajxudir/pacwatch/pkg/output"
	"github.com/ajxudir/pacwatch/pkg/packages"
)

// Options controls text rendering.
type Options struct {
	// Profile is the color profile; termenv.Ascii renders plain text.
	Profile termenv.Profile
}

// VerboseGroup is one verbose line: every package moving from Old to New.
type VerboseGroup struct {
	Old      string
	New      string
	Packages []string
}

type versionPair struct {
	old, new string
}

// Report collects the upgrades of one run.
type Report struct {
	order   []classify.Component
	verbose map[versionPair][]string
	buckets map[classify.Component][]packages.Update
	count   int
}

// New creates an empty Report.
//
// Parameters:
//   - groups: Configured bucket order. classify.NotInstalled and
//     classify.Unknown keep their position when listed and are otherwise
//     appended, in that order.
//
// Returns:
//   - *Report: the empty report
func New(groups []classify.Component) *Report {
	order := make([]classify.Component, 0, len(groups)+2)
	seen := make(map[classify.Component]bool, len(groups)+2)
	for _, g := range groups {
		if !seen[g] {
			order = append(order, g)
			seen[g] = true
		}
	}
	for _, pseudo := range []classify.Component{classify.NotInstalled, classify.Unknown} {
		if !seen[pseudo] {
			order = append(order, pseudo)
			seen[pseudo] = true
		}
	}
	return &Report{
		order:   order,
		verbose: make(map[versionPair][]string),
		buckets: make(map[classify.Component][]packages.Update),
	}
}

// Add records one upgrade, either as a verbose line or in its bucket.
func (r *Report) Add(u packages.Update, verbose bool) {
	r.count++
	if verbose {
		key := versionPair{u.Old, u.New}
		r.verbose[key] = append(r.verbose[key], u.Name)
		return
	}
	component := u.Component
	if component == "" {
		component = classify.Unknown
	}
	r.buckets[component] = append(r.buckets[component], u)
}

// Len returns the number of upgrades added.
func (r *Report) Len() int {
	return r.count
}

// Verbose returns the verbose lines sorted by (old, new) with package names
// sorted within each line.
func (r *Report) Verbose() []VerboseGroup {
	groups := make([]VerboseGroup, 0, len(r.verbose))
	for key, names := range r.verbose {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		groups = append(groups, VerboseGroup{Old: key.old, New: key.new, Packages: sorted})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Old != groups[j].Old {
			return groups[i].Old < groups[j].Old
		}
		return groups[i].New < groups[j].New
	})
	return groups
}

// Buckets returns the non-empty buckets in display order.
//
// Keys are component names and values are []packages.Update sorted by name.
// Components missing from the configured order follow it alphabetically,
// before the appended pseudo components.
//
// Returns:
//   - *orderedmap.OrderedMap: component name to sorted updates
func (r *Report) Buckets() *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, component := range r.bucketOrder() {
		updates := r.buckets[component]
		if len(updates) == 0 {
			continue
		}
		sorted := append([]packages.Update(nil), updates...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
		m.Set(string(component), sorted)
	}
	return m
}

func (r *Report) bucketOrder() []classify.Component {
	known := make(map[classify.Component]bool, len(r.order))
	for _, c := range r.order {
		known[c] = true
	}
	var extra []classify.Component
	for c := range r.buckets {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	if len(extra) == 0 {
		return r.order
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	// Splice the extras in before the trailing pseudo components.
	tail := len(r.order)
	for tail > 0 && (r.order[tail-1] == classify.NotInstalled || r.order[tail-1] == classify.Unknown) {
		tail--
	}
	order := make([]classify.Component, 0, len(r.order)+len(extra))
	order = append(order, r.order[:tail]...)
	order = append(order, extra...)
	return append(order, r.order[tail:]...)
}

// Render writes the text report to w in a single write.
//
// It performs the following operations:
//   - Step 1: Writes the verbose lines, old versions right-aligned and new
//     versions left-aligned, with the changed suffixes highlighted
//   - Step 2: Writes one line per non-empty bucket
//
// Parameters:
//   - w: Destination writer
//   - opts: Rendering options
//
// Returns:
//   - error: Error from the final write
func (r *Report) Render(w io.Writer, opts Options) error {
	var buf bytes.Buffer
	st := newStyles(&buf, opts.Profile)

	verbose := r.Verbose()
	width := 0
	for _, g := range verbose {
		width = max(width, displayWidth(g.Old), displayWidth(g.New))
	}
	for _, g := range verbose {
		oldRunes, newRunes := []rune(g.Old), []rune(g.New)
		n := commonPrefix(oldRunes, newRunes)

		buf.WriteString(padding(g.Old, width))
		buf.WriteString(string(oldRunes[:n]))
		buf.WriteString(render(st.removed, string(oldRunes[n:])))
		buf.WriteString(" -> ")
		buf.WriteString(string(newRunes[:n]))
		buf.WriteString(render(st.added, string(newRunes[n:])))
		buf.WriteString(padding(g.New, width))
		buf.WriteString(": ")
		buf.WriteString(strings.Join(g.Packages, ", "))
		buf.WriteString("\n")
	}

	buckets := r.Buckets()
	for _, key := range buckets.Keys() {
		value, _ := buckets.Get(key)
		updates := value.([]packages.Update)

		buf.WriteString(render(st.label, key+" ("+strconv.Itoa(len(updates))+")"))
		for _, u := range updates {
			buf.WriteString(" " + u.Name + "-" + u.New)
		}
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return nil
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteJSON writes the report as a JSON document.
//
// The document has the form
//
//	{"verbose": [{"old", "new", "packages"}], "groups": {<bucket>: [{"name", "old", "new"}]}}
//
// with verbose lines and buckets in the same order as Render.
func (r *Report) WriteJSON(w io.Writer) error {
	verbose := make([]interface{}, 0, len(r.verbose))
	for _, g := range r.Verbose() {
		line := orderedmap.New()
		line.Set("old", g.Old)
		line.Set("new", g.New)
		line.Set("packages", g.Packages)
		verbose = append(verbose, line)
	}

	groups := orderedmap.New()
	buckets := r.Buckets()
	for _, key := range buckets.Keys() {
		value, _ := buckets.Get(key)
		updates := value.([]packages.Update)
		entries := make([]interface{}, 0, len(updates))
		for _, u := range updates {
			entry := orderedmap.New()
			entry.Set("name", u.Name)
			entry.Set("old", u.Old)
			entry.Set("new", u.New)
			if u.Provider != "" {
				entry.Set("provider", u.Provider)
			}
			entries = append(entries, entry)
		}
		groups.Set(key, entries)
	}

	doc := orderedmap.New()
	doc.Set("verbose", verbose)
	doc.Set("groups", groups)
	if err := output.WriteJSON(w, doc); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
