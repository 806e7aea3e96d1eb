package document

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

var (
	nodeEntry     = regexp.MustCompile(`\(\s*(-?[0-9]*\.?[0-9]+)\s*,\s*(-?[0-9]*\.?[0-9]+)\s*\)\{\s*([A-Za-z]\w*)\s*\}`)
	statement     = regexp.MustCompile(`^(.+?)\(\s*([A-Za-z]\w*)\s*\)\(\s*([A-Za-z]\w*)\s*\)\{(.*)\}$`)
	gratingOption = regexp.MustCompile(`gratingwidth\s*=\s*([^,\]\s]+)`)
)

// Parse reconstructs the component list from a document produced by
// [Generate], including documents whose labels, positions or generic
// markup were edited by hand.
//
// Component k is the k-th statement inside the optexp environment, placed
// at node Nodek. Names and params come from the metadata comment above
// each statement; without one the name is recovered from the catalog by
// markup. Statement labels always win over the label param. An exact
// position recorded in the comment is used on each axis whose pnodes entry
// was left as generated.
//
// The generated document for an empty diagram parses to zero components
// and a nil error. Any other text without component statements fails with
// PARSE_FAILURE, so callers can refuse to replace a populated diagram.
// cat may be nil, in which case no catalog lookups are made.
func Parse(text string, cat *catalog.Catalog) ([]diagram.Component, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	nodes := make(map[string]diagram.Position)
	var (
		inBody      bool
		sawBody     bool
		placeholder bool
		comment     string
		out         []diagram.Component
	)

	for _, raw := range lines {
		l := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(l, `\pnodes`):
			for _, m := range nodeEntry.FindAllStringSubmatch(l, -1) {
				nodes[m[3]] = diagram.Position{X: coord(m[1]), Y: coord(m[2])}
			}
			continue
		case strings.HasPrefix(l, beginOptexp):
			inBody, sawBody = true, true
			continue
		case strings.HasPrefix(l, endOptexp):
			inBody = false
			continue
		}
		if !inBody || l == "" {
			continue
		}

		if strings.HasPrefix(l, "%") {
			c := strings.TrimSpace(strings.TrimPrefix(l, "%"))
			switch c {
			case commentEmpty:
				placeholder = true
			case commentBeams:
				inBody = false
			default:
				comment = c
			}
			continue
		}

		m := statement.FindStringSubmatch(l)
		if m == nil {
			comment = ""
			continue
		}
		c, exact := component(strings.TrimSpace(m[1]), m[4], comment, cat)
		c.Position = nodes[nodeName(len(out))]
		if exact != nil {
			c.Position = exactPosition(c.Position, *exact)
		}
		out = append(out, c)
		comment = ""
	}

	if len(out) == 0 {
		if sawBody && placeholder {
			return []diagram.Component{}, nil
		}
		return nil, errors.New(errors.ErrCodeParseFailure, "no component statements found")
	}
	return out, nil
}

func component(frag, label, comment string, cat *catalog.Catalog) (diagram.Component, *diagram.Position) {
	md, ok := parseMetadata(comment)
	if !ok && comment != "" {
		md.name = comment
	}
	name, params := md.name, md.params
	if name == "" {
		if a, found := findByMarkup(cat, frag); found {
			name = a.Name
		} else {
			name = frag
		}
	}

	a, resolved := lookup(cat, name)
	if params == nil {
		if resolved {
			params = a.Defaults.Clone()
		} else {
			params = catalog.Params{}
		}
	}
	params["label"] = label

	kind := catalog.Classify(name)
	if kind == catalog.KindGrating {
		if m := gratingOption.FindStringSubmatch(frag); m != nil && m[1] != gratingWidth(params) {
			params["gratingwidth"] = m[1]
		}
	}

	markup := frag
	if resolved && kind != catalog.KindGeneric {
		markup = a.Markup
	}
	return diagram.Component{Name: name, Markup: markup, Params: params}, md.exact
}

type metadataComment struct {
	name   string
	params catalog.Params
	exact  *diagram.Position
}

// parseMetadata reads "<name> {json}[ @(x,y)]" as written by metadata.
func parseMetadata(comment string) (metadataComment, bool) {
	var md metadataComment
	body := comment
	if i := strings.LastIndex(body, " @("); i >= 0 && strings.HasSuffix(body, ")") {
		if p, ok := parsePoint(body[i+3 : len(body)-1]); ok {
			md.exact = &p
			body = body[:i]
		}
	}

	var ok bool
	if strings.HasPrefix(body, `"`) {
		md.name, md.params, ok = quotedMetadata(body)
	} else {
		md.name, md.params, ok = plainMetadata(body)
	}
	if !ok {
		return metadataComment{}, false
	}
	return md, true
}

func quotedMetadata(s string) (string, catalog.Params, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	var name string
	if err := dec.Decode(&name); err != nil {
		return "", nil, false
	}
	params, ok := paramsObject(s[dec.InputOffset():])
	return name, params, ok
}

// plainMetadata tries each " {" from the left, so names may contain the
// sequence themselves.
func plainMetadata(s string) (string, catalog.Params, bool) {
	for i := 0; i < len(s); i++ {
		j := strings.Index(s[i:], " {")
		if j < 0 {
			break
		}
		i += j
		if params, ok := paramsObject(s[i+1:]); ok {
			return strings.TrimSpace(s[:i]), params, true
		}
	}
	return "", nil, false
}

func paramsObject(s string) (catalog.Params, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, false
	}
	var params catalog.Params
	if err := json.Unmarshal([]byte(s), &params); err != nil {
		return nil, false
	}
	if params == nil {
		params = catalog.Params{}
	}
	return params, true
}

func parsePoint(s string) (diagram.Position, bool) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return diagram.Position{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return diagram.Position{}, false
	}
	return diagram.Position{X: x, Y: y}, true
}

// exactPosition keeps the pnodes value on any axis edited by hand.
func exactPosition(node, exact diagram.Position) diagram.Position {
	if node.X == rounded(exact.X) {
		node.X = exact.X
	}
	if node.Y == rounded(exact.Y) {
		node.Y = exact.Y
	}
	return node
}

func coord(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return math.Round(v*Scale*1e6) / 1e6
}

func lookup(cat *catalog.Catalog, name string) (catalog.Archetype, bool) {
	if cat == nil {
		return catalog.Archetype{}, false
	}
	a, ok := cat.Lookup(name)
	if ok && a.IsSetup() {
		return catalog.Archetype{}, false
	}
	return a, ok
}

func findByMarkup(cat *catalog.Catalog, frag string) (catalog.Archetype, bool) {
	if cat == nil {
		return catalog.Archetype{}, false
	}
	return cat.FindByMarkup(frag)
}
