package youtube

import "regexp"

// ExtractionPattern is one rule used to recognise a reference and capture its
// video identifier in the named group "id". Rules for hosts that accept the
// privacy-enhanced domain capture it in the group "nocookie".
type ExtractionPattern struct {
	Name string
	re   *regexp.Regexp
}

// ReferenceMatch is the outcome of a successful pattern match.
type ReferenceMatch struct {
	Pattern  string
	VideoID  string
	NoCookie bool
	// URL is the matched part of the reference.
	URL string
}

// Match returns the captured identifier when the pattern matches.
func (p ExtractionPattern) Match(reference string) (string, bool) {
	m, ok := p.match(reference)
	return m.VideoID, ok
}

func (p ExtractionPattern) match(reference string) (ReferenceMatch, bool) {
	m := p.re.FindStringSubmatch(reference)
	if m == nil {
		return ReferenceMatch{}, false
	}
	id := m[p.re.SubexpIndex("id")]
	if id == "" {
		return ReferenceMatch{}, false
	}
	rm := ReferenceMatch{Pattern: p.Name, VideoID: id, URL: m[0]}
	if i := p.re.SubexpIndex("nocookie"); i >= 0 {
		rm.NoCookie = m[i] != ""
	}
	return rm, true
}

func pattern(name, expr string) ExtractionPattern {
	return ExtractionPattern{Name: name, re: regexp.MustCompile(expr)}
}

// Patterns lists the recognised reference shapes in priority order. The first
// matching rule wins.
var Patterns = []ExtractionPattern{
	pattern("embed", `(?i)(http|https)://www\.youtube(?P<nocookie>-nocookie)?\.com/embed/(?P<id>[a-z0-9_-]+)`),
	pattern("v", `(?i)(http|https)://www\.youtube(?P<nocookie>-nocookie)?\.com/v/(?P<id>[a-z0-9_-]+)`),
	pattern("embed-protocol-relative", `(?i)//www\.youtube(?P<nocookie>-nocookie)?\.com/embed/(?P<id>[a-z0-9_-]+)`),
	pattern("v-protocol-relative", `(?i)//www\.youtube(?P<nocookie>-nocookie)?\.com/v/(?P<id>[a-z0-9_-]+)`),
	pattern("watch", `(?i)(http|https)://www\.youtube\.com/watch\?v=(?P<id>[a-z0-9_-]+)`),
}

// MatchReference runs Patterns against reference and reports the first match.
func MatchReference(reference string) (ReferenceMatch, bool) {
	if reference == "" {
		return ReferenceMatch{}, false
	}
	for _, p := range Patterns {
		if m, ok := p.match(reference); ok {
			return m, true
		}
	}
	return ReferenceMatch{}, false
}

// ExtractVideoID runs Patterns against reference and returns the identifier of
// the first match. ok is false when the reference is not a YouTube reference.
func ExtractVideoID(reference string) (id string, ok bool) {
	m, ok := MatchReference(reference)
	return m.VideoID, ok
}
