package domain

import (
	"regexp"
	"strconv"
)

var (
	// pairRe matches a plain decimal pair anywhere in the text:
	// "9.731,99.990", "9.748065, +99.975760". Highest-confidence source.
	pairRe = regexp.MustCompile(`(-?\d{1,3}\.\d+)\s*,\s*\+?(-?\d{1,3}\.\d+)`)

	// urlPairRe matches coordinates embedded in map URLs: the "@lat,lng"
	// viewport segment, "q=lat,lng" and "query=lat,lng" parameters, and the
	// "search/lat,+lng" path form.
	urlPairRe = regexp.MustCompile(`(?:@|[?&]q(?:uery)?=|search/)(-?\d{1,3}(?:\.\d+)?),\s*\+?(-?\d{1,3}(?:\.\d+)?)`)

	// dataPairRe matches the "!3d<lat>!4d<lng>" data segments of expanded
	// Google Maps place URLs.
	dataPairRe = regexp.MustCompile(`!3d(-?\d{1,3}(?:\.\d+)?)!4d(-?\d{1,3}(?:\.\d+)?)`)

	// dmsRe matches degree-minute-second place URLs such as
	// place/9°43'41.5"N+99°59'38.8"E. Quote characters vary by source.
	dmsRe = regexp.MustCompile(`(\d{1,3})°(\d{1,2})'([\d.]+)["”]N\+(\d{1,3})°(\d{1,2})'([\d.]+)["”]E`)
)

// Resolve extracts a coordinate from free-text location input: a full map
// URL, a plain "lat,lng" pair, or anything else a volunteer pasted in.
// Rules run in decreasing order of source reliability and the first
// range-valid match wins. Extracted pairs failing range checks are treated
// as non-matches, falling through to the next rule. No match is a valid
// terminal outcome, not an error: shortened links without a textual
// coordinate resolve to (zero, false) and are kept for manual follow-up.
//
// Pure function: no network, no state, safe for concurrent use.
func Resolve(text string) (Coordinate, bool) {
	if text == "" {
		return Coordinate{}, false
	}

	for _, re := range []*regexp.Regexp{pairRe, urlPairRe, dataPairRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if c, ok := parsePair(m[1], m[2]); ok {
				return c, true
			}
		}
	}

	if m := dmsRe.FindStringSubmatch(text); m != nil {
		if c, ok := parseDMS(m); ok {
			return c, true
		}
	}

	return Coordinate{}, false
}

func parsePair(latStr, lngStr string) (Coordinate, bool) {
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: lat, Lng: lng}
	return c, c.Valid()
}

func parseDMS(m []string) (Coordinate, bool) {
	f := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return Coordinate{}, false
		}
		f[i] = v
	}
	c := Coordinate{
		Lat: f[0] + f[1]/60 + f[2]/3600,
		Lng: f[3] + f[4]/60 + f[5]/3600,
	}
	return c, c.Valid()
}
