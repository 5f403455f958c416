package provider

import (
	"sort"
	"strings"
)

// ShowingTime is one flattened screening extracted from a showtimes
// payload, keyed by the film's cross-provider id.
type ShowingTime struct {
	ImdbTitleID      string
	StartTime        string
	DisplayStartTime *string
}

// NormalizeShowings flattens the per-format time blocks of a payload
// into one list. The provider is inconsistent about where the start
// time lives (start_time, time, or the time half of datetime); all
// known variants map to StartTime. Entries with no resolvable start
// time are dropped.
func NormalizeShowings(payload *ShowTimesPayload) []ShowingTime {
	if payload == nil || len(payload.Films) == 0 {
		return []ShowingTime{}
	}

	out := []ShowingTime{}
	for _, f := range payload.Films {
		// Iterate format keys in a stable order so repeated
		// normalization of the same payload is deterministic.
		keys := make([]string, 0, len(f.Showings))
		for k := range f.Showings {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			for _, t := range f.Showings[k].Times {
				start := t.StartTime
				if start == "" {
					start = t.Time
				}
				if start == "" && strings.Contains(t.Datetime, "T") {
					start = strings.SplitN(t.Datetime, "T", 2)[1]
				}
				if start == "" {
					continue
				}
				if len(start) > 8 {
					start = start[:8]
				}
				display := t.DisplayTime
				if display == "" {
					display = t.Display
				}
				st := ShowingTime{ImdbTitleID: f.ImdbTitleID, StartTime: start}
				if display != "" {
					st.DisplayStartTime = &display
				}
				out = append(out, st)
			}
		}
	}
	return out
}

// ExtractImageEntries flattens an images payload into a list, putting
// the preferred group first (poster by default).
func ExtractImageEntries(payload *ImagesPayload, prefer string) []ImageEntry {
	if payload == nil {
		return nil
	}
	groups := [][]map[string]ImageEntry{}
	if prefer != "still" {
		groups = append(groups, []map[string]ImageEntry{payload.Poster, payload.Still})
	} else {
		groups = append(groups, []map[string]ImageEntry{payload.Still, payload.Poster})
	}

	out := []ImageEntry{}
	for _, group := range groups[0] {
		keys := make([]string, 0, len(group))
		for k := range group {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, group[k])
		}
	}
	return out
}

// PickSizeVariant chooses the requested size when present, falling back
// through the sizes largest-first.
func PickSizeVariant(entry ImageEntry, sizePref string) *ImageVariant {
	bySize := map[string]*ImageVariant{
		"XXLarge": entry.XXLarge,
		"XLarge":  entry.XLarge,
		"large":   entry.Large,
		"medium":  entry.Medium,
		"small":   entry.Small,
	}
	if v := bySize[sizePref]; v != nil {
		return v
	}
	for _, key := range []string{"XXLarge", "XLarge", "large", "medium", "small"} {
		if v := bySize[key]; v != nil {
			return v
		}
	}
	return nil
}
