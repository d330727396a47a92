package detect

import (
	"encoding/json"
	"sort"
	"strings"
)

// SectorAvailability is one seating zone with its observed availability.
// AvailableCount 1 can mean "available, unspecified quantity" when it came
// from a channel that only knows presence.
type SectorAvailability struct {
	Name           string
	AvailableCount int
}

// Field names vendors use for zone names and for availability counts. The
// walker matches case-insensitively.
var (
	sectorNameKeys = []string{"name", "title", "label", "sector", "zone", "section", "zona"}
	availableKeys  = []string{"available", "availability", "available_count", "remaining", "free", "disponibles", "disponibilidad", "stock"}
	capacityKeys   = []string{"capacity", "total", "cupo", "aforo"}
	soldKeys       = []string{"sold", "vendidas", "vendidos", "occupied", "taken"}
)

// ParseSectorPayload walks an arbitrary JSON payload looking for objects
// that carry a zone name and an availability count, either directly or as
// capacity minus sold. Zones that compute to zero availability are dropped.
// Malformed payloads yield nil.
func ParseSectorPayload(body []byte) []SectorAvailability {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil
	}
	var out []SectorAvailability
	walkSectorNode(root, &out)
	return out
}

func walkSectorNode(node interface{}, out *[]SectorAvailability) {
	switch v := node.(type) {
	case map[string]interface{}:
		if name, count, ok := sectorFromObject(v); ok && count > 0 {
			*out = append(*out, SectorAvailability{Name: name, AvailableCount: count})
		}
		for _, child := range v {
			walkSectorNode(child, out)
		}
	case []interface{}:
		for _, child := range v {
			walkSectorNode(child, out)
		}
	}
}

// sectorFromObject tries to read a (name, availableCount) pair out of one
// JSON object. ok is false when either half is missing.
func sectorFromObject(obj map[string]interface{}) (string, int, bool) {
	name := ""
	for _, key := range sectorNameKeys {
		if s, ok := lookupString(obj, key); ok && s != "" {
			name = s
			break
		}
	}
	if name == "" {
		return "", 0, false
	}

	for _, key := range availableKeys {
		if n, ok := lookupNumber(obj, key); ok {
			return name, n, true
		}
	}

	capacity, hasCapacity := 0, false
	for _, key := range capacityKeys {
		if n, ok := lookupNumber(obj, key); ok {
			capacity, hasCapacity = n, true
			break
		}
	}
	if hasCapacity {
		for _, key := range soldKeys {
			if sold, ok := lookupNumber(obj, key); ok {
				return name, capacity - sold, true
			}
		}
	}

	return "", 0, false
}

func lookupString(obj map[string]interface{}, key string) (string, bool) {
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			s, ok := v.(string)
			return strings.TrimSpace(s), ok
		}
	}
	return "", false
}

func lookupNumber(obj map[string]interface{}, key string) (int, bool) {
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			f, ok := v.(float64)
			return int(f), ok
		}
	}
	return 0, false
}

// MergeSectors deduplicates by name keeping the maximum observed count, then
// orders by descending count and name.
func MergeSectors(sectors []SectorAvailability) []SectorAvailability {
	byName := make(map[string]int)
	for _, s := range sectors {
		if s.Name == "" || s.AvailableCount <= 0 {
			continue
		}
		if existing, ok := byName[s.Name]; !ok || s.AvailableCount > existing {
			byName[s.Name] = s.AvailableCount
		}
	}

	merged := make([]SectorAvailability, 0, len(byName))
	for name, count := range byName {
		merged = append(merged, SectorAvailability{Name: name, AvailableCount: count})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].AvailableCount != merged[j].AvailableCount {
			return merged[i].AvailableCount > merged[j].AvailableCount
		}
		return merged[i].Name < merged[j].Name
	})
	return merged
}
