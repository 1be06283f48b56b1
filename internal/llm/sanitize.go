package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeAndSanitizeFocusJSON
// - Strips markdown fences and any prose around the JSON object
// - Renames known synonyms (grades -> focus_grades, student_group -> focus_student_group)
// - Trims strings and drops null/empty values
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeFocusJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	body := extractJSONObject(string(raw))
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 4)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms the model occasionally invents
	renamed("grades", "focus_grades")
	renamed("grade_levels", "focus_grades")
	renamed("student_group", "focus_student_group")
	renamed("student_groups", "focus_student_group")

	// 2) trim strings, drop null / ""
	for _, k := range []string{"focus_grades", "focus_student_group"} {
		switch t := m[k].(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		}
	}

	// 3) remove unknown keys
	allowed := map[string]struct{}{
		"focus_grades": {}, "focus_student_group": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.focus.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// extractJSONObject trims everything outside the first balanced top-level
// object. The assistant turn is prefilled with a ```json fence, so replies
// often start mid-fence or carry a trailing fence.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}
