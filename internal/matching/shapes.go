package matching

const (
	ShapeList    = "list"
	ShapeResults = "results"
	ShapeMatches = "matches"
	ShapeSingle  = "single"
)

type shape struct {
	name  string
	match func(payload any) ([]any, bool)
}

// shapes are tried in order, the first match wins.
var shapes = []shape{
	{name: ShapeList, match: asList},
	{name: ShapeResults, match: listField("results")},
	{name: ShapeMatches, match: listField("matches")},
	{name: ShapeSingle, match: singleMatch},
}

// Detect finds the shape of payload and returns the raw match list it holds.
func Detect(payload any) (string, []any, error) {
	for _, s := range shapes {
		if items, ok := s.match(payload); ok {
			return s.name, items, nil
		}
	}

	return "", nil, ErrBadShape
}

func asList(payload any) ([]any, bool) {
	items, ok := payload.([]any)
	if ok && items == nil {
		items = []any{}
	}
	return items, ok
}

func listField(key string) func(any) ([]any, bool) {
	return func(payload any) ([]any, bool) {
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, false
		}
		return asList(obj[key])
	}
}

// singleMatch accepts an object that carries a non-empty title of any type
// and at least one score key. A zero score still counts.
func singleMatch(payload any) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}

	if !present(obj["job_title"]) {
		return nil, false
	}

	_, hasSemantic := obj["semantic_score"]
	_, hasScore := obj["score"]
	if !hasSemantic && !hasScore {
		return nil, false
	}

	return []any{obj}, true
}

// present reports whether v carries a value: not null, an empty string,
// zero or false.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
