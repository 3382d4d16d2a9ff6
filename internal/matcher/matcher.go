package matcher

import "strings"

// Entity is an account or category known by id and display name
type Entity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Match returns the id of the first entity, in list order, whose name occurs in text.
// Matching is a literal substring search, so a short name can hit inside a longer word.
func Match(text string, entities []Entity) (int64, bool) {
	for _, e := range entities {
		if e.Name == "" {
			continue
		}
		if strings.Contains(text, e.Name) {
			return e.ID, true
		}
	}
	return 0, false
}

// MatchID is Match returning a nil pointer when nothing matched
func MatchID(text string, entities []Entity) *int64 {
	id, ok := Match(text, entities)
	if !ok {
		return nil
	}
	return &id
}

// Names returns entity names in list order
func Names(entities []Entity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}
	return names
}

// NameOf looks up the display name for id, falling back when id is nil or unknown
func NameOf(id *int64, entities []Entity, fallback string) string {
	if id == nil {
		return fallback
	}
	for _, e := range entities {
		if e.ID == *id {
			return e.Name
		}
	}
	return fallback
}
