package validate

import (
	"encoding/json"

	"github.com/alexanderramin/plateplan/internal/domain"
)

// Document renders typed content as the untyped shape collaborators exchange,
// with numbers decoded as float64 the way encoding/json produces them.
func Document(name string, c domain.Content) map[string]any {
	raw, err := json.Marshal(struct {
		Name string `json:"name"`
		domain.Content
	}{Name: name, Content: c})
	if err != nil {
		return map[string]any{"name": name}
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return map[string]any{"name": name}
	}
	return doc
}
