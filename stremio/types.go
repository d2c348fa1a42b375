package stremio

import "encoding/json"

// Manifest describes an addon: which resources it serves and which
// catalogs it offers.
type Manifest struct {
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Resources   []Resource   `json:"resources"`
	Types       []string     `json:"types"`
	Catalogs    []CatalogRef `json:"catalogs"`
	IDPrefixes  []string     `json:"idPrefixes"`
	Logo        string       `json:"logo"`
}

// Resource is declared either as a bare string ("stream") or as an object
// with type and id-prefix constraints; both forms appear in the wild.
type Resource struct {
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	IDPrefixes []string `json:"idPrefixes"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		return nil
	}

	type resourceObject Resource
	var obj resourceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = Resource(obj)
	return nil
}

// CatalogRef names one catalog an addon serves.
type CatalogRef struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Name  string      `json:"name"`
	Extra []ExtraProp `json:"extra"`
}

// ExtraProp declares an optional catalog query parameter such as "search",
// "genre" or "skip".
type ExtraProp struct {
	Name       string   `json:"name"`
	IsRequired bool     `json:"isRequired"`
	Options    []string `json:"options"`
}

// SupportsExtra reports whether the catalog declares the named extra.
func (c CatalogRef) SupportsExtra(name string) bool {
	for _, e := range c.Extra {
		if e.Name == name {
			return true
		}
	}
	return false
}

// CatalogResponse is the /catalog/{type}/{id}.json payload.
type CatalogResponse struct {
	Metas []MetaItem `json:"metas"`
}

// MetaResponse is the /meta/{type}/{id}.json payload.
type MetaResponse struct {
	Meta MetaItem `json:"meta"`
}

// StreamResponse is the /stream/{type}/{id}.json payload.
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// Stream is one playable source offered by an addon.
type Stream struct {
	Name          string                     `json:"name"`
	Title         string                     `json:"title"`
	URL           string                     `json:"url"`
	ExternalURL   string                     `json:"externalUrl"`
	BehaviorHints map[string]json.RawMessage `json:"behaviorHints"`
}

// MetaItem is the addon-side media descriptor.
type MetaItem struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Poster      string   `json:"poster"`
	Background  string   `json:"background"`
	Logo        string   `json:"logo"`
	Genres      []string `json:"genres"`
	Runtime     string   `json:"runtime"`
	ReleaseInfo string   `json:"releaseInfo"`
	Released    string   `json:"released"`
}
