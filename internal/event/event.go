// Package event defines the document envelope that flows through the
// generation pipeline. Generated alerts are schemaless maps at the edges;
// the fields the engine itself reads and writes are pulled into a typed
// envelope, everything else rides along in the extension bag.
package event

import (
	"encoding/json"
	"time"
)

// Well-known document field names.
const (
	FieldTimestamp = "@timestamp"
	FieldAlertUUID = "kibana.alert.uuid"
	FieldHostName  = "host.name"
	FieldUserName  = "user.name"
	FieldTechnique = "threat.technique.id"
	FieldSeverity  = "kibana.alert.severity"
)

// Event is a single generated alert or log document.
type Event struct {
	ID        string
	Timestamp time.Time
	Host      string
	User      string
	Technique string
	Severity  string

	// Extra holds every field the content generator produced beyond the
	// envelope, plus enrichment blocks (campaign.*, attack_chain.*,
	// correlation.*) added by the simulation engine. Keys are flat
	// dotted field paths.
	Extra map[string]any
}

// New returns an Event with an allocated extension bag.
func New(id string, ts time.Time) *Event {
	return &Event{
		ID:        id,
		Timestamp: ts,
		Extra:     make(map[string]any),
	}
}

// Set stores an extension field, allocating the bag if needed.
func (e *Event) Set(field string, value any) {
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[field] = value
}

// Get reads an extension field.
func (e *Event) Get(field string) (any, bool) {
	v, ok := e.Extra[field]
	return v, ok
}

// GetString reads an extension field as a string, returning "" for
// missing or non-string values.
func (e *Event) GetString(field string) string {
	if v, ok := e.Extra[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Document flattens the envelope and the extension bag into a single
// indexable map. Envelope fields win over extension fields of the same name.
func (e *Event) Document() map[string]any {
	doc := make(map[string]any, len(e.Extra)+6)
	for k, v := range e.Extra {
		doc[k] = v
	}
	doc[FieldTimestamp] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	doc[FieldAlertUUID] = e.ID
	if e.Host != "" {
		doc[FieldHostName] = e.Host
	}
	if e.User != "" {
		doc[FieldUserName] = e.User
	}
	if e.Technique != "" {
		doc[FieldTechnique] = e.Technique
	}
	if e.Severity != "" {
		doc[FieldSeverity] = e.Severity
	}
	return doc
}

// FromDocument rebuilds an Event from a flat document map, extracting the
// envelope fields and leaving the rest in the extension bag.
func FromDocument(doc map[string]any) *Event {
	e := &Event{Extra: make(map[string]any, len(doc))}
	for k, v := range doc {
		switch k {
		case FieldTimestamp:
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					e.Timestamp = ts
					continue
				}
			}
			e.Extra[k] = v
		case FieldAlertUUID:
			if s, ok := v.(string); ok {
				e.ID = s
				continue
			}
			e.Extra[k] = v
		case FieldHostName:
			if s, ok := v.(string); ok {
				e.Host = s
				continue
			}
			e.Extra[k] = v
		case FieldUserName:
			if s, ok := v.(string); ok {
				e.User = s
				continue
			}
			e.Extra[k] = v
		case FieldTechnique:
			if s, ok := v.(string); ok {
				e.Technique = s
				continue
			}
			e.Extra[k] = v
		case FieldSeverity:
			if s, ok := v.(string); ok {
				e.Severity = s
				continue
			}
			e.Extra[k] = v
		default:
			e.Extra[k] = v
		}
	}
	return e
}

// MarshalJSON serializes the flattened document form.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Document())
}
