package activity

import (
	"strings"
	"time"
)

// Verbs emitted by dependency containers.
const (
	VerbOverrideApplied = "dependencies.override.applied"
	VerbFailureReported = "dependencies.failure.reported"
	VerbRuleMatched     = "dependencies.rule.matched"
)

// Object types carried by dependency events.
const (
	ObjectScope = "dependencies.scope"
	ObjectKey   = "dependencies.key"
	ObjectRule  = "dependencies.rule"
)

// Origin identifies who triggered an event. Every field is optional.
type Origin struct {
	ActorID  string
	TenantID string
	Channel  string
}

// OverrideEventInput describes an override scope that was opened.
type OverrideEventInput struct {
	Origin
	Scope      string
	Context    string
	Depth      int
	Keys       []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// FailureEventInput describes a recoverable resolution failure.
type FailureEventInput struct {
	Origin
	Key        string
	ValueType  string
	Kind       string
	Context    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// RuleEventInput describes a conditional override whose expression matched.
type RuleEventInput struct {
	Origin
	Rule       string
	Expr       string
	Engine     string
	Context    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOverrideAppliedEvent constructs the event emitted when a scope applies
// its overrides.
func BuildOverrideAppliedEvent(input OverrideEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = put(metadata, "context", input.Context)
	metadata = ensureMetadata(metadata)
	metadata["depth"] = input.Depth
	if len(input.Keys) > 0 {
		metadata["keys"] = append([]string{}, input.Keys...)
	}
	return newEvent(VerbOverrideApplied, ObjectScope, input.Scope, input.Origin, metadata, input.OccurredAt)
}

// BuildFailureReportedEvent constructs the event emitted alongside a
// reported failure.
func BuildFailureReportedEvent(input FailureEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = put(metadata, "value_type", input.ValueType)
	metadata = put(metadata, "kind", input.Kind)
	metadata = put(metadata, "context", input.Context)
	return newEvent(VerbFailureReported, ObjectKey, input.Key, input.Origin, metadata, input.OccurredAt)
}

// BuildRuleMatchedEvent constructs the event emitted when a rule matches.
func BuildRuleMatchedEvent(input RuleEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = put(metadata, "expr", input.Expr)
	metadata = put(metadata, "engine", input.Engine)
	metadata = put(metadata, "context", input.Context)
	return newEvent(VerbRuleMatched, ObjectRule, input.Rule, input.Origin, metadata, input.OccurredAt)
}

func newEvent(verb, objectType, objectID string, origin Origin, metadata map[string]any, occurredAt time.Time) Event {
	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		objectID = objectType
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(origin.ActorID),
		TenantID:   strings.TrimSpace(origin.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(origin.Channel),
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}
}

func put(meta map[string]any, key, value string) map[string]any {
	if value == "" {
		return meta
	}
	meta = ensureMetadata(meta)
	meta[key] = value
	return meta
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
