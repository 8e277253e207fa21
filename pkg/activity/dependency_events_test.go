package activity

import (
	"context"
	"testing"
)

func TestBuildOverrideAppliedEvent(t *testing.T) {
	keys := []string{"Clock", "UUID"}
	event := BuildOverrideAppliedEvent(OverrideEventInput{
		Origin:  Origin{ActorID: " actor ", Channel: "tests"},
		Scope:   "checkout",
		Context: "test",
		Depth:   2,
		Keys:    keys,
	})

	if event.Verb != VerbOverrideApplied || event.ObjectType != ObjectScope || event.ObjectID != "checkout" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.ActorID != "actor" || event.Channel != "tests" {
		t.Fatalf("unexpected origin: %+v", event)
	}
	if event.Metadata["depth"] != 2 || event.Metadata["context"] != "test" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	got, ok := event.Metadata["keys"].([]string)
	if !ok || len(got) != 2 {
		t.Fatalf("expected keys metadata, got %v", event.Metadata["keys"])
	}
	got[0] = "changed"
	if keys[0] != "Clock" {
		t.Fatalf("expected input keys untouched")
	}
}

func TestBuildOverrideAppliedEventFallsBackToObjectType(t *testing.T) {
	event := BuildOverrideAppliedEvent(OverrideEventInput{})
	if event.ObjectID != ObjectScope {
		t.Fatalf("expected fallback object ID %q, got %q", ObjectScope, event.ObjectID)
	}
}

func TestBuildFailureReportedEvent(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	event := BuildFailureReportedEvent(FailureEventInput{
		Key:       "MyValueKey",
		ValueType: "int",
		Kind:      "missing_test_value",
		Context:   "test",
		Metadata:  meta,
	})

	if event.Verb != VerbFailureReported || event.ObjectType != ObjectKey || event.ObjectID != "MyValueKey" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.Metadata["value_type"] != "int" || event.Metadata["kind"] != "missing_test_value" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["custom"] != "value" {
		t.Fatalf("expected metadata passthrough, got %+v", event.Metadata)
	}
	event.Metadata["custom"] = "changed"
	if meta["custom"] != "value" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildRuleMatchedEventWorksWithHooks(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	event := BuildRuleMatchedEvent(RuleEventInput{
		Rule:   "fast-clock",
		Expr:   `context == "preview"`,
		Engine: "expr",
	})
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	verbs := capture.Verbs()
	if len(verbs) != 1 || verbs[0] != VerbRuleMatched {
		t.Fatalf("expected rule matched verb, got %v", verbs)
	}
	if capture.Events[0].Metadata["engine"] != "expr" {
		t.Fatalf("expected engine metadata, got %+v", capture.Events[0].Metadata)
	}
}
