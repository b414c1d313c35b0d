package content

import (
	"encoding/json"
	"testing"
)

func TestEveryKindHasARenderableFallback(t *testing.T) {
	for _, kind := range Kinds() {
		lc := Fallback(kind, "fractions")
		if !lc.Type.Valid() {
			t.Fatalf("%s: fallback produced invalid kind %q", kind, lc.Type)
		}
		var data map[string]any
		if err := json.Unmarshal(lc.Data, &data); err != nil {
			t.Fatalf("%s: fallback data does not parse: %v", kind, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s: fallback data is empty", kind)
		}
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	a := Fallback(KindMultipleChoice, "fractions")
	b := Fallback(KindMultipleChoice, "fractions")
	if string(a.Data) != string(b.Data) {
		t.Fatal("fallback content must be deterministic")
	}
}

func TestFallbackUnknownKindDegradesToPlaceholder(t *testing.T) {
	lc := Fallback(Kind("unheard-of"), "fractions")
	if lc.Type != KindPlaceholder {
		t.Fatalf("expected placeholder, got %q", lc.Type)
	}
}

func TestKindValid(t *testing.T) {
	if !KindMultipleChoice.Valid() {
		t.Fatal("multiple-choice should be valid")
	}
	if Kind("quiz").Valid() {
		t.Fatal("unknown kind should be invalid")
	}
}
