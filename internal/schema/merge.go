package schema

// Merge deep-merges updates onto base and returns a new document; neither
// input is modified.
//
//   - object on both sides: merged key by key
//   - array on either side: the updates array replaces base wholesale
//   - anything else: the updates value wins when the key is present
//
// Array replacement makes the operation non-associative, so callers must send
// the full array for any array-valued section they touch.
func Merge(base, updates map[string]any) map[string]any {
	out := deepCopyMap(base)
	if out == nil {
		out = map[string]any{}
	}
	for k, uv := range updates {
		bm, baseIsMap := out[k].(map[string]any)
		um, updIsMap := uv.(map[string]any)
		if baseIsMap && updIsMap {
			out[k] = Merge(bm, um)
			continue
		}
		out[k] = deepCopy(uv)
	}
	return out
}

// MergeDocuments merges updates onto base and re-establishes every document
// invariant on the result: legacy fields are migrated, the slug is
// recomputed and section presence is reconciled with the merged flags.
// clientID is the slug of last resort.
func MergeDocuments(base, updates map[string]any, clientID string) *Document {
	merged, _ := Upgrade(Merge(base, updates))
	return NormalizeStored(merged, Facts{ClientID: clientID})
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}
