package components

import "fmt"

// Options is the canonical options mapping every pipeline stage operates on.
// Values are mixed: strings, bools, nested maps, slices. Keys are always
// plain strings; Normalize collapses any other key representation at the
// boundary so downstream stages never check two spellings of the same key.
type Options map[string]any

// Normalize folds the historical calling conventions into one canonical
// options mapping:
//
//	render("widget")                          -> {}
//	render("widget", "big blue")              -> {class: "big blue"}
//	render("widget", "big", Options{...})     -> {class: "big"} + options
//	render("widget", Options{...})            -> options
//	render("widget", opts1, opts2)            -> opts1 + opts2
//
// Later merge sources win on key collision; the order is {class: arg0},
// then arg1, then kwargs. Malformed input never errors, it degrades to an
// empty mapping. Permissiveness here is intentional; the legacy surface
// accepted anything.
//
// The result is always a fresh mapping. The pipeline consumes its working
// options destructively (marker keys are deleted as stages run), so handing
// a caller's map through by reference would corrupt it for the next render.
func Normalize(args []any, kwargs Options) Options {
	canonical := Options{}

	if len(args) > 0 {
		switch first := args[0].(type) {
		case string:
			canonical["class"] = first
		case Options:
			mergeOptions(canonical, first)
		case map[string]any:
			mergeOptions(canonical, first)
		case map[any]any:
			mergeOptions(canonical, stringKeyed(first))
		case nil:
			// Treat like an absent positional argument.
		default:
			canonical["class"] = fmt.Sprint(first)
		}
	}

	if len(args) > 1 {
		if second := asOptions(args[1]); second != nil {
			mergeOptions(canonical, second)
		}
	}

	mergeOptions(canonical, kwargs)
	return canonical
}

// mergeOptions copies src into dst, later writer wins. The merge is shallow
// and copies zero values too: an explicit `ui: false` or empty string from a
// later source must override an earlier one. (mergo's fill-empty semantics
// would drop those; the precedence law is the contract here.)
func mergeOptions(dst, src Options) {
	for k, v := range src {
		dst[k] = v
	}
}

// asOptions coerces the permitted mapping shapes to Options, nil otherwise.
func asOptions(v any) Options {
	switch m := v.(type) {
	case Options:
		return m
	case map[string]any:
		return m
	case map[any]any:
		return stringKeyed(m)
	default:
		return nil
	}
}

// stringKeyed converts a YAML-style map[any]any to the canonical key type.
// Non-string keys are stringified rather than dropped.
func stringKeyed(m map[any]any) Options {
	out := make(Options, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}
	return out
}
