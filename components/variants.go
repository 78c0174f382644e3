package components

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// applyVariant layers a requested variant onto the render state. An unknown
// variant name is a soft failure: log a warning and render with the base
// configuration. The variant's renderMethod/stimulusController take
// precedence over the definition's for this invocation only; the definition
// itself is never touched.
func applyVariant(st *renderState, log logrus.FieldLogger) {
	name := stringOpt(st.opts, "variant")
	delete(st.opts, "variant")
	if name == "" {
		return
	}

	variant, ok := st.def.Variants[name]
	if !ok {
		log.WithFields(logrus.Fields{
			"component": st.name,
			"variant":   name,
		}).Warn("unknown variant, rendering base configuration")
		return
	}

	st.variantName = name
	st.variant = &variant

	st.addClass(variant.CSSModifier)

	// CSS variables emit in sorted key order so output is deterministic.
	keys := make([]string, 0, len(variant.CSSVariables))
	for k := range variant.CSSVariables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		st.addStyle(fmt.Sprintf("--%s: %s", k, variant.CSSVariables[k]))
	}

	st.data["variant"] = name
}
