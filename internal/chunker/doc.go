// Package chunker splits source text into bounded, overlapping,
// boundary-aligned fragments for embedding and search.
//
// # Algorithm
//
// Token counts are estimated with a fixed ratio (chars * 0.25). The splitter
// detects candidate boundaries with declaration markers for several language
// families (Go, JS/TS, Python, Rust, C-style), extends each to the matching
// close brace while tracking string-literal and comment state, or to the
// point where indentation returns to the declaration's base level for
// indentation-delimited languages. Overlapping spans are merged into an
// ascending cover of the whole file; files with no markers are cut into
// evenly sized line ranges so every non-empty file yields at least one chunk.
//
// The merged boundaries are then accumulated into fragments up to the token
// budget. When a fragment closes, the next one is pre-seeded with a trailing
// overlap window so consecutive fragments share context:
//
//	c := chunker.New()
//	for _, f := range c.Chunk(fileText, 2000) {
//	    fmt.Printf("%s: %d tokens (%d overlap chars)\n",
//	        f.Kind, f.TokenCount, f.OverlapChars)
//	}
//
// # Guarantees
//
//   - Deterministic for identical input and budget.
//   - Concatenating fragment contents minus the seeded overlap reconstructs
//     the input losslessly.
//   - The budget is a soft target: a single boundary larger than the budget
//     is emitted whole, never truncated mid-declaration.
//   - Empty input yields zero fragments.
//
// Boundary detection is intentionally heuristic. Over-inclusion (a span that
// swallows trailing code) is safe; a real per-language parser could be
// swapped in behind the same contract if tighter spans were ever needed.
package chunker
