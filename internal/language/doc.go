// Package language provides unified language code normalization and mapping.
//
// User-supplied language selections (codes, ISO 639-2 variants, or English
// names such as "Persian") are resolved here to the ISO 639-1 codes the caption
// source, speech backends, translator, and subtitle file names expect.
package language
