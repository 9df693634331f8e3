// Package adstore maintains a library of ad creatives and the
// performance they achieved, so later copy generation can draw on what
// has already worked.
//
// Similarity search is deliberately simple: ads are matched by word
// overlap between the query and the creative text, with no embeddings
// and no external services. Pattern analysis looks at the library's top
// performers (ranked by ROAS multiplied by CTR) and reports recurring
// headline words, calls to action, and per-platform averages.
//
// Two backends implement the Library interface: MemoryLibrary for tests
// and dry runs, and SQLiteLibrary for persistence across restarts.
package adstore
