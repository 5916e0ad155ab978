// Package harness runs query scenarios end to end.
//
// A scenario is a YAML file naming a document, a selector, run options
// and the expected outcome. The harness writes the document into a fresh
// directory, runs the real query pipeline against it with a fixed run ID
// and checks the outcome.
//
// # Scenario Format
//
//	name: heading_renders
//	description: "A lone heading is rendered to SVG"
//	run_id: run-heading
//	document: |
//	  body: [{kind: "heading", body: "Only heading"}]
//	files:
//	  notes.txt: "extra file contents"
//	selector: heading
//	options:
//	  output: out.svg
//	  match: first
//	  on_empty: fail
//	expect:
//	  status: done
//	  matches: 1
//	  element: heading
//	  file_written: true
//	  contains:
//	    - "Only heading"
//
// # Expectations
//
//   - status: done, skipped or aborted
//   - state: the last state the run reached
//   - error_kind: the query error kind of an aborted run
//   - matches: how many elements the selector matched
//   - element: the kind of the rendered element
//   - file_written: whether the output file exists after the run
//   - contains: substrings of the output file, or of the error message
//     when nothing was written
//
// # Golden Files
//
// RunWithGolden stores a canonical JSON snapshot of each outcome under
// testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
