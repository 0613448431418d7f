// Package importtime parses the per-module timing trace written by the Python
// interpreter when started with -X importtime or PYTHONPROFILEIMPORTTIME=1.
//
// # Input Format
//
// Each completed import produces one line on the interpreter's diagnostic
// stream:
//
//	import time: self [us] | cumulative | imported package
//	import time:       357 |        357 |   _io
//	import time:       120 |        170 |     encodings.aliases
//
// The first two fields are microseconds. The module name is indented by two
// spaces per nesting level. Lines without the "import time:" label (program
// output, warnings) are ignored, as is the column header.
//
// # Depth
//
// The shallowest indentation found in the trace is depth 0. Every other
// record must sit an even number of spaces deeper, so traces that were
// re-indented as a whole still parse.
//
// # Errors
//
// Parsing stops at the first bad line and returns an error from
// [github.com/matzehuels/pyimporttime/pkg/errors] carrying the line number:
//
//   - MALFORMED_LINE for unparseable fields, bad indentation or an empty name
//   - INCONSISTENT_RECORD when cumulative time is below self time
//   - NO_RECORDS when the input holds no records at all
package importtime
