// Package pipeline runs one subtitle generation end to end: acquire words
// (from the transcript cache, AssemblyAI, or a saved words JSON), persist the
// words artifact, segment, style, render, and write the output file.
//
// Every run gets a uuid run_id and each stage annotates the context so log
// lines can be correlated across packages. Stage failures carry the services
// error markers, letting the CLI map them to exit codes.
package pipeline
