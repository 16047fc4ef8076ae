// Package fileutil holds the file helpers shared by the pipeline and cache:
// content hashing, atomic replacement, and cross-process locked writes.
package fileutil
