// Package project reads and writes manuscript projects.
//
// A project is an index file, index.manuscript-json, holding the document
// models under a "data" key, next to a Data directory of attachment files.
// It is stored in one of three forms:
//
//   - a .manuproj zip archive, extracted to a temporary directory on Open;
//   - a directory;
//   - a bare index file, whose Data directory is looked up beside it.
//
// Other top-level keys of the index are preserved when a project is saved.
package project
