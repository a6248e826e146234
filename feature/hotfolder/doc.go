// Package hotfolder delivers feed files to the ingestion endpoint.
//
// Timing providers drop ODF XML files into a watched directory. The
// watcher posts each file to POST /ingest-odf and files it away by
// outcome:
//
//   - 200: moved to the processed directory.
//   - any other status: moved to the error directory.
//   - connection failure: left in place, retried on the next startup
//     scan.
//
// A name collision in the destination directory appends a timestamp to
// the moved file's name. Files already present at startup are processed
// before watching begins, so nothing is lost across watcher restarts.
package hotfolder
