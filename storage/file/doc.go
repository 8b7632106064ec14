// Package file implements storage.IndexStore on three files in one directory:
//
//	resume_index.bin      vectors: header then little-endian float32 rows
//	resume_metadata.bin   records in position order, mus encoded
//	resume_metadata.json  read-only mirror of the records for inspection
//
// Every Save rewrites the files through temporary files renamed into place.
// A crash between renames leaves files whose counts disagree, which Load
// reports as core.ErrIndexCorrupted.
package file
