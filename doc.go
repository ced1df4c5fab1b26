// Package mediavault provides a metadata-indexed binary object store
// for media payloads. Every stored object is a paired entry: the raw
// payload bytes plus a metadata sidecar record sharing one key, kept
// consistent under create, update and delete.
//
// # Key Components
//
//   - Service: the paired-record store with per-key locking and
//     ownership-gated mutation
//   - MetaRepo: interface for metadata record persistence (sidecar
//     files, SQLite, PostgreSQL)
//   - BlobStorage: interface for payload persistence (filesystem)
//   - EncodeRecord / DecodeRecord: the one canonical record codec used
//     on every disk touch of metadata
//
// # Ownership
//
// An object's owner is set at creation and never changes. Mutating or
// retrieving an object requires supplying the exact owner string; the
// check is plain equality, not a credential system. Existence is always
// checked before ownership, so a missing object reports "not found"
// even to a caller with the wrong owner.
//
// # Queries
//
// The metadata index is observable only by full scan. FilterByDate and
// FilterByOwners recompute a filtered, stably sorted projection on
// every call; both date bounds are required and strictly exclusive.
//
// # Example Usage
//
//	service, err := mediavault.NewService(repo, blobs, mediavault.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := service.Create(ctx, mediavault.CreateInput{
//	    Name:    "cat",
//	    Owner:   "alice",
//	    Kind:    mediavault.KindImage,
//	    Payload: file,
//	})
//
//	rec, content, err := service.Retrieve(ctx, "cat", "alice")
//
// See the http package for the REST dispatcher and the metadata
// subpackages for index backends.
package mediavault
