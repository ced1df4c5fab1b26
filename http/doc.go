// Package http provides the HTTP dispatcher for the mediavault object
// store.
//
// It maps inbound requests to the store's four mutation operations and
// two query operations:
//
//	POST   /api/objects           create (multipart: name, owner, description, file)
//	PUT    /api/objects/{name}    update (multipart: owner, description and/or file)
//	GET    /api/objects/{name}    retrieve (?owner=)
//	DELETE /api/objects/{name}    delete (?owner=)
//	GET    /api/query/by-date     ?owner=&start=&end=&sort=
//	GET    /api/query/by-owners   ?owner=a&owner=b&start=&end=&sort=
//
// Uploaded payloads are sniffed and must be JPEG images or MP4 videos;
// a declared Content-Type on the file part, when recognized, must agree
// with the sniffed kind.
//
// Errors map onto HTTP status codes: invalid input 400, unknown owner
// 401, missing object 404, duplicate name 409, everything else an
// opaque 500. Retrieve streams the payload with File-Name and
// File-Owner response headers.
package http
