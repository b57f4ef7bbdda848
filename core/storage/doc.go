// Package storage archives raw SavedVariables captures to S3-compatible
// object storage after successful delivery.
//
// Archival is optional and disabled by default; it exists for users who want
// an off-site history of raw captures beyond what the web service keeps. The
// Client interface wraps the minio operations the archiver needs so tests
// can mock the backend (see mocks/).
package storage
