// Package simpleblog provides a reusable library for blog post lifecycle,
// presentation layout and image asset management with pluggable repository
// and blob storage backends.
//
// It exposes a single Service interface that orchestrates post creation and
// publication (draft, scheduled, published), deterministic grid layout
// assignment, gallery image upload/conversion/ordering, tags and comments.
// Scheduled posts are promoted to published lazily on every read and by a
// periodic sweep; both paths share one predicate and are idempotent against
// each other. Implementations of repositories (memory, Postgres) and blob
// stores (memory, filesystem, S3) are provided under subpackages.
package simpleblog
