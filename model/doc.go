// Package model provides the in-memory CIF document tree: a document owning
// named blocks, blocks owning save frames and loops, loops owning packets of
// named values.
//
// # Identity
//
// Block codes, frame codes, and item names are compared in normalized form
// (canonical decomposition, default case fold, canonical recomposition); two
// spellings that normalize identically are the same name. Original spellings
// are preserved for round-trip fidelity, and iteration follows insertion
// order everywhere except packet iteration, whose order is unspecified.
//
// # Handles
//
// [Container] and [Loop] are lightweight handles over shared structure; any
// number of handles may alias one node. Destroying a structure invalidates
// every handle to it and to everything nested inside it, detected on a
// best-effort basis as [ErrInvalidHandle]. Discarding a handle never affects
// the structure.
//
// # Scalar loop
//
// Each container may hold one loop with the reserved empty category: the
// scalar loop, carrying the container's non-tabular items as a single
// packet. [Container.SetValue] creates it on demand.
//
// The model performs no locking; concurrent access to one document requires
// external synchronization. An open [Iterator] expects exclusive use of its
// loop: structural mutation of the loop through another handle leaves the
// iterator's subsequent results unspecified, though the structure itself
// stays valid.
package model
