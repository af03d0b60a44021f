// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package extimage implements the external image protocol: a registry of
// image ids shared by every producer, and a dispatcher that routes the
// renderer's lock/unlock calls to the producer that owns each image.
//
// # Protocol
//
// A producer subsystem allocates an id from the shared [Registry], tagged
// with its [Kind]. The renderer later calls [Dispatcher.Lock] with that id,
// samples the returned native texture using the UV rectangle, and calls
// [Dispatcher.Unlock]. Between Lock and Unlock the producer must not mutate
// the texture; after Unlock the renderer must not read it.
//
// Calls for a given id alternate Lock, Unlock, Lock, Unlock. Overlapping or
// unpaired calls are a caller bug; the bundled providers panic on them.
//
// # Fatal errors
//
// Locking or unlocking an id that the registry does not know is a protocol
// violation, not a runtime condition: the dispatcher panics with an
// [*UnknownImageError]. Continuing would leave the renderer sampling a
// texture routed to the wrong producer.
//
// # Thread Safety
//
// [Registry] and [Dispatcher] are safe for concurrent use. Providers are
// called without any dispatcher lock held, so a provider that blocks in
// Lock only stalls the calling renderer goroutine.
package extimage
