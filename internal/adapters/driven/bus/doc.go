// Package bus provides driven.CaptureBus implementations.
//
//   - Local: in-process, bounded and non-blocking. Used when the tap and the
//     capture service share a process.
//   - Redis: pub/sub on one channel, so a proxy can feed captures to a
//     consumer elsewhere.
//   - Direct: synchronous hand-off to a function, for one-shot commands.
package bus
