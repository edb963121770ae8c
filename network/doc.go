// Package network serves a running table to spectators over HTTP and
// WebSocket.
//
// # Core Components
//
// Hub: an observer of hands that keeps the latest public snapshot and fans
// every event out to the connected WebSocket clients.
//
// Server: a chi router exposing the hub and, optionally, the table's ledger.
//
// # Endpoints
//
//	GET /api/health     liveness probe
//	GET /api/snapshot   latest public snapshot
//	GET /api/history    signed ledger blocks, or the entries of ?hand=ID
//	GET /ws             live event stream
//
// Only public information leaves the process: events carry the snapshot
// taken for no seat, so hands stay hidden until the showdown or The Sun
// shows them.
package network
