// Package ws implements the WebSocket hub for zusistats-server.
//
// Hub keeps the set of connected clients and pushes the current run summary
// on connect, whenever Notify is called (the server calls it after every
// store change), and as a periodic refresh on ticks not preceded by a
// Notify push.
//
// The message sent to clients is
//
//	{
//	  "event": "summary",
//	  "data":  { /* same schema as GET /api/v1/summary */ }
//	}
//
// The server mounts the hub at /ws/stream. All origins are accepted.
package ws
