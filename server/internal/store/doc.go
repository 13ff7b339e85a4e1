// Package store holds the runs loaded by the server and memoises their summary.
package store
