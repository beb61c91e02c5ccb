// Package redisstore provides a Redis-backed session store.
//
// It lets several server processes behind a load balancer see the same
// sessions without sharing memory. Layout, with {prefix} as a hash tag so
// all keys land in one cluster slot:
//
//	{prefix}:session:<id>   JSON-encoded domain.Session
//	{prefix}:idle           sorted set, member id, score LastActivity (ms)
//
// Update uses WATCH/MULTI on the session key and retries on conflict; the
// idle sweep deletes through a Lua script that re-checks the score, so a
// session touched after the sweep read the index is left alone.
package redisstore
