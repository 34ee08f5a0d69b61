// Copyright (c) DelegateFlow Authors.
// Licensed under the MIT License.

/*
Package cache caches delegation decisions in redis.

Planning is fully deterministic for a fixed agent catalog, so a
decision can be replayed from cache as long as the catalog has not
changed. The cache key is a SHA-256 fingerprint of the task combined
with the catalog snapshot version; any registration, deregistration or
availability update bumps the version and implicitly invalidates every
cached decision. Entries additionally carry a TTL as a backstop.
*/
package cache
