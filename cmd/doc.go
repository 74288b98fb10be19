// Package cmd implements the command-line interface of redisds. It exposes the
// dataspace operations of lib/dataspace as subcommands, mainly for inspecting and
// seeding data and for measuring a server under concurrent load.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for dataspace operations (read, set, append, incr, ttl, check, store, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set through environment variables with the REDISDS_ prefix
// (e.g. REDISDS_AUTH, REDISDS_LOG_LEVEL), which are loaded from .env and .env.local too.
//
// See redisds -help for a list of all commands.
package cmd
