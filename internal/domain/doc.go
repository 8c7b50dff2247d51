// Package domain contains the core domain model for xferbot.
//
// The domain is transport- and persistence-agnostic: it does not depend on CSV parsing,
// YAML, or the filesystem. Infra/adapters map into/from these types.
package domain
