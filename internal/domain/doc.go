// Package domain contains the core domain model for dan-lab.
//
// The domain is transport- and persistence-agnostic: it does not depend on
// HTTP, YAML parsing, or the filesystem. Infra/adapters map into/from these
// types.
package domain
