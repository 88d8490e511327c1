// Package db provides the embedded storefront database schema.
package db

import _ "embed"

// Schema contains the DDL for all storefront tables, stored procedures,
// and inventory views. It is applied idempotently at startup.
//
//go:embed migrations/001_schema.sql
var Schema string
