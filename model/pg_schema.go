package model

// PgSchema wraps the string for defining the Postgres schema name.
type PgSchema string
