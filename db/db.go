package db

import (
	"context"
	"fmt"
	"strings"
)

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
	Memory   DBType = "memory"
)

// ParseDBType maps a DB_TYPE value onto a backend.
func ParseDBType(s string) (DBType, error) {
	switch t := DBType(strings.ToLower(strings.TrimSpace(s))); t {
	case Postgres, Mongo, Memory:
		return t, nil
	case "":
		return Mongo, nil
	default:
		return "", fmt.Errorf("unknown DB_TYPE %q", s)
	}
}

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
