package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDBType(t *testing.T) {
	for in, want := range map[string]DBType{
		"":         Mongo,
		"mongo":    Mongo,
		"Postgres": Postgres,
		" memory ": Memory,
	} {
		got, err := ParseDBType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDBType("sqlite")
	assert.Error(t, err)
}

func TestRunMigrationsNeedsURL(t *testing.T) {
	assert.Error(t, RunMigrations("", "file://migrations"))
}
