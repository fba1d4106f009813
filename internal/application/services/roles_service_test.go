package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolesFromJSONArrays(t *testing.T) {
	svc := NewRolesService(
		`["admin@example.com", "boss@example.com"]`,
		`["alice@example.com"]`,
	)

	roles := svc.Roles()
	assert.Equal(t, []string{"admin@example.com", "boss@example.com"}, roles.Admins)
	assert.Equal(t, []string{"alice@example.com"}, roles.Team)
}

func TestRolesFromCommaLists(t *testing.T) {
	svc := NewRolesService(
		"admin@example.com, boss@example.com",
		" alice@example.com ,, bob@example.com ",
	)

	roles := svc.Roles()
	assert.Equal(t, []string{"admin@example.com", "boss@example.com"}, roles.Admins)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, roles.Team)
}

func TestRolesExtractAngledEmails(t *testing.T) {
	svc := NewRolesService(
		`Jane Admin <admin@example.com>`,
		`["Alice A <alice@example.com>", "bob@example.com"]`,
	)

	roles := svc.Roles()
	assert.Equal(t, []string{"admin@example.com"}, roles.Admins)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, roles.Team)
}

func TestRolesEmptyConfig(t *testing.T) {
	svc := NewRolesService("", "")

	roles := svc.Roles()
	assert.NotNil(t, roles.Admins)
	assert.Empty(t, roles.Admins)
	assert.NotNil(t, roles.Team)
	assert.Empty(t, roles.Team)
}
