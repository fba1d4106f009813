package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/thaiba/mediatasks/internal/domain/entities"
)

// RolesService parses the configured admin and team member lists once at
// construction. Role membership lives in configuration, not in the sheet, so
// no store round-trip is ever needed.
type RolesService struct {
	roles entities.RoleSet
}

// NewRolesService parses the raw admin and team configuration values.
func NewRolesService(rawAdmins, rawTeam string) *RolesService {
	return &RolesService{
		roles: entities.RoleSet{
			Admins: parseEmailList(rawAdmins),
			Team:   parseEmailList(rawTeam),
		},
	}
}

// Roles returns the configured role lists.
func (r *RolesService) Roles() entities.RoleSet {
	return r.roles
}

var angledEmail = regexp.MustCompile(`<?([^<>@\s]+@[^<>@\s]+)>?`)

// parseEmailList accepts either a JSON array or a comma-separated string.
// Entries in "Name <email>" form are reduced to the bare email so the
// frontend can compare against sign-in identities directly.
func parseEmailList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var items []string
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		items = parsed
	} else {
		items = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if m := angledEmail.FindStringSubmatch(item); m != nil {
			out = append(out, m[1])
		} else {
			out = append(out, item)
		}
	}
	return out
}
