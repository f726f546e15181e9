// internal/auth/claims.go
package auth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// claimRule names one place roles may live in a claims map and how to
// normalize what is found there. Rules are evaluated in order and their
// results merged.
type claimRule struct {
	key       string
	normalize func(value any) []string
}

// Roles extracts the deduplicated, sorted set of role strings from a claims
// map. namespaceKey is the provider-specific custom claim checked first
// (for example "https://loandesk.app/roles"); the raw roles, permissions,
// and scope claims are probed after it.
func Roles(claims jwt.MapClaims, namespaceKey string) []string {
	rules := []claimRule{
		{key: namespaceKey, normalize: normalizeList},
		{key: "roles", normalize: normalizeList},
		{key: "permissions", normalize: normalizeList},
		{key: "scope", normalize: normalizeScope},
	}

	set := make(map[string]struct{})
	for _, rule := range rules {
		if rule.key == "" {
			continue
		}
		value, ok := claims[rule.key]
		if !ok {
			continue
		}
		for _, role := range rule.normalize(value) {
			if role != "" {
				set[role] = struct{}{}
			}
		}
	}

	roles := make([]string, 0, len(set))
	for role := range set {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// RolesFromToken extracts roles from a raw JWT without verifying its
// signature. The token was already verified by the identity provider that
// issued it; this module only reads the claims.
func RolesFromToken(raw, namespaceKey string) ([]string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return Roles(claims, namespaceKey), nil
}

func normalizeList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{strings.TrimSpace(v)}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

func normalizeScope(value any) []string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return strings.Fields(s)
}
