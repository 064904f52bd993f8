// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

// Policy decides whether a named account may be mutated. It is pure
// configuration: the protected set is supplied at construction and an absent
// configuration means every account is editable.
type Policy struct {
	nonEditable map[string]struct{}
}

// NewPolicy returns a policy protecting the given usernames from mutation.
func NewPolicy(nonEditableUsers []string) Policy {
	if len(nonEditableUsers) == 0 {
		return Policy{}
	}

	nonEditable := make(map[string]struct{}, len(nonEditableUsers))
	for _, name := range nonEditableUsers {
		nonEditable[name] = struct{}{}
	}

	return Policy{nonEditable: nonEditable}
}

// Editable reports whether the named account may be mutated.
func (p Policy) Editable(username string) bool {
	_, protected := p.nonEditable[username]
	return !protected
}
