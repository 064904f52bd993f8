// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security_test

import (
	"testing"

	"github.com/commercekit/platform/security"
	"github.com/stretchr/testify/assert"
)

func TestPolicyEditable(t *testing.T) {
	policy := security.NewPolicy([]string{"root", "service-account"})

	cases := []struct {
		desc     string
		username string
		editable bool
	}{
		{desc: "protected user", username: "root", editable: false},
		{desc: "another protected user", username: "service-account", editable: false},
		{desc: "regular user", username: "alice", editable: true},
		{desc: "case sensitive", username: "Root", editable: true},
		{desc: "empty name", username: "", editable: true},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.editable, policy.Editable(tc.username))
		})
	}

	t.Run("empty policy allows everyone", func(t *testing.T) {
		policy := security.NewPolicy(nil)
		assert.True(t, policy.Editable("root"))
	})
}
