// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security_test

import (
	"encoding/json"
	"testing"

	"github.com/commercekit/platform/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	cases := []struct {
		state security.State
		text  string
	}{
		{state: security.ApprovedState, text: "approved"},
		{state: security.PendingState, text: "pending"},
		{state: security.RejectedState, text: "rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.state.String())

			data, err := json.Marshal(tc.state)
			require.Nil(t, err)
			assert.Equal(t, `"`+tc.text+`"`, string(data))

			var state security.State
			require.Nil(t, json.Unmarshal(data, &state))
			assert.Equal(t, tc.state, state)
		})
	}

	t.Run("unknown literal", func(t *testing.T) {
		var state security.State
		assert.NotNil(t, json.Unmarshal([]byte(`"bogus"`), &state))
	})

	t.Run("empty literal defaults to approved", func(t *testing.T) {
		state, err := security.ToState("")
		require.Nil(t, err)
		assert.Equal(t, security.ApprovedState, state)
	})
}

func TestDetailRoundTrip(t *testing.T) {
	cases := []struct {
		level security.Detail
		text  string
	}{
		{level: security.ReducedDetail, text: "reduced"},
		{level: security.FullDetail, text: "full"},
		{level: security.ExportDetail, text: "export"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.level.String())

			level, err := security.ToDetail(tc.text)
			require.Nil(t, err)
			assert.Equal(t, tc.level, level)
		})
	}

	t.Run("unknown literal", func(t *testing.T) {
		_, err := security.ToDetail("bogus")
		assert.NotNil(t, err)
	})

	t.Run("empty literal defaults to reduced", func(t *testing.T) {
		level, err := security.ToDetail("")
		require.Nil(t, err)
		assert.Equal(t, security.ReducedDetail, level)
	})
}
