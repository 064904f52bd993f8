// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package provider_test

import (
	"strings"
	"testing"

	"github.com/commercekit/platform/pkg/uuid"
	"github.com/commercekit/platform/security"
	"github.com/commercekit/platform/security/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	p := provider.New(uuid.NewMock())

	t.Run("hmac account", func(t *testing.T) {
		account, err := p.Generate(security.HmacAPIAccount)
		require.Nil(t, err)
		assert.Equal(t, security.HmacAPIAccount, account.Type)
		assert.NotEmpty(t, account.AppID)
		assert.False(t, strings.Contains(account.AppID, "-"), "app id must be a bare uuid without dashes")
		assert.Len(t, account.SecretKey, 128, "secret key is hex of 64 random bytes")
	})

	t.Run("simple account", func(t *testing.T) {
		account, err := p.Generate(security.SimpleAPIAccount)
		require.Nil(t, err)
		assert.Equal(t, security.SimpleAPIAccount, account.Type)
		assert.NotEmpty(t, account.AppID)
		assert.Empty(t, account.SecretKey, "simple accounts carry no shared secret")
	})

	t.Run("unique app ids", func(t *testing.T) {
		first, err := p.Generate(security.HmacAPIAccount)
		require.Nil(t, err)
		second, err := p.Generate(security.HmacAPIAccount)
		require.Nil(t, err)
		assert.NotEqual(t, first.AppID, second.AppID)
		assert.NotEqual(t, first.SecretKey, second.SecretKey)
	})
}
