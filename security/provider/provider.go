// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package provider generates API credential pairs for platform API accounts.
package provider

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	platform "github.com/commercekit/platform"
	"github.com/commercekit/platform/pkg/errors"
	"github.com/commercekit/platform/security"
)

const secretLen = 64

var (
	errGenerateAppID  = errors.New("failed to generate application id")
	errGenerateSecret = errors.New("failed to generate secret key")
)

var _ security.APIAccountProvider = (*apiAccountProvider)(nil)

type apiAccountProvider struct {
	idProvider platform.IDProvider
}

// New instantiates an API account provider. App IDs come from the identity
// provider; HMAC secrets from the platform random source.
func New(idp platform.IDProvider) security.APIAccountProvider {
	return &apiAccountProvider{idProvider: idp}
}

func (p *apiAccountProvider) Generate(typ security.APIAccountType) (security.APIAccount, error) {
	id, err := p.idProvider.ID()
	if err != nil {
		return security.APIAccount{}, errors.Wrap(errGenerateAppID, err)
	}

	account := security.APIAccount{
		Type:  typ,
		AppID: strings.ReplaceAll(id, "-", ""),
	}

	if typ == security.HmacAPIAccount {
		secret := make([]byte, secretLen)
		if _, err := rand.Read(secret); err != nil {
			return security.APIAccount{}, errors.Wrap(errGenerateSecret, err)
		}
		account.SecretKey = hex.EncodeToString(secret)
	}

	return account, nil
}
