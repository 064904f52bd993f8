// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"fmt"
	"testing"

	"github.com/commercekit/platform/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var (
	errStore   = errors.New("store rejected the write")
	errUpdate  = errors.New("update entity failed")
	errWrapped = errors.Wrap(errUpdate, errStore)
)

func TestError(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		msg  string
	}{
		{
			desc: "plain error",
			err:  errStore,
			msg:  "store rejected the write",
		},
		{
			desc: "wrapped error",
			err:  errWrapped,
			msg:  "update entity failed : store rejected the write",
		},
		{
			desc: "doubly wrapped error",
			err:  errors.Wrap(errors.New("outer"), errWrapped),
			msg:  "outer : update entity failed : store rejected the write",
		},
	}

	for _, tc := range cases {
		errMsg := tc.err.Error()
		assert.Equal(t, tc.msg, errMsg, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, errMsg))
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "nil contains nil",
			container: nil,
			contained: nil,
			contains:  true,
		},
		{
			desc:      "wrapped error contains wrapper",
			container: errWrapped,
			contained: errUpdate,
			contains:  true,
		},
		{
			desc:      "wrapped error contains wrapped",
			container: errWrapped,
			contained: errStore,
			contains:  true,
		},
		{
			desc:      "wrapped error does not contain unrelated",
			container: errWrapped,
			contained: errors.New("unrelated"),
			contains:  false,
		},
		{
			desc:      "nil does not contain error",
			container: nil,
			contained: errStore,
			contains:  false,
		},
	}

	for _, tc := range cases {
		contains := errors.Contains(tc.container, tc.contained)
		assert.Equal(t, tc.contains, contains, fmt.Sprintf("%s: expected %v got %v\n", tc.desc, tc.contains, contains))
	}
}

func TestUnwrap(t *testing.T) {
	wrapper, err := errors.Unwrap(errWrapped)
	assert.True(t, errors.Contains(wrapper, errUpdate), "expected wrapper to match update error")
	assert.True(t, errors.Contains(err, errStore), "expected unwrapped error to match store error")

	wrapper, err = errors.Unwrap(errStore)
	assert.Nil(t, wrapper, "expected nil wrapper for plain error")
	assert.True(t, errors.Contains(err, errStore), "expected plain error to unwrap to itself")
}
