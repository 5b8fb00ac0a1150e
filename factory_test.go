// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"crypto/tls"
	"runtime"
	"testing"
	"time"

	"github.com/foxtrot75/httpsync/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		f := NewFactory(nil)
		defer f.Close()

		assert.Equal(t, runtime.NumCPU(), f.Workers())
		assert.Equal(t, DefaultTimeout, f.cfg.Timeout)
		cfg := f.tls.Load()
		require.NotNil(t, cfg)
		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
		assert.False(t, cfg.InsecureSkipVerify)
	})
	t.Run("explicit config", func(t *testing.T) {
		f := NewFactory(&Config{Workers: 3, Verify: VerifyNone, Timeout: time.Second})
		defer f.Close()

		assert.Equal(t, 3, f.Workers())
		assert.True(t, f.tls.Load().InsecureSkipVerify)
		c := f.Client("svc", 8080)
		assert.Equal(t, time.Second, c.policy.Timeout(&request.Exchange{}))
	})
}

func TestFactory_Endpoints(t *testing.T) {
	f := NewFactory(nil)
	defer f.Close()

	c := f.Client(DefaultClientHost, DefaultClientPort)
	assert.Equal(t, "127.0.0.1", c.Host())
	assert.Equal(t, uint16(80), c.Port())

	tc := f.TLSClient(DefaultClientHost, DefaultTLSClientPort)
	assert.Equal(t, "127.0.0.1", tc.Host())
	assert.Equal(t, uint16(443), tc.Port())
	assert.Equal(t, tlsClientPayloadLimit, tc.payloadLimit)

	s := f.Server(DefaultServerHost, DefaultServerPort)
	assert.Equal(t, "0.0.0.0", s.host)
	assert.Equal(t, uint16(7500), s.port)
	assert.Nil(t, s.Addr())
}

func TestFactory_AddCertificate(t *testing.T) {
	f := NewFactory(nil)
	defer f.Close()

	before := f.tls.Load()
	t.Run("empty", func(t *testing.T) {
		assert.True(t, f.AddCertificate(nil))
		assert.True(t, f.AddCertificate([]byte{}))
		assert.Same(t, before, f.tls.Load())
	})
	t.Run("garbage", func(t *testing.T) {
		assert.False(t, f.AddCertificate([]byte("not a certificate")))
		assert.Same(t, before, f.tls.Load())
	})
	t.Run("valid", func(t *testing.T) {
		assert.True(t, f.AddCertificate(httpsCertPEM()))
		after := f.tls.Load()
		assert.NotSame(t, before, after)
		assert.NotSame(t, before.RootCAs, after.RootCAs)
		assert.Equal(t, uint16(tls.VersionTLS12), after.MinVersion)
	})
}

func TestFactory_Close(t *testing.T) {
	f := NewFactory(&Config{Workers: 1})
	s := f.Server("127.0.0.1", 0)
	require.True(t, s.Run(), "%v", s.Err())
	require.NotNil(t, s.Addr())

	f.Close()
	f.Close()

	assert.Nil(t, s.Addr())
	assert.ErrorIs(t, s.Close(), ErrServerNotRunning)

	late := f.Server("127.0.0.1", 0)
	assert.False(t, late.Run())
	assert.ErrorIs(t, late.Err(), ErrClosed)
}
