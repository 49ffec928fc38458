package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RecognitionKeySuite struct {
	suite.Suite
}

func TestRecognitionKeySuite(t *testing.T) {
	suite.Run(t, new(RecognitionKeySuite))
}

func (s *RecognitionKeySuite) TestKeyIsPeerAddressWithoutPort() {
	key := KeyExtractor(false)

	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "10.0.0.1:40001"
	s.Equal("10.0.0.1", key(r))

	// Same device, new ephemeral port: same key
	r.RemoteAddr = "10.0.0.1:40002"
	s.Equal("10.0.0.1", key(r))
}

func (s *RecognitionKeySuite) TestForgedHeaderCannotAssumeAnotherDevicesKey() {
	key := KeyExtractor(false)

	genuine := httptest.NewRequest("GET", "/ws", nil)
	genuine.RemoteAddr = "10.0.0.1:40001"

	forged := httptest.NewRequest("GET", "/ws", nil)
	forged.RemoteAddr = "10.0.0.9:40002"
	forged.Header.Set("X-Real-IP", "10.0.0.1")
	forged.Header.Set("X-Forwarded-For", "10.0.0.1")

	s.Equal("10.0.0.9", key(forged))
	s.NotEqual(key(genuine), key(forged))
}

func (s *RecognitionKeySuite) TestTrustedProxyHeadersAreHonored() {
	key := KeyExtractor(true)

	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "127.0.0.1:40001" // the proxy
	r.Header.Set("X-Real-IP", "10.0.0.7")
	s.Equal("10.0.0.7", key(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "127.0.0.1:40001"
	r.Header.Set("X-Forwarded-For", "10.0.0.7, 192.168.1.1")
	s.Equal("10.0.0.7", key(r))
}

func (s *RecognitionKeySuite) TestTrustedProxyIgnoresMalformedHeaders() {
	key := KeyExtractor(true)

	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "127.0.0.1:40001"
	r.Header.Set("X-Real-IP", "not-an-ip")
	r.Header.Set("X-Forwarded-For", "also not an ip")
	s.Equal("127.0.0.1", key(r))
}
