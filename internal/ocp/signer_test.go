package ocp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "Mon, 02 Jan 2006 15:04:05 GMT"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("127.0.0.1:8080", "testkey", "testsecret")
	require.NoError(t, err)
	return s
}

func TestNewSignerValidation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		host   string
		id     string
		secret string
		field  string
	}{
		{"empty host", "", "id", "secret", "host"},
		{"empty id", "h:1", "", "secret", "access_key_id"},
		{"empty secret", "h:1", "id", "", "access_key_secret"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSigner(tc.host, tc.id, tc.secret)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestStringToSignKnownVector(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{
		Method: "GET",
		Path:   "/api/v2/ob/clusters",
		Params: map[string]string{"page": "1", "size": "10"},
		Date:   testDate,
	}

	want := "GET\n\n\n" + testDate + "\n127.0.0.1:8080\n\n/api/v2/ob/clusters?page=1&size=10"
	assert.Equal(t, want, s.StringToSign(r))
	assert.Equal(t, "Lz8nbbLDlb1a2VjkJaKFFbLcSvE=", s.Sign(r))
}

func TestSignPostWithBodyAndHeaders(t *testing.T) {
	s, err := NewSigner("ocp.example.com:8080", "ak", "sekrit")
	require.NoError(t, err)

	r := SignRequest{
		Method: "post",
		Path:   "/api/v2/ob/clusters/1/parameters",
		Headers: map[string]string{
			"Content-Type": "application/json",
			"x-ocp-origin": "mcp-server",
		},
		Body: []byte(`{"a":1}`),
		Date: testDate,
	}

	want := strings.Join([]string{
		"POST",
		"BB6CB5C68DF4652941CAF652A366F2D8",
		"application/json",
		testDate,
		"ocp.example.com:8080",
		"x-ocp-origin:mcp-server",
		"/api/v2/ob/clusters/1/parameters",
	}, "\n")
	assert.Equal(t, want, s.StringToSign(r))
	assert.Equal(t, "XNLGEHgQIKw8KxpaaNmjFBFdN4g=", s.Sign(r))
}

func TestSignIsDeterministic(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{
		Method: "GET",
		Path:   "/api/v2/ob/tenants",
		Params: map[string]string{"size": "5", "page": "2", "name": "sys"},
		Date:   testDate,
	}
	first := s.Sign(r)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, s.Sign(r))
	}
}

func TestMethodIsUppercased(t *testing.T) {
	s := newTestSigner(t)
	lower := SignRequest{Method: "get", Path: "/x", Date: testDate}
	upper := SignRequest{Method: "GET", Path: "/x", Date: testDate}
	assert.Equal(t, s.Sign(upper), s.Sign(lower))
}

func TestEmptyAndNilBodySignIdentically(t *testing.T) {
	s := newTestSigner(t)
	withNil := SignRequest{Method: "POST", Path: "/x", Date: testDate}
	withEmpty := SignRequest{Method: "POST", Path: "/x", Body: []byte{}, Date: testDate}
	assert.Equal(t, s.StringToSign(withNil), s.StringToSign(withEmpty))
	assert.True(t, strings.HasPrefix(s.StringToSign(withNil), "POST\n\n"))
}

func TestContentDigest(t *testing.T) {
	assert.Equal(t, "", contentDigest(nil))
	assert.Equal(t, "", contentDigest([]byte{}))
	assert.Equal(t, "5D41402ABC4B2A76B9719D911017C592", contentDigest([]byte("hello")))
	assert.Len(t, contentDigest([]byte("anything at all")), 32)
}

func TestContentTypeLookupIsCaseInsensitive(t *testing.T) {
	s := newTestSigner(t)
	for _, key := range []string{"Content-Type", "content-type", "CONTENT-TYPE"} {
		r := SignRequest{
			Method:  "PUT",
			Path:    "/x",
			Headers: map[string]string{key: "application/json"},
			Date:    testDate,
		}
		parts := strings.Split(s.StringToSign(r), "\n")
		assert.Equal(t, "application/json", parts[2], "header key %q", key)
	}

	r := SignRequest{Method: "PUT", Path: "/x", Date: testDate}
	parts := strings.Split(s.StringToSign(r), "\n")
	assert.Equal(t, "", parts[2])
}

func TestOCPHeadersFilteredAndSorted(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{
		Method: "GET",
		Path:   "/x",
		Headers: map[string]string{
			"x-ocp-zone":   "z1",
			"X-OCP-Apple":  "a",
			"x-ocp-origin": "mcp-server",
			"Accept":       "application/json",
			"User-Agent":   "test",
		},
		Date: testDate,
	}
	str := s.StringToSign(r)

	// Field 6 spans multiple lines, one per header, sorted by name as
	// received. Non x-ocp headers never appear.
	want := "X-OCP-Apple:a\nx-ocp-origin:mcp-server\nx-ocp-zone:z1"
	assert.Contains(t, str, "\n127.0.0.1:8080\n"+want+"\n/x")
	assert.NotContains(t, str, "Accept")
	assert.NotContains(t, str, "User-Agent")
}

func TestNoOCPHeadersSignsEmptyField(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{
		Method:  "GET",
		Path:    "/x",
		Headers: map[string]string{"Accept": "application/json"},
		Date:    testDate,
	}
	assert.Contains(t, s.StringToSign(r), "\n127.0.0.1:8080\n\n/x")
}

func TestQueryParamsSortedAndEncoded(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{
		Method: "GET",
		Path:   "/api/v2/ob/clusters",
		Params: map[string]string{
			"zeta":   "last",
			"alpha":  "first",
			"filter": "a b/c-d_e.f~g",
		},
		Date: testDate,
	}
	str := s.StringToSign(r)
	assert.True(t, strings.HasSuffix(str,
		"/api/v2/ob/clusters?alpha=first&filter=a%20b%2Fc%2Dd%5Fe%2Ef%7Eg&zeta=last"))
}

func TestPathWithoutParamsHasNoQuestionMark(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{Method: "GET", Path: "/api/v2/ob/clusters", Date: testDate}
	assert.True(t, strings.HasSuffix(s.StringToSign(r), "\n/api/v2/ob/clusters"))
	assert.NotContains(t, s.StringToSign(r), "?")
}

func TestEncodeComponent(t *testing.T) {
	for in, want := range map[string]string{
		"abc123":  "abc123",
		"a b":     "a%20b",
		"a/b":     "a%2Fb",
		"-_.~":    "%2D%5F%2E%7E",
		"中":       "%E4%B8%AD",
		"k=v&x=y": "k%3Dv%26x%3Dy",
	} {
		assert.Equal(t, want, encodeComponent(in), "input %q", in)
	}
}

func TestDateSignedVerbatim(t *testing.T) {
	s := newTestSigner(t)
	// Even a malformed timestamp is signed as given. The caller owns the
	// Date header and the signature must match it byte for byte.
	r := SignRequest{Method: "GET", Path: "/x", Date: "not-a-date"}
	assert.Contains(t, s.StringToSign(r), "\nnot-a-date\n")
}

func TestAuthorizationFormat(t *testing.T) {
	s := newTestSigner(t)
	r := SignRequest{Method: "GET", Path: "/x", Date: testDate}
	auth := s.Authorization(r)
	assert.True(t, strings.HasPrefix(auth, "OCP-ACCESS-KEY-HMACSHA1 testkey:"))
	assert.Equal(t, "OCP-ACCESS-KEY-HMACSHA1 testkey:"+s.Sign(r), auth)
	// Signatures are standard base64 with padding, 28 chars for SHA-1.
	sig := strings.TrimPrefix(auth, "OCP-ACCESS-KEY-HMACSHA1 testkey:")
	assert.Len(t, sig, 28)
	assert.True(t, strings.HasSuffix(sig, "="))
}
