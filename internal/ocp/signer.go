package ocp

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// authScheme is the scheme name in the Authorization header.
const authScheme = "OCP-ACCESS-KEY-HMACSHA1"

// ocpHeaderPrefix marks the request headers that participate in signing.
const ocpHeaderPrefix = "x-ocp-"

// SignRequest captures the parts of an HTTP request that participate in
// OCP request signing.
type SignRequest struct {
	// Method is the HTTP method. It is uppercased before signing.
	Method string

	// Path is the request path, e.g. "/api/v2/ob/clusters". It is signed
	// verbatim, without encoding.
	Path string

	// Params are the query parameters. They are sorted by key and
	// percent-encoded before signing; an empty map signs the bare path.
	Params map[string]string

	// Headers are the request headers. Content-Type and any x-ocp-* headers
	// contribute to the signature.
	Headers map[string]string

	// Body is the raw request body. A nil or empty body signs an empty
	// content digest.
	Body []byte

	// Date is the RFC 1123 timestamp to sign. The same string must be sent
	// as the Date header of the request.
	Date string
}

// Signer produces OCP API request signatures using HMAC-SHA1 over a
// canonical representation of the request. A Signer is immutable and safe
// for concurrent use.
type Signer struct {
	accessKeyID string
	secret      []byte
	host        string
}

// NewSigner returns a Signer bound to the given host authority, e.g.
// "127.0.0.1:8080". The host is part of every canonical string, so a signer
// only produces valid signatures for requests sent to that host.
func NewSigner(host, accessKeyID, accessKeySecret string) (*Signer, error) {
	if host == "" {
		return nil, &ConfigurationError{Field: "host"}
	}
	if accessKeyID == "" {
		return nil, &ConfigurationError{Field: "access_key_id"}
	}
	if accessKeySecret == "" {
		return nil, &ConfigurationError{Field: "access_key_secret"}
	}
	return &Signer{
		accessKeyID: accessKeyID,
		secret:      []byte(accessKeySecret),
		host:        host,
	}, nil
}

// Host returns the host authority the signer is bound to.
func (s *Signer) Host() string { return s.host }

// AccessKeyID returns the access key identity used in Authorization headers.
func (s *Signer) AccessKeyID() string { return s.accessKeyID }

// StringToSign builds the canonical string for a request. The canonical form
// is seven newline-joined fields: method, content digest, content type, date,
// host, x-ocp-* headers and the path with its sorted query string.
func (s *Signer) StringToSign(r SignRequest) string {
	parts := []string{
		strings.ToUpper(r.Method),
		contentDigest(r.Body),
		headerValue(r.Headers, "Content-Type"),
		r.Date,
		s.host,
		canonicalOCPHeaders(r.Headers),
		canonicalResource(r.Path, r.Params),
	}
	return strings.Join(parts, "\n")
}

// Sign returns the base64-encoded HMAC-SHA1 signature for a request.
func (s *Signer) Sign(r SignRequest) string {
	mac := hmac.New(sha1.New, s.secret)
	mac.Write([]byte(s.StringToSign(r)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Authorization returns the value for the Authorization header of a signed
// request.
func (s *Signer) Authorization(r SignRequest) string {
	return fmt.Sprintf("%s %s:%s", authScheme, s.accessKeyID, s.Sign(r))
}

// contentDigest returns the uppercase hex MD5 of the body, or the empty
// string for a nil or empty body. An absent body and a zero-length body are
// indistinguishable to the verifier; OCP signs both the same way.
func contentDigest(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	sum := md5.Sum(body)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// headerValue performs a case-insensitive header lookup, returning "" when
// the header is absent.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// canonicalOCPHeaders collects the x-ocp-* headers, sorts them by name as
// received and joins them as "name:value" lines. Returns "" when no such
// headers are present.
func canonicalOCPHeaders(headers map[string]string) string {
	names := make([]string, 0, len(headers))
	for k := range headers {
		if strings.HasPrefix(strings.ToLower(k), ocpHeaderPrefix) {
			names = append(names, k)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, k := range names {
		lines[i] = k + ":" + headers[k]
	}
	return strings.Join(lines, "\n")
}

// canonicalResource returns the path, plus "?" and the sorted, encoded query
// string when params is non-empty.
func canonicalResource(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = encodeComponent(k) + "=" + encodeComponent(params[k])
	}
	return path + "?" + strings.Join(pairs, "&")
}

// encodeComponent percent-encodes every byte outside [A-Za-z0-9]. This is
// stricter than RFC 3986: the unreserved marks -_.~ and the slash are
// encoded too, matching what the OCP server verifies against.
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}
