// Copyright 2022 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package connect

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/jose"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		RendezvousServer: serverURL,
		Scope:            "openid profile",
		PollingInterval:  10 * time.Millisecond,
		Deadline:         time.Second,
	})
}

func TestClient_EphemeralKeysDerivesChallengeFromVerifier(t *testing.T) {
	c := newTestClient("http://unused.example")

	hs, err := c.ephemeralKeys()
	require.NoError(t, err)
	require.Len(t, hs.codeVerifier, 32)
	require.Equal(t, crypto.SHA256(hs.codeVerifier), hs.codeChallenge)
	require.NotEmpty(t, hs.state)
	require.NotEmpty(t, hs.nonce)
	require.NotNil(t, hs.ephemeralDID)
}

func TestClient_PushAuthRequestAndPoll(t *testing.T) {
	var capturedRequest string
	var capturedState string

	mux := http.NewServeMux()
	mux.HandleFunc("/pushedAuthorizationRequest", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		capturedRequest = r.Form.Get("request")
		require.NotEmpty(t, capturedRequest)
		w.Header().Set("Content-Type", "application/json")
		_ = jsonw.Encode(map[string]string{"request_uri": "urn:ietf:params:oauth:request_uri:abc123"}, w)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		capturedState = r.URL.Query().Get("state")
		_, _ = w.Write([]byte("opaque-response-jwe"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(server.URL)
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	requestURI, err := c.pushAuthRequest(context.Background(), hs)
	require.NoError(t, err)
	require.Equal(t, "urn:ietf:params:oauth:request_uri:abc123", requestURI)
	require.NotEmpty(t, capturedRequest)

	body, err := c.poll(context.Background(), hs.state)
	require.NoError(t, err)
	require.Equal(t, "opaque-response-jwe", body)
	require.Equal(t, hs.state, capturedState)
}

func TestClient_PushAuthRequestRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	_, err = c.pushAuthRequest(context.Background(), hs)
	require.ErrorIs(t, err, ErrParRejected)
}

func TestClient_PollTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(nil)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.cfg.Deadline = 20 * time.Millisecond
	c.cfg.PollingInterval = 5 * time.Millisecond

	_, err := c.poll(context.Background(), "some-state")
	require.ErrorIs(t, err, ErrTimedOut)
}

func TestClient_BuildConnectURI(t *testing.T) {
	c := newTestClient("https://rendezvous.example")
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	uri := c.buildConnectURI(hs, "urn:ietf:params:oauth:request_uri:xyz")
	require.Contains(t, uri, "web5://connect/?")
	require.Contains(t, uri, "client_did="+hs.ephemeralDID.URI)
	require.Contains(t, uri, "code_challenge="+base64.RawURLEncoding.EncodeToString(hs.codeChallenge))
}

// TestClient_SignRequestObjectProducesVerifiableEdDSAJWT exercises step 3:
// the request object is signed with golang-jwt and verifiable against the
// ephemeral DID's own public key.
func TestClient_SignRequestObjectProducesVerifiableEdDSAJWT(t *testing.T) {
	c := newTestClient("https://rendezvous.example")
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	reqObj := RequestObject{
		ClientID:            "https://rendezvous.example/callback",
		CodeChallenge:       base64.RawURLEncoding.EncodeToString(hs.codeChallenge),
		CodeChallengeMethod: "S256",
		RedirectURI:         "https://rendezvous.example/callback",
		State:               hs.state,
	}

	signed, err := c.signRequestObject(hs, reqObj)
	require.NoError(t, err)

	var claims requestClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		return c.resolveResponseKey(hs, "")
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, reqObj.State, claims.State)
	require.Equal(t, reqObj.CodeChallenge, claims.CodeChallenge)
	require.Equal(t, hs.ephemeralDID.Document.VerificationMethod[0].ID, token.Header["kid"])
}

// TestClient_DecryptResponseRoundTrip simulates a wallet building the
// response JWE in §4.9 step 8's shape and verifies the client can recover
// and authenticate it.
func TestClient_DecryptResponseRoundTrip(t *testing.T) {
	c := newTestClient("https://rendezvous.example")
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	want := AuthorizationResponse{
		GranteeDID: hs.ephemeralDID.URI,
		State:      hs.state,
	}

	priv, kid, err := ephemeralEd25519PrivateKey(hs)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, responseClaims{want})
	token.Header["kid"] = kid
	responseJWT, err := token.SignedString(priv)
	require.NoError(t, err)

	cek, err := crypto.HKDFSHA256(hs.codeVerifier, nil, []byte(responseCEKInfo), 256)
	require.NoError(t, err)
	pin := []byte("1234")

	responseJWE, err := jose.EncryptCompactWithAAD([]byte(responseJWT), jose.Header{
		"alg": jose.AlgDir,
		"enc": jose.EncXC20P,
		"cty": "JWT",
		"typ": "JWT",
	}, cek, pin)
	require.NoError(t, err)

	got, err := c.decryptResponse(hs, responseJWE, pin)
	require.NoError(t, err)
	require.Equal(t, want.GranteeDID, got.GranteeDID)
	require.Equal(t, want.State, got.State)
}

func TestClient_DecryptResponseWrongPinFails(t *testing.T) {
	c := newTestClient("https://rendezvous.example")
	hs, err := c.ephemeralKeys()
	require.NoError(t, err)

	priv, kid, err := ephemeralEd25519PrivateKey(hs)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, responseClaims{AuthorizationResponse{State: hs.state}})
	token.Header["kid"] = kid
	responseJWT, err := token.SignedString(priv)
	require.NoError(t, err)

	cek, err := crypto.HKDFSHA256(hs.codeVerifier, nil, []byte(responseCEKInfo), 256)
	require.NoError(t, err)

	responseJWE, err := jose.EncryptCompactWithAAD([]byte(responseJWT), jose.Header{
		"alg": jose.AlgDir,
		"enc": jose.EncXC20P,
	}, cek, []byte("1234"))
	require.NoError(t, err)

	_, err = c.decryptResponse(hs, responseJWE, []byte("0000"))
	require.Error(t, err)
}
