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
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/dids"
	didjwk "github.com/TBD54566975/web5-go/dids/methods/jwk"
	"github.com/TBD54566975/web5-go/identity/permissions"
	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/internal/measure"
	"github.com/TBD54566975/web5-go/internal/zero"
	"github.com/TBD54566975/web5-go/jose"
	"github.com/TBD54566975/web5-go/jwk"
	"github.com/TBD54566975/web5-go/kms"
)

const nonceInfo = "wallet-connect-nonce"

// Config parameterizes a connect request.
type Config struct {
	RendezvousServer   string
	Scope              string
	PermissionRequests []permissions.Request
	ClientMetadata     ClientMetadata

	// PollingInterval and Deadline default to 1s and 5min, per §4.9 step 7.
	PollingInterval time.Duration
	Deadline        time.Duration

	HTTPClient *http.Client

	// Resolver looks up the wallet's DID to verify the authorization
	// response's signature (step 8). Required unless the wallet is known
	// to sign with the client's own ephemeral key, which Connect falls
	// back to when Resolver is nil.
	Resolver *dids.Resolver
}

func (c Config) withDefaults() Config {
	if c.PollingInterval == 0 {
		c.PollingInterval = time.Second
	}
	if c.Deadline == 0 {
		c.Deadline = 5 * time.Minute
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// Callbacks lets the application observe state transitions and supply a
// user-entered PIN.
type Callbacks struct {
	OnURIReady func(uri string)
	OnState    func(state State)
	PinCapture func() ([]byte, error)
}

// Client drives one wallet-connect handshake.
type Client struct {
	cfg        Config
	keyManager kms.Backend
}

// NewClient returns a Client configured by cfg, generating ephemeral keys
// into an in-memory key manager unless one is supplied via WithKeyManager.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults(), keyManager: kms.NewMemoryBackend()}
}

// WithKeyManager overrides the backend ephemeral keys are generated into.
func (c *Client) WithKeyManager(backend kms.Backend) *Client {
	c.keyManager = backend
	return c
}

type handshakeState struct {
	ephemeralDID  *dids.BearerDid
	codeVerifier  []byte
	codeChallenge []byte
	state         string
	nonce         []byte
}

// Connect runs the full protocol: EphemeralKeys, PushedAuthRequest,
// URIReady, Polling, DecryptedResponse — per §4.9's state machine.
func (c *Client) Connect(ctx context.Context, cb Callbacks) (*AuthorizationResponse, error) {
	emit := func(s State) {
		if cb.OnState != nil {
			cb.OnState(s)
		}
	}

	emit(Init)
	log.Debug().Str("rendezvous", c.cfg.RendezvousServer).Msg("connect: starting handshake")

	hs, err := c.ephemeralKeys()
	if err != nil {
		emit(Error)
		return nil, err
	}
	emit(EphemeralKeys)

	requestURI, err := c.pushAuthRequest(ctx, hs)
	if err != nil {
		log.Warn().Err(err).Msg("connect: pushed authorization request failed")
		emit(Error)
		return nil, err
	}
	emit(PushedAuthRequest)

	connectURI := c.buildConnectURI(hs, requestURI)
	emit(URIReady)
	if cb.OnURIReady != nil {
		cb.OnURIReady(connectURI)
	}

	emit(Polling)
	responseJWE, err := c.poll(ctx, hs.state)
	if err != nil {
		if errors.Is(err, ErrTimedOut) {
			emit(TimedOut)
		} else {
			emit(Error)
		}
		return nil, err
	}
	emit(Received)

	if cb.PinCapture == nil {
		emit(Error)
		return nil, fmt.Errorf("connect: PinCapture callback required")
	}
	pin, err := cb.PinCapture()
	if err != nil {
		emit(Error)
		return nil, err
	}

	authResponse, err := c.decryptResponse(hs, responseJWE, pin)
	if err != nil {
		emit(Error)
		return nil, err
	}
	emit(DecryptedResponse)

	return authResponse, nil
}

// ephemeralKeys implements §4.9 step 1.
func (c *Client) ephemeralKeys() (*handshakeState, error) {
	method := didjwk.New()
	bearer, err := method.Create(c.keyManager, dids.CreateOptions{"algorithm": kms.AlgEd25519})
	if err != nil {
		return nil, err
	}

	codeVerifier, err := crypto.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	codeChallenge := crypto.SHA256(codeVerifier)

	stateBytes, err := crypto.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)

	nonce, err := crypto.HKDFSHA256([]byte(state), nil, []byte(nonceInfo), 128)
	if err != nil {
		return nil, err
	}

	return &handshakeState{
		ephemeralDID:  bearer,
		codeVerifier:  codeVerifier,
		codeChallenge: codeChallenge,
		state:         state,
		nonce:         nonce,
	}, nil
}

// pushAuthRequest implements §4.9 steps 2-5.
func (c *Client) pushAuthRequest(ctx context.Context, hs *handshakeState) (string, error) {
	callbackURL := c.cfg.RendezvousServer + "/callback"

	reqObj := RequestObject{
		ClientID:            callbackURL,
		Scope:               c.cfg.Scope,
		CodeChallenge:       base64.RawURLEncoding.EncodeToString(hs.codeChallenge),
		CodeChallengeMethod: "S256",
		PermissionRequests:  c.cfg.PermissionRequests,
		RedirectURI:         callbackURL,
		ClientMetadata:      c.cfg.ClientMetadata,
		State:               hs.state,
		Nonce:               base64.RawURLEncoding.EncodeToString(hs.nonce),
	}

	signedJWT, err := c.signRequestObject(hs, reqObj)
	if err != nil {
		return "", err
	}

	jwe, err := jose.EncryptCompact([]byte(signedJWT), jose.Header{
		"alg": jose.AlgDir,
		"enc": jose.EncXC20P,
		"cty": "JWT",
		"typ": "JWT",
	}, hs.codeChallenge)
	if err != nil {
		return "", err
	}

	form := url.Values{"request": {jwe}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.RendezvousServer+"/pushedAuthorizationRequest",
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrParRejected
	}

	var parResponse struct {
		RequestURI string `json:"request_uri"`
	}
	if err := jsonw.Decode(resp.Body, &parResponse); err != nil {
		return "", err
	}
	return parResponse.RequestURI, nil
}

// requestClaims adapts RequestObject to jwt.Claims so golang-jwt can marshal
// it as the JWT payload without an intermediate map.
type requestClaims struct {
	RequestObject
}

func (c requestClaims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c requestClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c requestClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c requestClaims) GetIssuer() (string, error)                   { return "", nil }
func (c requestClaims) GetSubject() (string, error)                  { return "", nil }
func (c requestClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }


// signRequestObject implements §4.9 step 3: sign with EdDSA, kid = ephemeral
// key id, typ = JWT, using golang-jwt/jwt/v5 the way the teacher's
// remote/caller package builds and signs its bearer JWTs.
func (c *Client) signRequestObject(hs *handshakeState, reqObj RequestObject) (string, error) {
	priv, kid, err := ephemeralEd25519PrivateKey(hs)
	if err != nil {
		return "", err
	}
	defer zero.Bytes(priv)

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, requestClaims{reqObj})
	token.Header["kid"] = kid

	return token.SignedString(priv)
}

// ephemeralEd25519PrivateKey exports the ephemeral DID's signing key from
// its (in-memory, hence exportable) key manager, for use with golang-jwt.
func ephemeralEd25519PrivateKey(hs *handshakeState) (ed25519.PrivateKey, string, error) {
	vm, ok := hs.ephemeralDID.Document.FindVerificationMethod("")
	if !ok {
		return nil, "", dids.ErrNoSigningMethod
	}

	keyURI, err := vm.PublicKeyJwk.KeyURI()
	if err != nil {
		return nil, "", err
	}
	privJWK, err := hs.ephemeralDID.KeyManager.Export(keyURI)
	if err != nil {
		return nil, "", err
	}
	priv, err := jwk.ToEd25519PrivateKey(privJWK)
	if err != nil {
		return nil, "", err
	}
	return priv, vm.ID, nil
}

// buildConnectURI implements §4.9 step 6 / §6's wallet-connect URI format.
func (c *Client) buildConnectURI(hs *handshakeState, requestURI string) string {
	values := url.Values{}
	values.Set("request_uri", requestURI)
	values.Set("nonce", base64.RawURLEncoding.EncodeToString(hs.nonce))
	values.Set("client_did", hs.ephemeralDID.URI)
	values.Set("code_challenge", base64.RawURLEncoding.EncodeToString(hs.codeChallenge))
	return "web5://connect/?" + values.Encode()
}

// poll implements §4.9 step 7: poll /token until a non-empty body or the
// deadline fires.
func (c *Client) poll(ctx context.Context, state string) (string, error) {
	defer measure.ExecTime("Client.poll")()

	deadline := time.Now().Add(c.cfg.Deadline)
	ticker := time.NewTicker(c.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		if time.Now().After(deadline) {
			log.Warn().Str("state", state).Dur("deadline", c.cfg.Deadline).Msg("connect: rendezvous polling timed out")
			return "", ErrTimedOut
		}

		body, err := c.fetchToken(ctx, state)
		if err != nil {
			log.Warn().Err(err).Str("state", state).Msg("connect: rendezvous poll request failed")
			return "", err
		}
		if body != "" {
			return body, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchToken(ctx context.Context, state string) (string, error) {
	values := url.Values{"state": {state}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.RendezvousServer+"/token?"+values.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", err
	}
	return buf.String(), nil
}
