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
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/dids"
	"github.com/TBD54566975/web5-go/internal/zero"
	"github.com/TBD54566975/web5-go/jose"
	"github.com/TBD54566975/web5-go/jwk"
)

const responseCEKInfo = "wallet-connect-response"

// responseClaims adapts AuthorizationResponse to jwt.Claims the same way
// requestClaims adapts RequestObject, so the response JWT's payload can be
// parsed directly by golang-jwt without an intermediate map.
type responseClaims struct {
	AuthorizationResponse
}

func (c responseClaims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c responseClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c responseClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c responseClaims) GetIssuer() (string, error)                   { return "", nil }
func (c responseClaims) GetSubject() (string, error)                  { return "", nil }
func (c responseClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// decryptResponse implements §4.9 step 8: derive the response CEK from the
// ephemeral handshake's code_verifier, decrypt the compact JWE using pin as
// AAD, then verify the inner JWT's signature against the key its kid names.
func (c *Client) decryptResponse(hs *handshakeState, compactJWE string, pin []byte) (*AuthorizationResponse, error) {
	cek, err := crypto.HKDFSHA256(hs.codeVerifier, nil, []byte(responseCEKInfo), 256)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(cek)

	out, err := jose.DecryptCompactWithAAD(compactJWE, cek, pin)
	if err != nil {
		return nil, err
	}

	response, err := c.verifyResponseJWT(hs, string(out.Plaintext))
	if err != nil {
		return nil, err
	}
	if response.State != hs.state {
		return nil, ErrInvalidSignature
	}
	return response, nil
}

// verifyResponseJWT verifies the response JWT's EdDSA signature using
// golang-jwt, the same library signRequestObject signs with. The signing
// key is named by the JWT's kid: when cfg.Resolver is configured, kid is
// treated as a DID URL and dereferenced to the wallet's own verification
// method; with no Resolver configured, this falls back to the ephemeral
// DID's own key (only correct for test wallets that echo the client's key).
func (c *Client) verifyResponseJWT(hs *handshakeState, rawJWT string) (*AuthorizationResponse, error) {
	var claims responseClaims
	keyfunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("connect: unexpected signing method %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		return c.resolveResponseKey(hs, kid)
	}

	token, err := jwt.ParseWithClaims(rawJWT, &claims, keyfunc, jwt.WithValidMethods([]string{"EdDSA"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSignature
	}

	response := claims.AuthorizationResponse
	return &response, nil
}

// resolveResponseKey resolves the wallet's EdDSA public key named by kid
// (a DID URL). With no Resolver configured, the ephemeral DID's own key is
// used instead.
func (c *Client) resolveResponseKey(hs *handshakeState, kid string) (ed25519.PublicKey, error) {
	if c.cfg.Resolver == nil || kid == "" {
		vm, ok := hs.ephemeralDID.Document.FindVerificationMethod("")
		if !ok {
			return nil, dids.ErrNoSigningMethod
		}
		return jwk.ToEd25519PublicKey(vm.PublicKeyJwk)
	}

	vmAny, err := c.cfg.Resolver.Dereference(kid)
	if err != nil {
		return nil, err
	}
	vm, ok := vmAny.(*dids.VerificationMethod)
	if !ok {
		return nil, dids.ErrNoSigningMethod
	}
	return jwk.ToEd25519PublicKey(vm.PublicKeyJwk)
}
