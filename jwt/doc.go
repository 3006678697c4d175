// Package jwt manages stateless session and refresh token issuance and
// verification. Validity is purely a function of signature and embedded
// expiry; nothing is persisted server-side.
package jwt
