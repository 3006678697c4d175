package grcAuth

import (
	"bytes"
	"image/png"

	"github.com/pquerna/otp/totp"
)

const qrCodeSize = 256

// buildAuthenticatorSetup generates a fresh shared secret and the
// provisioning artifacts an authenticator app needs: the otpauth:// URI
// embedding the organization name and account email, plus a rendered QR
// code.
func buildAuthenticatorSetup(issuer, accountEmail string) (*AuthenticatorSetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountEmail,
	})
	if err != nil {
		return nil, err
	}

	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &AuthenticatorSetup{
		SecretBase32:    key.Secret(),
		ProvisioningURI: key.URL(),
		QRCodePNG:       buf.Bytes(),
	}, nil
}

// validateAuthenticatorCode does the standard time-window check. There is
// deliberately no attempt-count lockout on this path; it differs from the
// email-OTP flow and the two must not be unified silently.
func validateAuthenticatorCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
