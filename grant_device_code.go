package oauth

import (
	"net/url"

	"github.com/giantswarm/oauth-grants/internal/params"
)

// DeviceCodeGrant is the device authorization grant (RFC 8628 Section 3.4).
type DeviceCodeGrant struct {
	deviceCode DeviceCode
}

// NewDeviceCodeGrant creates a device code grant.
// It panics if deviceCode is empty or blank.
func NewDeviceCodeGrant(deviceCode DeviceCode) *DeviceCodeGrant {
	if params.IsBlank(string(deviceCode)) {
		panic("oauth: the device code must not be empty")
	}
	return &DeviceCodeGrant{deviceCode: deviceCode}
}

// Type implements AuthorizationGrant
func (g *DeviceCodeGrant) Type() GrantType {
	return GrantTypeDeviceCode
}

// DeviceCode returns the device verification code.
func (g *DeviceCodeGrant) DeviceCode() DeviceCode {
	return g.deviceCode
}

// Parameters implements AuthorizationGrant
func (g *DeviceCodeGrant) Parameters() url.Values {
	return url.Values{
		ParamGrantType:  {GrantTypeDeviceCode.value},
		ParamDeviceCode: {string(g.deviceCode)},
	}
}

// ParseDeviceCodeGrant parses a device code grant from token request parameters.
func ParseDeviceCodeGrant(p url.Values) (*DeviceCodeGrant, error) {
	if err := EnsureGrantType(GrantTypeDeviceCode, p); err != nil {
		return nil, err
	}

	code, ok := params.FirstNonBlank(p, ParamDeviceCode)
	if !ok {
		return nil, newInvalidRequest("Missing or empty device_code parameter", nil)
	}
	return NewDeviceCodeGrant(DeviceCode(code)), nil
}
