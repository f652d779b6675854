package models

import "github.com/mileusna/useragent"

// DeviceInfo is the device/environment metadata captured once at session
// creation. Browser and OS fields are derived from the raw user agent.
type DeviceInfo struct {
	UserAgent      string `json:"userAgent"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	Mobile         bool   `json:"mobile"`
	ScreenWidth    int    `json:"screenWidth,omitempty"`
	ScreenHeight   int    `json:"screenHeight,omitempty"`
	ConnectionType string `json:"connectionType,omitempty"`
	EffectiveType  string `json:"effectiveType,omitempty"`
}

// NewDeviceInfo builds a DeviceInfo from the raw values the embedding
// application reports, parsing browser/OS fields out of the user agent.
func NewDeviceInfo(rawUserAgent string, screenWidth, screenHeight int, connectionType, effectiveType string) DeviceInfo {
	parsed := useragent.Parse(rawUserAgent)

	return DeviceInfo{
		UserAgent:      rawUserAgent,
		Browser:        parsed.Name,
		BrowserVersion: parsed.Version,
		OS:             parsed.OS,
		OSVersion:      parsed.OSVersion,
		Mobile:         parsed.Mobile,
		ScreenWidth:    screenWidth,
		ScreenHeight:   screenHeight,
		ConnectionType: connectionType,
		EffectiveType:  effectiveType,
	}
}
