package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientInfo is the browser summary stored with audit events
type ClientInfo struct {
	Device  string `json:"device"`  // mobile, tablet, desktop, bot, unknown
	OS      string `json:"os"`      // e.g. "Windows 10", "Android 14"
	Browser string `json:"browser"` // e.g. "Chrome 120.0"
	Raw     string `json:"raw"`
}

var tabletMarkers = []string{"ipad", "tablet", "kindle", "sm-t", "nexus 7", "nexus 9", "nexus 10"}

// ParseUserAgent summarises a User-Agent header for audit records
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return ClientInfo{Device: "unknown", OS: "Unknown", Browser: "Unknown", Raw: userAgent}
	}

	parser := ua.New(userAgent)

	info := ClientInfo{
		Device:  deviceClass(parser),
		OS:      "Unknown",
		Browser: "Unknown",
		Raw:     userAgent,
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}

	if name, version := parser.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	return info
}

func deviceClass(parser *ua.UserAgent) string {
	if parser.Bot() {
		return "bot"
	}
	if !parser.Mobile() {
		return "desktop"
	}
	lower := strings.ToLower(parser.UA())
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return "tablet"
		}
	}
	return "mobile"
}
