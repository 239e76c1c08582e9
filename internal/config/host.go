package config

import "strings"

// HostConfig holds request settings for one host.
type HostConfig struct {
	// Cookie is sent with every request to the host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent to the host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the default User-Agent for the host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// RequestHeaders returns Headers with UserAgent folded in as User-Agent.
// The result is a fresh map, or nil when there is nothing to send.
func (hc HostConfig) RequestHeaders() map[string]string {
	if len(hc.Headers) == 0 && hc.UserAgent == "" {
		return nil
	}
	out := make(map[string]string, len(hc.Headers)+1)
	for k, v := range hc.Headers {
		out[k] = v
	}
	if hc.UserAgent != "" {
		out["User-Agent"] = hc.UserAgent
	}
	return out
}

// File is the structure of the configuration file.
type File struct {
	// Hosts maps host names (without scheme or port) to their settings.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`

	// Defaults apply to every host unless overridden in Hosts.
	Defaults HostConfig `yaml:"defaults,omitempty"`
}

// HostConfig returns the settings for host, merging the host entry over the
// defaults. Header maps are merged key by key; the host wins on conflicts.
func (cf *File) HostConfig(host string) HostConfig {
	if cf == nil {
		return HostConfig{}
	}

	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	hc, ok := cf.Hosts[strings.ToLower(host)]
	if !ok {
		return result
	}

	if hc.Cookie != "" {
		result.Cookie = hc.Cookie
	}
	if hc.UserAgent != "" {
		result.UserAgent = hc.UserAgent
	}
	if len(hc.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(hc.Headers))
		}
		for k, v := range hc.Headers {
			result.Headers[k] = v
		}
	}

	return result
}
