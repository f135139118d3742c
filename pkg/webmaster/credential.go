package webmaster

import "os"

// EnvAPIKey is the environment variable holding the Bing Webmaster Tools API
// key. The key is attached to every outgoing request as the apikey parameter.
const EnvAPIKey = "BING_WEBMASTER_API_KEY"

// ResolveCredential reads the API key from the process environment. It is
// called when the shared client is first constructed, never at package init,
// so importing this package (e.g. in tests or doc generation) does not
// require a live credential.
//
// Returns a [ConfigError] naming the variable when it is unset or empty. The
// key value itself is never logged and never appears in error messages.
func ResolveCredential() (string, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return "", &ConfigError{
			Var:    EnvAPIKey,
			Reason: "environment variable is not set; export your Bing Webmaster Tools API key before starting the server",
		}
	}
	return key, nil
}
