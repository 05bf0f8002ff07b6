// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"testing"
)

// withCleanStravaEnv clears the environment, sets the Strava credential env
// vars to test values, and returns a cleanup function that restores the
// original env. Use with t.Cleanup().
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withCleanStravaEnv(t))
//	    // Environment is cleared, STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET, STRAVA_REFRESH_TOKEN are set
//	}
func withCleanStravaEnv(t *testing.T) func() {
	t.Helper()
	return withCleanStravaEnvAndExtra(t, nil)
}

// withCleanStravaEnvAndExtra clears the environment, sets the Strava
// credential env vars plus additional vars, and returns a cleanup function
// that restores the original env. Use with t.Cleanup().
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withCleanStravaEnvAndExtra(t, map[string]string{
//	        "MCP_TRANSPORT": "http",
//	    }))
//	}
func withCleanStravaEnvAndExtra(t *testing.T, extra map[string]string) func() {
	t.Helper()

	// Save entire environment
	originalEnv := os.Environ()

	// Clear environment for clean slate
	os.Clearenv()

	// Set Strava test credentials
	os.Setenv("STRAVA_CLIENT_ID", "12345")
	os.Setenv("STRAVA_CLIENT_SECRET", "secret")
	os.Setenv("STRAVA_REFRESH_TOKEN", "refresh")

	// Set extra values
	for key, value := range extra {
		os.Setenv(key, value)
	}

	// Return cleanup function that restores original environment
	return func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i := 0; i < len(env); i++ {
				if env[i] == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}
}
