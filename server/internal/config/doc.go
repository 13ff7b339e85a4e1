// Package config loads the server configuration from the `server:` section
// of the config file.
//
// Config fields:
//   - HTTPPort          port for the REST API, /metrics and WebSocket hub (default 8080)
//   - Auth.Mode         "apikey" or "none"
//   - Auth.KeyEnv       environment variable holding the expected API key
//   - Auth.Header       HTTP header name (default "x-api-key")
//   - Results.Pattern   glob of the run files to keep loaded (required)
//   - Results.Algorithm pure average speed algorithm (default pure_driving_time)
//   - BroadcastInterval WebSocket push interval (default 5s)
//   - Alerts            threshold rules and webhook targets
//
// Load(path) applies defaults before unmarshalling, then validates. Watch
// reloads the file on change so alert rules can be edited without a restart.
package config
