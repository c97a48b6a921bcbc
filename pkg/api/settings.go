package api

// ServerSettings configures the admin API
type ServerSettings struct {
	Debug bool

	BasicAuthEnabled  bool
	BasicAuthUsername string
	BasicAuthPassword string
}

// WithDebug enables request logging
func (s ServerSettings) WithDebug(debug bool) ServerSettings {
	s.Debug = debug
	return s
}

// WithBasicAuth enables state-changing endpoints, protected by given credentials
func (s ServerSettings) WithBasicAuth(username, password string) ServerSettings {
	s.BasicAuthEnabled = true
	s.BasicAuthUsername = username
	s.BasicAuthPassword = password
	return s
}

// NewServerSettings creates settings with state-changing endpoints disabled
func NewServerSettings() ServerSettings {
	return ServerSettings{}
}
