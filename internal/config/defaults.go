package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 5000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Backend: BackendXLSX,
			XLSX: XLSXConfig{
				Path:  "client_data.xlsx",
				Sheet: "Sheet1",
			},
			Badger: BadgerConfig{
				Path: "./data/submissions",
			},
		},
		Report: ReportConfig{
			Path:     "client_report.pdf",
			LogoPath: "logo.png",
			KeepFile: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
	}
}
