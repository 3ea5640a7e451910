package config

type YAMLConfig struct {
	API      YAMLAPI      `yaml:"api"`
	Paths    YAMLPaths    `yaml:"paths"`
	Store    YAMLStore    `yaml:"store"`
	Download YAMLDownload `yaml:"download"`
}

type YAMLAPI struct {
	GeoMetBaseURL      string `yaml:"geomet_base_url"`
	AlbertaBoundaryURL string `yaml:"alberta_boundary_url"`
	Timeout            string `yaml:"timeout"`
}

type YAMLPaths struct {
	OutputDir    string `yaml:"output_dir"`
	ManifestsDir string `yaml:"manifests_dir"`
}

type YAMLStore struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

type YAMLDownload struct {
	PageLimit *int   `yaml:"page_limit"`
	RetryWait string `yaml:"retry_wait"`
}
