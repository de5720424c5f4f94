package config

// JobConfig describes the static configuration of one extraction job:
// where its dataset lives, where the dictionary catalogs are, and the
// storage defaults the CLI falls back to.
type JobConfig struct {
	Job struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Namespace   string `yaml:"namespace"`
	} `yaml:"job"`

	Dataset struct {
		RootDir string `yaml:"root_dir"`
		Name    string `yaml:"name"`
	} `yaml:"dataset"`

	Dictionary struct {
		Dir string `yaml:"dir"`
	} `yaml:"dictionary"`

	Storage struct {
		Bucket string `yaml:"bucket"`
		Region string `yaml:"region"`
	} `yaml:"storage"`
}
