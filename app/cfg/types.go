package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesFile       string
	Port              string
	BatchSize         int
	SchedulerInterval int
	APIAccessKey      string

	// S3 configuration
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Endpoint         string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
