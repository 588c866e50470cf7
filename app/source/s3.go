package source

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/lysyi3m/listing-comb/app/cfg"
)

// NewS3Client builds an S3 client from process configuration. Static
// credentials are used when provided, otherwise the SDK's default chain.
func NewS3Client(c *cfg.Cfg) (*s3.S3, error) {
	awsCfg := aws.NewConfig().WithRegion(c.AWSRegion)

	if c.AWSAccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(c.AWSAccessKeyID, c.AWSSecretAccessKey, ""))
	}

	if c.S3Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(c.S3Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return s3.New(sess), nil
}
