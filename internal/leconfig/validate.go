package leconfig

import (
	"net/url"
	"regexp"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ergomake/layeredit/internal/editing"
)

var (
	s3BucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)
	s3RegionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

func Validate(ctx ConfigContext) error {
	var result *multierror.Error

	switch ctx.Type {
	case "local":
		if ctx.Dir == "" {
			result = multierror.Append(result, errors.New("directory path cannot be empty"))
		}
	case "s3":
		if ctx.Bucket == "" {
			result = multierror.Append(result, errors.New("S3 bucket name cannot be empty"))
		} else if !s3BucketPattern.MatchString(ctx.Bucket) {
			result = multierror.Append(result, errors.Errorf("invalid S3 bucket name: %s", ctx.Bucket))
		}

		if ctx.Region == "" {
			result = multierror.Append(result, errors.New("S3 bucket region cannot be empty"))
		} else if !s3RegionPattern.MatchString(ctx.Region) {
			result = multierror.Append(result, errors.Errorf("invalid S3 bucket region: %s", ctx.Region))
		}
	default:
		return errors.New("invalid context type")
	}

	if fs := ctx.FeatureService; fs != nil {
		if fs.URL == "" {
			result = multierror.Append(result, errors.New("feature service URL cannot be empty"))
		} else if !isValidURL(fs.URL) {
			result = multierror.Append(result, errors.Errorf("invalid feature service URL: %s", fs.URL))
		}

		if fs.Email != "" && !emailPattern.MatchString(fs.Email) {
			result = multierror.Append(result, errors.Errorf("invalid email: %s", fs.Email))
		}

		if fs.Email != "" && fs.Password == "" {
			result = multierror.Append(result, errors.New("password cannot be empty when email is set"))
		}
	}

	return result.ErrorOrNil()
}

func ValidateEditing(cfg EditingConfig) error {
	var result *multierror.Error

	if cfg.SaveTimeout != "" {
		d, err := time.ParseDuration(cfg.SaveTimeout)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("invalid save timeout: %s", cfg.SaveTimeout))
		} else if d < 0 {
			result = multierror.Append(result, errors.New("save timeout cannot be negative"))
		}
	}

	if cfg.ErrorSummaryLimit < 0 {
		result = multierror.Append(result, errors.New("error summary limit cannot be negative"))
	}

	if _, err := editing.ParsePartialSavePolicy(cfg.PartialSave); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func isValidURL(u string) bool {
	parsed, err := url.Parse(u)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
