package leconfig

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		ctx    ConfigContext
		errors int
	}{
		{name: "valid local", ctx: ConfigContext{Type: "local", Dir: "workspace"}},
		{name: "valid s3", ctx: ConfigContext{Type: "s3", Bucket: "my-layers", Region: "us-east-1"}},
		{name: "local without dir", ctx: ConfigContext{Type: "local"}, errors: 1},
		{name: "s3 without bucket and region", ctx: ConfigContext{Type: "s3"}, errors: 2},
		{name: "s3 with invalid values", ctx: ConfigContext{Type: "s3", Bucket: "Not_A_Bucket", Region: "earth"}, errors: 2},
		{
			name: "valid feature service",
			ctx: ConfigContext{Type: "local", Dir: "ws", FeatureService: &FeatureServiceConfig{
				URL: "https://features.example.com", Email: "me@example.com", Password: "secret",
			}},
		},
		{
			name: "feature service with bad values",
			ctx: ConfigContext{Type: "local", Dir: "ws", FeatureService: &FeatureServiceConfig{
				URL: "features", Email: "not-an-email",
			}},
			errors: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.ctx)
			if test.errors == 0 {
				assert.NoError(t, err)
				return
			}

			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, test.errors)
		})
	}

	t.Run("invalid type", func(t *testing.T) {
		assert.Error(t, Validate(ConfigContext{Type: "cloud"}))
	})
}

func TestValidateEditing(t *testing.T) {
	assert.NoError(t, ValidateEditing(EditingConfig{SaveTimeout: "1m", ErrorSummaryLimit: 3, PartialSave: "keep"}))

	err := ValidateEditing(EditingConfig{SaveTimeout: "-1s", ErrorSummaryLimit: -1, PartialSave: "never"})
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
}
