package leconfig

import (
	"context"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/history"
	"github.com/ergomake/layeredit/internal/layers"
	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/internal/sessions"
	"github.com/ergomake/layeredit/internal/storage"
	"github.com/ergomake/layeredit/internal/vectorsource"
)

const DEFAULT_SAVE_TIMEOUT = 30 * time.Second

type configFile struct {
	CurrentContext string                   `yaml:"currentContext"`
	Contexts       map[string]ConfigContext `yaml:"contexts"`
	Editing        EditingConfig            `yaml:"editing,omitempty"`
}

type ConfigContext struct {
	Type   string `yaml:"type"`
	Dir    string `yaml:"dir,omitempty"`
	Bucket string `yaml:"bucket,omitempty"`
	Region string `yaml:"region,omitempty"`

	FeatureService *FeatureServiceConfig `yaml:"featureService,omitempty"`
}

type FeatureServiceConfig struct {
	URL      string `yaml:"url"`
	Email    string `yaml:"email,omitempty"`
	Password string `yaml:"password,omitempty"`
}

type EditingConfig struct {
	SaveTimeout       string `yaml:"saveTimeout,omitempty"`
	ErrorSummaryLimit int    `yaml:"errorSummaryLimit,omitempty"`
	PartialSave       string `yaml:"partialSave,omitempty"`
}

func (c ConfigContext) Location() string {
	switch c.Type {
	case "local":
		return c.Dir
	case "s3":
		return "s3://" + c.Bucket
	}

	return ""
}

func getDefaultPath() (string, error) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "fail to get user home dir")
	}

	return path.Join(homedir, ".layeredit", "config"), nil
}

type config struct {
	*configFile
	path string
}

func Init(name string, ctx ConfigContext, path string) (*config, error) {
	if path == "" {
		p, err := getDefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "fail to get default path")
		}

		path = p
	}

	return &config{
		configFile: &configFile{
			CurrentContext: name,
			Contexts:       map[string]ConfigContext{name: ctx},
		},
		path: path,
	}, nil
}

func Load(path string) (*config, error) {
	if path == "" {
		p, err := getDefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "fail to get default path")
		}

		path = p
	}

	var cfg configFile

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read config file")
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "fail to decode config content")
	}

	if _, ok := cfg.Contexts[cfg.CurrentContext]; !ok {
		return nil, errors.Errorf("context %s not found", cfg.CurrentContext)
	}

	return &config{configFile: &cfg, path: path}, nil
}

func (c *config) Save() error {
	dir := path.Dir(c.path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrap(err, "fail to create config directory")
	}

	data, err := yaml.Marshal(c.configFile)
	if err != nil {
		return errors.Wrap(err, "fail to encode config")
	}

	err = os.WriteFile(c.path, data, 0600)
	return errors.Wrap(err, "fail to write config file")
}

func (c *config) GetCurrent() ConfigContext {
	return c.Contexts[c.CurrentContext]
}

func (c *config) getDir() string {
	dir := c.GetCurrent().Dir
	if !path.IsAbs(dir) {
		dir = path.Join(path.Dir(c.path), dir)
	}

	return dir
}

const (
	layersFileName   = "layeredit.layers.json"
	sessionsFileName = "layeredit.sessions.json"
	historyFileName  = "layeredit.history.json"
)

func (c *config) getStorage(name string) (storage.FileLike, string, error) {
	current := c.GetCurrent()
	switch current.Type {
	case "local":
		fpath := path.Join(c.getDir(), name)
		return storage.NewFileStorage(fpath), fpath, nil
	case "s3":
		b, err := storage.NewS3Backend(current.Bucket, name, current.Region)
		if err != nil {
			return nil, "", errors.Wrap(err, "fail to initialize s3 backend")
		}

		return b, "s3://" + current.Bucket + "/" + name, nil
	}

	return nil, "", errors.Errorf("invalid context type %q", current.Type)
}

func (c *config) GetLayersBackend(ctx context.Context) (layers.Backend, error) {
	blob, location, err := c.getStorage(layersFileName)
	if err != nil {
		return nil, err
	}

	return layers.NewFileLikeBackend(ctx, blob, location)
}

func (c *config) GetSessionsBackend(ctx context.Context) (sessions.Backend, error) {
	blob, _, err := c.getStorage(sessionsFileName)
	if err != nil {
		return nil, err
	}

	return sessions.NewFileLikeBackend(ctx, blob)
}

func (c *config) GetHistoryBackend(ctx context.Context) (history.Log, error) {
	blob, _, err := c.getStorage(historyFileName)
	if err != nil {
		return nil, err
	}

	return history.NewFileLikeLog(ctx, blob)
}

func (c *config) GetVectorSourceOptions() vectorsource.Options {
	fs := c.GetCurrent().FeatureService
	if fs == nil {
		return vectorsource.Options{}
	}

	return vectorsource.Options{
		FeatureService: &vectorsource.FeatureService{URL: fs.URL, Email: fs.Email, Password: fs.Password},
	}
}

func (c *config) GetEditingOptions() (editing.Options, error) {
	opts := editing.Options{
		SaveTimeout:       DEFAULT_SAVE_TIMEOUT,
		ErrorSummaryLimit: saveerrors.DEFAULT_SUMMARY_LIMIT,
		Region:            c.GetCurrent().Region,
	}

	if c.Editing.SaveTimeout != "" {
		d, err := time.ParseDuration(c.Editing.SaveTimeout)
		if err != nil {
			return opts, errors.Wrap(err, "invalid editing.saveTimeout")
		}

		opts.SaveTimeout = d
	}

	if c.Editing.ErrorSummaryLimit > 0 {
		opts.ErrorSummaryLimit = c.Editing.ErrorSummaryLimit
	}

	policy, err := editing.ParsePartialSavePolicy(c.Editing.PartialSave)
	if err != nil {
		return opts, errors.Wrap(err, "invalid editing.partialSave")
	}
	opts.PartialSave = policy

	return opts, nil
}
