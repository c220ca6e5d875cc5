package internal

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/context"
	"gopkg.in/yaml.v3"

	"github.com/derWhity/eventcal/internal/ctxhelper"
	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
)

// ConfigService gives access to the application's configuration
type ConfigService interface {
	// Load loads the application config from its default file location
	Load(ctx context.Context) error
	// LoadFromFile loads the configuration from the given JSON or YAML file
	LoadFromFile(ctx context.Context, filename string) error
	// Write writes the current application configuration to the default file name
	Write(ctx context.Context) error
	// WriteToFile writes the current application configuration to a JSON or YAML file
	WriteToFile(ctx context.Context, filename string) error
	// GetConfig retuns the current application configuration
	GetConfig(ctx context.Context) models.AppConfig
}

// -- ConfigService implementation -------------------------------------------------------------------------------------

type configService struct {
	sync.RWMutex
	configFilename string
	config         *models.AppConfig
}

// NewConfigService creates a new configuration service instance with the given default file name
func NewConfigService(configFilename string) ConfigService {
	return &configService{
		configFilename: configFilename,
	}
}

// isYAML tells by the file extension if a configuration file is written in YAML. Everything else is JSON
func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

// Load loads the application config from its default file location
func (s *configService) Load(ctx context.Context) error {
	return s.LoadFromFile(ctx, s.configFilename)
}

// LoadFromFile loads the configuration from the given JSON or YAML file. Values missing in the file keep their
// defaults
func (s *configService) LoadFromFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Loading configuration file")
	conf, err := models.GetDefaultConfig()
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to create default config")
	}
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: cannot load configuration file")
	}
	defer f.Close()
	if isYAML(filename) {
		err = yaml.NewDecoder(f).Decode(conf)
		if err == io.EOF {
			// An empty YAML document keeps all defaults
			err = nil
		}
	} else {
		err = json.NewDecoder(f).Decode(conf)
	}
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to decode configuration file")
	}
	s.Lock()
	s.config = conf
	s.Unlock()
	return nil
}

// Write writes the current application configuration to the default file name
func (s *configService) Write(ctx context.Context) error {
	return s.WriteToFile(ctx, s.configFilename)
}

// WriteToFile writes the current application configuration to a JSON or YAML file
func (s *configService) WriteToFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Writing configuration file")
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "WriteToFile: Cannot open configuration file '%s' to write to", filename)
	}
	defer f.Close()
	conf := s.GetConfig(ctx)
	if isYAML(filename) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		err = enc.Encode(&conf)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "    ")
		err = enc.Encode(&conf)
	}
	if err != nil {
		return errors.Wrap(err, "WriteToFile: Failed to serialize configuration data")
	}
	return nil
}

// GetConfig retuns the current application configuration
func (s *configService) GetConfig(ctx context.Context) models.AppConfig {
	var ret models.AppConfig
	s.RLock()
	defer s.RUnlock()
	if s.config != nil {
		ret = *s.config
	} else {
		if tmp, err := models.GetDefaultConfig(); err == nil {
			ret = *tmp
		}
	}
	return ret
}
