package lasmerge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 批处理配置
type Options struct {
	BoundaryRoot   string   `yaml:"boundary_root"`
	ArchiveRoot    string   `yaml:"archive_root"`
	WorkDir        string   `yaml:"work_dir"`
	Subgrids       []string `yaml:"subgrids"`
	TargetSrid     int      `yaml:"target_srid"`
	Workers        int      `yaml:"workers"`
	ProtectedRoots []string `yaml:"protected_roots"`
	PdalBin        string   `yaml:"pdal_bin"`
	LogLevel       string   `yaml:"log_level"`
	DevLog         bool     `yaml:"dev_log"`
}

func DefaultOptions() *Options {
	return &Options{
		TargetSrid:     TARGET_SRID,
		Workers:        DEFAULT_WORKERS,
		ProtectedRoots: []string{DEFAULT_PROTECTED_ROOT},
		PdalBin:        DEFAULT_PDAL_BIN,
		LogLevel:       "info",
	}
}

// 读取YAML配置，未填写的字段使用默认值
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return opts, nil
}

func (o *Options) Validate() error {
	if o.BoundaryRoot == "" {
		return fmt.Errorf("%w: boundary_root is required", ErrInvalidOptions)
	}
	if o.ArchiveRoot == "" {
		return fmt.Errorf("%w: archive_root is required", ErrInvalidOptions)
	}
	if o.WorkDir == "" {
		return fmt.Errorf("%w: work_dir is required", ErrInvalidOptions)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidOptions, o.Workers)
	}
	if o.TargetSrid <= 0 {
		return fmt.Errorf("%w: target_srid must be positive, got %d", ErrInvalidOptions, o.TargetSrid)
	}
	if _, err := NewWorkspace(o.WorkDir, o.ProtectedRoots...).GuardPath(o.WorkDir); err != nil {
		return fmt.Errorf("%w: work_dir: %v", ErrInvalidOptions, err)
	}
	seen := make(map[string]bool, len(o.Subgrids))
	for i, s := range o.Subgrids {
		if s == "" {
			return fmt.Errorf("%w: subgrids[%d] is empty", ErrInvalidOptions, i)
		}
		if seen[s] {
			return fmt.Errorf("%w: subgrid %s listed twice", ErrInvalidOptions, s)
		}
		seen[s] = true
	}
	return nil
}
