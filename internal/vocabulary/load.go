package vocabulary

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads a vocabulary file and overlays it on the defaults. Sections absent
// from the file keep their built-in values; a present section replaces the
// default list entirely. An empty path returns the defaults.
func Load(path string) (*Vocabulary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		vocab := Default()
		vocab.Normalize()
		return vocab, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading vocabulary file %q: %w", path, err)
	}

	override, err := decode(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("decoding vocabulary file %q: %w", path, err)
	}

	vocab := Default()
	vocab.merge(override)
	vocab.Normalize()

	if err := vocab.Validate(); err != nil {
		return nil, fmt.Errorf("vocabulary file %q: %w", path, err)
	}

	return vocab, nil
}

func decode(settings map[string]any) (*Vocabulary, error) {
	var out Vocabulary
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, err
	}

	return &out, nil
}

func (v *Vocabulary) merge(o *Vocabulary) {
	if o.Version != "" {
		v.Version = o.Version
	}
	if o.Skills != nil {
		v.Skills = o.Skills
	}
	if o.CertificationIndicators != nil {
		v.CertificationIndicators = o.CertificationIndicators
	}
	if o.Education != nil {
		v.Education = o.Education
	}
	if o.Domains != nil {
		v.Domains = o.Domains
	}
	if o.SoftSkills != nil {
		v.SoftSkills = o.SoftSkills
	}
	if o.SuspiciousEmailTLDs != nil {
		v.SuspiciousEmailTLDs = o.SuspiciousEmailTLDs
	}
}
