package util

import (
	"errors"
	"fmt"

	"sigs.k8s.io/yaml"
)

const (
	APIVersionV1Alpha1 = "testgroups/v1alpha1"
)

type TypeMeta struct {
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
}

func (t *TypeMeta) GetAPIVersion() string {
	if t.APIVersion == "" {
		return APIVersionV1Alpha1
	}

	return t.APIVersion
}

func (t *TypeMeta) Validate(expectedKind string) error {
	var err error
	err = errors.Join(err, ValidateAPIVersion(t.APIVersion))
	if t.Kind != expectedKind {
		err = errors.Join(err, fmt.Errorf("invalid kind '%s': expected '%s'", t.Kind, expectedKind))
	}

	return err
}

func ValidateAPIVersion(version string) error {
	switch version {
	case "", APIVersionV1Alpha1:
		return nil
	default:
		return fmt.Errorf("unknown apiVersion: '%s'", version)
	}
}

// ReadTypeMeta decodes only the apiVersion and kind of a YAML document and
// checks them against expectedKind.
func ReadTypeMeta(data []byte, expectedKind string) (*TypeMeta, error) {
	meta := &TypeMeta{}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, err
	}

	if err := meta.Validate(expectedKind); err != nil {
		return nil, err
	}

	return meta, nil
}
