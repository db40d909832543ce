package sbtstructure

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDump reports a zero-length document body. It means the external
// tool errored before writing anything, which callers surface as a process
// failure rather than a malformed document.
var ErrEmptyDump = errors.New("structure dump is empty")

// MalformedDocumentError reports a document the parser could not interpret,
// with the offending location or field.
type MalformedDocumentError struct {
	Location string
	Cause    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("malformed structure document at %s: %v", e.Location, e.Cause)
	}
	return fmt.Sprintf("malformed structure document: %v", e.Cause)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Cause }

// ParseFile reads and parses the structure dump at path.
func ParseFile(path string) (*StructureData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse deserializes a structure dump document into StructureData. It fails
// with ErrEmptyDump for a zero-length body and with MalformedDocumentError
// for anything the schema cannot accept.
func Parse(r io.Reader) (*StructureData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure dump: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyDump
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var data StructureData
	if err := dec.Decode(&data); err != nil {
		return nil, &MalformedDocumentError{Location: yamlErrorLocation(err), Cause: err}
	}

	if err := validate(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func validate(data *StructureData) error {
	if data.SbtVersion == "" {
		return missingField("sbtVersion")
	}
	for i, p := range data.Projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		if p.ID == "" {
			return missingField(prefix + ".id")
		}
		if p.Name == "" {
			return missingField(prefix + ".name")
		}
		if p.Base == "" {
			return missingField(prefix + ".base")
		}
		for j, c := range p.Configurations {
			if c.ID == "" {
				return missingField(fmt.Sprintf("%s.configurations[%d].id", prefix, j))
			}
		}
		for j, m := range p.Dependencies.Modules {
			if err := validateIdentifier(m.ID, fmt.Sprintf("%s.dependencies.modules[%d].id", prefix, j)); err != nil {
				return err
			}
		}
	}
	if data.Repository != nil {
		for i, m := range data.Repository.Modules {
			if err := validateIdentifier(m.ID, fmt.Sprintf("repository.modules[%d].id", i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateIdentifier(id ModuleIdentifier, location string) error {
	if id.Organization == "" || id.Name == "" || id.Revision == "" {
		return &MalformedDocumentError{
			Location: location,
			Cause:    fmt.Errorf("module identifier requires organization, name and revision, got %q", id.String()),
		}
	}
	return nil
}

func missingField(location string) error {
	return &MalformedDocumentError{Location: location, Cause: errors.New("required field is missing")}
}

// yamlErrorLocation extracts a "line N" style location from a yaml decode
// error, best effort.
func yamlErrorLocation(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return strings.TrimPrefix(typeErr.Errors[0], "yaml: ")
	}
	return ""
}
