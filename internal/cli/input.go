package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/mikey/mail-priority-sorter/internal/core"
	"gopkg.in/yaml.v3"
)

var errNoRecords = errors.New("no records in input")

type recordFile struct {
	Emails []core.RawEmail `json:"emails" yaml:"emails"`
}

// readInput reads a named file, or stdin when the name is empty or "-"
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// decodeRecords accepts a list of records, an object with an "emails" list
// or a single record, in JSON or YAML
func decodeRecords(data []byte) ([]core.RawEmail, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errNoRecords
	}

	var (
		emails []core.RawEmail
		err    error
	)
	if data[0] == '[' || data[0] == '{' {
		emails, err = decodeJSONRecords(data)
	} else {
		emails, err = decodeYAMLRecords(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	if len(emails) == 0 {
		return nil, errNoRecords
	}
	return emails, nil
}

func decodeJSONRecords(data []byte) ([]core.RawEmail, error) {
	if data[0] == '[' {
		var emails []core.RawEmail
		err := json.Unmarshal(data, &emails)
		return emails, err
	}

	var file recordFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Emails != nil {
		return file.Emails, nil
	}

	var single core.RawEmail
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []core.RawEmail{single}, nil
}

func decodeYAMLRecords(data []byte) ([]core.RawEmail, error) {
	var emails []core.RawEmail
	if err := yaml.Unmarshal(data, &emails); err == nil {
		return emails, nil
	}

	var file recordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Emails != nil {
		return file.Emails, nil
	}

	var single core.RawEmail
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []core.RawEmail{single}, nil
}

// decodeSettings reads settings from JSON or YAML
func decodeSettings(data []byte) (*core.Settings, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty settings document")
	}

	settings := core.DefaultSettings()
	var err error
	if data[0] == '{' {
		err = json.Unmarshal(data, &settings)
	} else {
		err = yaml.Unmarshal(data, &settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// decodeRule reads a single rule from JSON or YAML
func decodeRule(data []byte) (core.Rule, error) {
	data = bytes.TrimSpace(data)
	rule := core.Rule{Enabled: true}
	var err error
	if len(data) > 0 && data[0] == '{' {
		err = json.Unmarshal(data, &rule)
	} else {
		err = yaml.Unmarshal(data, &rule)
	}
	if err != nil {
		return core.Rule{}, fmt.Errorf("failed to decode rule: %w", err)
	}
	return rule, nil
}
